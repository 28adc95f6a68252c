package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "taskbox/pkg/domain"
)

func TestPublisher_StampsTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)
	ctx := context.Background()
	userID := id.NewUserID()

	require.NoError(t, publisher.Emit(ctx, Event{UserID: userID, Action: ActionUserRegistered}))

	events, err := publisher.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestAsyncPublisher_NeverBlocks(t *testing.T) {
	inbox := make(chan Event, 1)
	publisher := NewAsyncPublisher(inbox)
	ctx := context.Background()

	// Second emit finds the inbox full and must drop rather than block.
	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionTodoCreated}))
	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionTodoCreated}))

	assert.Len(t, inbox, 1)
}

func TestWorker_PersistsAndDrains(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 16)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	worker := NewWorker(store, inbox, logger)

	userID := id.NewUserID()
	for i := 0; i < 5; i++ {
		inbox <- Event{UserID: userID, Action: ActionTodoCreated, Timestamp: time.Now()}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// Cancellation must not lose events still sitting in the inbox.
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	events, err := store.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}
