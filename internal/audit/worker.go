package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and persists them. It drains
// whatever is left in the inbox before honoring cancellation so shutdown does
// not lose buffered events.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.append(event)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case event := <-w.inbox:
			w.append(event)
		default:
			return
		}
	}
}

func (w *Worker) append(event Event) {
	// Persistence uses its own context: the request that emitted the event is
	// long gone, and shutdown draining must still be able to write.
	if err := w.store.Append(context.Background(), event); err != nil {
		w.logger.Error("failed to persist audit event",
			"action", string(event.Action),
			"error", err,
		)
	}
}
