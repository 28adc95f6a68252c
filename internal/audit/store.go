package audit

import (
	"context"

	id "taskbox/pkg/domain"
)

// Store is an append-only sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Emitter is what domain services depend on. Both the synchronous Publisher
// and the channel-backed AsyncPublisher satisfy it.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}
