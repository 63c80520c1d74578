package audit

import "context"

// Store persists audit events. Swap with concrete storage without touching
// the service.
type Store interface {
	Append(ctx context.Context, event Event) error
}
