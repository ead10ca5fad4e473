package cart

import "context"

// Repository persists the per-session line-item list. Load returns an empty
// list, not an error, when the session has no cart yet.
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]LineItem, error)
	Save(ctx context.Context, sessionID string, items []LineItem) error
	Delete(ctx context.Context, sessionID string) error
}
