package refreshtokens

import "context"

// Repository keeps the single current refresh token of every user.
// An empty string means the user has no active session.
type Repository interface {
	Set(ctx context.Context, userID string, token string) error
	Get(ctx context.Context, userID string) (string, error)
	Clear(ctx context.Context, userID string) error
	// CompareAndSwap replaces expected with next in one atomic step and
	// reports whether the stored value still equalled expected.
	CompareAndSwap(ctx context.Context, userID string, expected string, next string) (bool, error)
}
