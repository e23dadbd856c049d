package repositories

import "context"

// UnitOfWork runs a function within a single database transaction. The
// transaction is carried in the context so repositories participate
// transparently.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
