package repository

import "context"

// Transactor runs fn as one unit of work. Repositories called with the ctx
// passed to fn take part in the same transaction; any error from fn rolls
// every write back.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
