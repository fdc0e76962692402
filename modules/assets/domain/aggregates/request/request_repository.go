package request

import "context"

type FindParams struct {
	IDs      []int64
	UserID   int64
	Statuses []Status
	Category string
	Search   string
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Request, error)
	// GetForUpdate locks the row for the rest of the transaction.
	GetForUpdate(ctx context.Context, id int64) (*Request, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Request, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, data *Request) (*Request, error)
	Update(ctx context.Context, data *Request) error
	Delete(ctx context.Context, id int64) error
}
