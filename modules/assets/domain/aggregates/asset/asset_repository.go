package asset

import "context"

type FindParams struct {
	IDs       []int64
	RequestID int64
	OwnerID   int64
	Statuses  []Status
	Category  string
	Search    string
	Limit     int
	Offset    int
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Asset, error)
	GetForUpdate(ctx context.Context, id int64) (*Asset, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Asset, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	// ListByRequest locks and returns every asset linked to requestID.
	ListByRequest(ctx context.Context, requestID int64) ([]*Asset, error)
	// LatestByRequest locks the most recently created asset of requestID.
	LatestByRequest(ctx context.Context, requestID int64) (*Asset, error)
	Create(ctx context.Context, data *Asset) (*Asset, error)
	Update(ctx context.Context, data *Asset) error
	// DeleteOrphans removes purchasing assets that lost their request.
	DeleteOrphans(ctx context.Context) ([]*Asset, error)

	// LockCodeBase serializes code allocation for base until the transaction ends.
	LockCodeBase(ctx context.Context, base string) error
	// CodesWithBase lists codes starting with base, locking the rows when lock is set.
	CodesWithBase(ctx context.Context, base string, lock bool) ([]string, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}
