package todo

import (
	"context"
	"time"
)

// Warning is a penalty issued when an approved todo rates below the threshold.
type Warning struct {
	ID          int64
	TodoID      int64
	UserID      int64
	EvaluatorID int64
	Points      int
	Level       WarningLevel
	Note        string
	CreatedAt   time.Time

	TodoTitle string
}

type WarningFindParams struct {
	UserID int64
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Summary is a user's warning total for one calendar month.
type Summary struct {
	UserID    int64
	Month     time.Time
	RawPoints int
	Points    int
	Warnings  []*Warning
}

// MonthRange returns the half-open bounds of the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	from := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 1, 0)
}

type WarningRepository interface {
	Create(ctx context.Context, w *Warning) (*Warning, error)
	GetPaginated(ctx context.Context, params *WarningFindParams) ([]*Warning, error)
	Count(ctx context.Context, params *WarningFindParams) (int64, error)
	SumPoints(ctx context.Context, userID int64, from, to time.Time) (int, error)
}
