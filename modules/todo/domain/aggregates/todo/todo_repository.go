package todo

import (
	"context"
	"time"
)

type FindParams struct {
	IDs      []int64
	UserID   int64
	Statuses []Status
	From     *time.Time
	To       *time.Time
	Search   string
	Limit    int
	Offset   int
}

// RoutineGroupParams selects the instances of one routine. Zero fields do
// not filter.
type RoutineGroupParams struct {
	TitleNormalized string
	Interval        int
	Unit            RecurrenceUnit
	Count           int
	Category        string
	UserID          int64
}

// TitleOnly drops every filter except the title.
func (p RoutineGroupParams) TitleOnly() RoutineGroupParams {
	return RoutineGroupParams{TitleNormalized: p.TitleNormalized}
}

func (p RoutineGroupParams) HasFilters() bool {
	return p.Interval > 0 || p.Unit != "" || p.Count > 0 || p.Category != "" || p.UserID > 0
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Todo, error)
	// GetForUpdate reads the row with a lock held until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*Todo, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Todo, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, t *Todo) (*Todo, error)
	Update(ctx context.Context, t *Todo) error
	Delete(ctx context.Context, id int64) error
	// CountSubmissionsOn counts every evidence submission the user made on
	// day, including resubmissions and submissions of deleted todos.
	CountSubmissionsOn(ctx context.Context, userID int64, day time.Time) (int, error)
	RecordSubmission(ctx context.Context, todoID, userID int64, day time.Time, seq int) error
	CountByTitleOnDate(ctx context.Context, userID int64, titleNormalized string, day time.Time) (int, error)
	FindRoutineGroup(ctx context.Context, params RoutineGroupParams) ([]*Todo, error)
}
