package services

import (
	"context"
	"time"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

type WarningService struct {
	repo  todo.WarningRepository
	clock clock.Clock
}

func NewWarningService(repo todo.WarningRepository, clk clock.Clock) *WarningService {
	return &WarningService{repo: repo, clock: clk}
}

// scope pins params to the caller unless the caller may see everyone.
func (s *WarningService) scope(ctx context.Context, userID int64) (int64, error) {
	if err := authorizeTodo(ctx, authz.ObjectWarnings, "list"); err != nil {
		return 0, err
	}
	caller, err := composables.UseCaller(ctx)
	if err != nil {
		return 0, authz.ErrForbidden.WithMessage("caller identity required")
	}
	if caller.IsReviewer() {
		return userID, nil
	}
	if userID != 0 && userID != caller.UserID {
		return 0, authz.ErrForbidden.WithMessage("cannot view warnings of another user")
	}
	return caller.UserID, nil
}

func (s *WarningService) GetPaginatedWithTotal(ctx context.Context, params *todo.WarningFindParams) ([]*todo.Warning, int64, error) {
	if params == nil {
		params = &todo.WarningFindParams{}
	}
	userID, err := s.scope(ctx, params.UserID)
	if err != nil {
		return nil, 0, err
	}
	params.UserID = userID
	warnings, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return warnings, total, nil
}

// Summary totals a user's warning points for the month containing month.
// Points shown are capped; RawPoints keeps the real sum.
func (s *WarningService) Summary(ctx context.Context, userID int64, month time.Time) (*todo.Summary, error) {
	userID, err := s.scope(ctx, userID)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, serrors.ValidationErrors{"user_id": "user_id is required"}.AsError()
	}
	if month.IsZero() {
		month = s.clock.Now()
	}
	from, to := todo.MonthRange(month.In(s.clock.Location()))
	raw, err := s.repo.SumPoints(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	warnings, err := s.repo.GetPaginated(ctx, &todo.WarningFindParams{UserID: userID, From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	return &todo.Summary{
		UserID:    userID,
		Month:     from,
		RawPoints: raw,
		Points:    todo.CapPoints(raw),
		Warnings:  warnings,
	}, nil
}
