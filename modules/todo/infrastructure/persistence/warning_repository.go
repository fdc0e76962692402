package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/modules/todo/infrastructure/persistence/models"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/repo"
)

const (
	warningFindQuery = `
		SELECT
			w.id,
			w.todo_id,
			w.user_id,
			w.evaluator_id,
			w.points,
			w.level,
			w.note,
			w.created_at,
			t.title
		FROM todo_warnings w
		LEFT JOIN todos t ON t.id = w.todo_id`

	warningCountQuery = `SELECT COUNT(w.id) FROM todo_warnings w`

	warningInsertQuery = `
		INSERT INTO todo_warnings (todo_id, user_id, evaluator_id, points, level, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	warningSumQuery = `
		SELECT COALESCE(SUM(points), 0) FROM todo_warnings
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`
)

type WarningRepository struct{}

func NewWarningRepository() todo.WarningRepository {
	return &WarningRepository{}
}

func buildWarningFilters(params *todo.WarningFindParams) (string, *repo.Placeholders) {
	ph := &repo.Placeholders{}
	if params == nil {
		return "", ph
	}
	var where []string
	if params.UserID > 0 {
		where = append(where, "w.user_id = "+ph.Add(params.UserID))
	}
	if params.From != nil {
		where = append(where, "w.created_at >= "+ph.Add(*params.From))
	}
	if params.To != nil {
		where = append(where, "w.created_at < "+ph.Add(*params.To))
	}
	if len(where) == 0 {
		return "", ph
	}
	return " WHERE " + strings.Join(where, " AND "), ph
}

func (g *WarningRepository) Create(ctx context.Context, w *todo.Warning) (*todo.Warning, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var note *string
	if w.Note != "" {
		note = &w.Note
	}
	out := *w
	if err := tx.QueryRow(
		ctx,
		warningInsertQuery,
		w.TodoID,
		w.UserID,
		w.EvaluatorID,
		w.Points,
		string(w.Level),
		note,
		w.CreatedAt,
	).Scan(&out.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create todo warning")
	}
	return &out, nil
}

func (g *WarningRepository) GetPaginated(ctx context.Context, params *todo.WarningFindParams) ([]*todo.Warning, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	where, ph := buildWarningFilters(params)
	limit, offset := 0, 0
	if params != nil {
		limit, offset = params.Limit, params.Offset
	}
	rows, err := tx.Query(ctx, warningFindQuery+where+" ORDER BY w.created_at DESC, w.id DESC "+repo.FormatLimitOffset(limit, offset), ph.Args()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list todo warnings")
	}
	defer rows.Close()

	var warnings []*todo.Warning
	for rows.Next() {
		var m models.Warning
		if err := rows.Scan(
			&m.ID,
			&m.TodoID,
			&m.UserID,
			&m.EvaluatorID,
			&m.Points,
			&m.Level,
			&m.Note,
			&m.CreatedAt,
			&m.TodoTitle,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan todo warning")
		}
		warnings = append(warnings, ToDomainWarning(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate todo warnings")
	}
	return warnings, nil
}

func (g *WarningRepository) Count(ctx context.Context, params *todo.WarningFindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, ph := buildWarningFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, warningCountQuery+where, ph.Args()...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count todo warnings")
	}
	return count, nil
}

func (g *WarningRepository) SumPoints(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var total int
	if err := tx.QueryRow(ctx, warningSumQuery, userID, from, to).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "failed to sum warning points")
	}
	return total, nil
}
