package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/modules/todo/infrastructure/persistence/models"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/repo"
)

const (
	todoFindQuery = `
		SELECT
			t.id,
			t.user_id,
			t.title,
			t.title_normalized,
			t.description,
			t.priority,
			t.status,
			t.due_date,
			t.target_start_at,
			t.target_end_at,
			t.target_duration_value,
			t.target_duration_unit,
			t.started_at,
			t.submitted_at,
			t.completed_at,
			t.total_work_minutes,
			t.total_work_time,
			t.evidence,
			t.checker_id,
			t.checker_name,
			t.hold_note,
			t.notes,
			t.rating,
			t.recurrence_interval,
			t.recurrence_unit,
			t.recurrence_count,
			t.recurrence_per_interval,
			t.recurrence_days_of_week,
			t.created_by,
			t.created_at,
			t.updated_at
		FROM todos t`

	todoCountQuery = `SELECT COUNT(t.id) FROM todos t`

	todoInsertQuery = `
		INSERT INTO todos (
			user_id,
			title,
			title_normalized,
			description,
			priority,
			status,
			due_date,
			target_start_at,
			target_end_at,
			target_duration_value,
			target_duration_unit,
			evidence,
			recurrence_interval,
			recurrence_unit,
			recurrence_count,
			recurrence_per_interval,
			recurrence_days_of_week,
			created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`

	todoUpdateQuery = `
		UPDATE todos SET
			user_id = $2,
			title = $3,
			title_normalized = $4,
			description = $5,
			priority = $6,
			status = $7,
			due_date = $8,
			target_start_at = $9,
			target_end_at = $10,
			target_duration_value = $11,
			target_duration_unit = $12,
			started_at = $13,
			submitted_at = $14,
			completed_at = $15,
			total_work_minutes = $16,
			total_work_time = $17,
			evidence = $18,
			checker_id = $19,
			checker_name = $20,
			hold_note = $21,
			notes = $22,
			rating = $23,
			updated_at = NOW()
		WHERE id = $1`

	todoDeleteQuery = `DELETE FROM todos WHERE id = $1`

	todoCountSubmissionsQuery = `
		SELECT COUNT(*) FROM todo_submissions
		WHERE user_id = $1 AND day = $2`

	todoInsertSubmissionQuery = `
		INSERT INTO todo_submissions (todo_id, user_id, day, seq)
		VALUES ($1, $2, $3, $4)`

	todoCountTitleOnDateQuery = `
		SELECT COUNT(*) FROM todos
		WHERE user_id = $1 AND title_normalized = $2 AND due_date = $3`
)

type TodoRepository struct{}

func NewTodoRepository() todo.Repository {
	return &TodoRepository{}
}

func statusStrings(statuses []todo.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func buildTodoFilters(params *todo.FindParams) (string, *repo.Placeholders) {
	ph := &repo.Placeholders{}
	if params == nil {
		return "", ph
	}
	var where []string
	if len(params.IDs) > 0 {
		where = append(where, "t.id = ANY("+ph.Add(params.IDs)+")")
	}
	if params.UserID > 0 {
		where = append(where, "t.user_id = "+ph.Add(params.UserID))
	}
	if len(params.Statuses) > 0 {
		where = append(where, "t.status = ANY("+ph.Add(statusStrings(params.Statuses))+")")
	}
	if params.From != nil {
		where = append(where, "t.due_date >= "+ph.Add(*params.From))
	}
	if params.To != nil {
		where = append(where, "t.due_date <= "+ph.Add(*params.To))
	}
	if params.Search != "" {
		where = append(where, "t.title ILIKE "+ph.Add("%"+params.Search+"%"))
	}
	if len(where) == 0 {
		return "", ph
	}
	return " WHERE " + strings.Join(where, " AND "), ph
}

func buildRoutineGroupFilters(params todo.RoutineGroupParams) (string, *repo.Placeholders) {
	ph := &repo.Placeholders{}
	where := []string{
		"t.title_normalized = " + ph.Add(params.TitleNormalized),
		"t.recurrence_unit IS NOT NULL",
	}
	if params.Interval > 0 {
		where = append(where, "t.recurrence_interval = "+ph.Add(params.Interval))
	}
	if params.Unit != "" {
		where = append(where, "t.recurrence_unit = "+ph.Add(string(params.Unit)))
	}
	if params.Count > 0 {
		where = append(where, "t.recurrence_count = "+ph.Add(params.Count))
	}
	if params.UserID > 0 {
		where = append(where, "t.user_id = "+ph.Add(params.UserID))
	}
	if params.Category != "" {
		where = append(where, "EXISTS (SELECT 1 FROM users u WHERE u.id = t.user_id AND LOWER(u.category) = LOWER("+ph.Add(params.Category)+"))")
	}
	return " WHERE " + strings.Join(where, " AND "), ph
}

func (g *TodoRepository) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	return g.getOne(ctx, todoFindQuery+" WHERE t.id = $1", id)
}

func (g *TodoRepository) GetForUpdate(ctx context.Context, id int64) (*todo.Todo, error) {
	return g.getOne(ctx, todoFindQuery+" WHERE t.id = $1 FOR UPDATE", id)
}

func (g *TodoRepository) getOne(ctx context.Context, query string, id int64) (*todo.Todo, error) {
	todos, err := g.queryTodos(ctx, query, id)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to find todo with id %d", id))
	}
	if len(todos) == 0 {
		return nil, todo.ErrNotFound.WithMeta(map[string]string{"id": fmt.Sprint(id)})
	}
	return todos[0], nil
}

func (g *TodoRepository) GetPaginated(ctx context.Context, params *todo.FindParams) ([]*todo.Todo, error) {
	where, ph := buildTodoFilters(params)
	limit, offset := 0, 0
	if params != nil {
		limit, offset = params.Limit, params.Offset
	}
	sql := todoFindQuery + where + " ORDER BY t.due_date DESC NULLS LAST, t.id DESC " + repo.FormatLimitOffset(limit, offset)
	todos, err := g.queryTodos(ctx, sql, ph.Args()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list todos")
	}
	return todos, nil
}

func (g *TodoRepository) Count(ctx context.Context, params *todo.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, ph := buildTodoFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, todoCountQuery+where, ph.Args()...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count todos")
	}
	return count, nil
}

func (g *TodoRepository) Create(ctx context.Context, data *todo.Todo) (*todo.Todo, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m := ToDBTodo(data)
	if err := tx.QueryRow(
		ctx,
		todoInsertQuery,
		m.UserID,
		m.Title,
		m.TitleNormalized,
		m.Description,
		m.Priority,
		m.Status,
		m.DueDate,
		m.TargetStartAt,
		m.TargetEndAt,
		m.TargetDurationValue,
		m.TargetDurationUnit,
		m.Evidence,
		m.RecurrenceInterval,
		m.RecurrenceUnit,
		m.RecurrenceCount,
		m.RecurrencePerInterval,
		m.RecurrenceDaysOfWeek,
		m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to create todo")
	}
	return ToDomainTodo(m), nil
}

func (g *TodoRepository) Update(ctx context.Context, data *todo.Todo) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	m := ToDBTodo(data)
	tag, err := tx.Exec(
		ctx,
		todoUpdateQuery,
		m.ID,
		m.UserID,
		m.Title,
		m.TitleNormalized,
		m.Description,
		m.Priority,
		m.Status,
		m.DueDate,
		m.TargetStartAt,
		m.TargetEndAt,
		m.TargetDurationValue,
		m.TargetDurationUnit,
		m.StartedAt,
		m.SubmittedAt,
		m.CompletedAt,
		m.TotalWorkMinutes,
		m.TotalWorkTime,
		m.Evidence,
		m.CheckerID,
		m.CheckerName,
		m.HoldNote,
		m.Notes,
		m.Rating,
	)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to update todo %d", data.ID))
	}
	if tag.RowsAffected() == 0 {
		return todo.ErrNotFound.WithMeta(map[string]string{"id": fmt.Sprint(data.ID)})
	}
	return nil
}

func (g *TodoRepository) Delete(ctx context.Context, id int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, todoDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to delete todo %d", id))
	}
	if tag.RowsAffected() == 0 {
		return todo.ErrNotFound.WithMeta(map[string]string{"id": fmt.Sprint(id)})
	}
	return nil
}

func (g *TodoRepository) CountSubmissionsOn(ctx context.Context, userID int64, day time.Time) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int
	if err := tx.QueryRow(ctx, todoCountSubmissionsQuery, userID, day.Format("2006-01-02")).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count submissions")
	}
	return count, nil
}

func (g *TodoRepository) RecordSubmission(ctx context.Context, todoID, userID int64, day time.Time, seq int) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, todoInsertSubmissionQuery, todoID, userID, day.Format("2006-01-02"), seq); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to record submission of todo %d", todoID))
	}
	return nil
}

func (g *TodoRepository) CountByTitleOnDate(ctx context.Context, userID int64, titleNormalized string, day time.Time) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int
	if err := tx.QueryRow(ctx, todoCountTitleOnDateQuery, userID, titleNormalized, day.Format("2006-01-02")).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count todos by title")
	}
	return count, nil
}

// FindRoutineGroup locks and returns every instance matching params.
func (g *TodoRepository) FindRoutineGroup(ctx context.Context, params todo.RoutineGroupParams) ([]*todo.Todo, error) {
	where, ph := buildRoutineGroupFilters(params)
	todos, err := g.queryTodos(ctx, todoFindQuery+where+" ORDER BY t.id FOR UPDATE", ph.Args()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find routine group")
	}
	return todos, nil
}

func (g *TodoRepository) queryTodos(ctx context.Context, query string, args ...interface{}) ([]*todo.Todo, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []*todo.Todo
	for rows.Next() {
		var m models.Todo
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Title,
			&m.TitleNormalized,
			&m.Description,
			&m.Priority,
			&m.Status,
			&m.DueDate,
			&m.TargetStartAt,
			&m.TargetEndAt,
			&m.TargetDurationValue,
			&m.TargetDurationUnit,
			&m.StartedAt,
			&m.SubmittedAt,
			&m.CompletedAt,
			&m.TotalWorkMinutes,
			&m.TotalWorkTime,
			&m.Evidence,
			&m.CheckerID,
			&m.CheckerName,
			&m.HoldNote,
			&m.Notes,
			&m.Rating,
			&m.RecurrenceInterval,
			&m.RecurrenceUnit,
			&m.RecurrenceCount,
			&m.RecurrencePerInterval,
			&m.RecurrenceDaysOfWeek,
			&m.CreatedBy,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		todos = append(todos, ToDomainTodo(&m))
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return todos, nil
}
