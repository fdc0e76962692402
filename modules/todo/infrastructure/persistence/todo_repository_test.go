package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/pkg/repo/repotest"
)

func todoRow(id int64, status string, evidence []string) []any {
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	return []any{
		id, int64(7), "Patrol", "patrol", "", "medium", status,
		nil, nil, nil, 60, "minutes",
		now, nil, nil, nil, nil,
		evidence, nil, nil, nil, nil, nil,
		1, "week", nil, nil, []int{1, 4},
		int64(1), now, now,
	}
}

func TestTodoRepository_GetForUpdate(t *testing.T) {
	tx := &repotest.StubTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "WHERE t.id = $1 FOR UPDATE")
			require.Equal(t, []any{int64(5)}, args)
			return &repotest.StubRows{Data: [][]any{todoRow(5, "in_progress", []string{"a.jpg"})}}, nil
		},
	}
	got, err := NewTodoRepository().GetForUpdate(tx.Context(context.Background()), 5)
	require.NoError(t, err)
	require.Equal(t, todo.StatusInProgress, got.Status)
	require.Equal(t, 60, got.TargetDurationValue)
	require.Equal(t, todo.UnitMinutes, got.TargetDurationUnit)
	require.NotNil(t, got.Recurrence)
	require.Equal(t, []time.Weekday{time.Monday, time.Thursday}, got.Recurrence.DaysOfWeek)
	require.Equal(t, []string{"a.jpg"}, got.Evidence)
}

func TestTodoRepository_GetByID_NotFound(t *testing.T) {
	tx := &repotest.StubTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &repotest.StubRows{}, nil
		},
	}
	_, err := NewTodoRepository().GetByID(tx.Context(context.Background()), 9)
	require.ErrorIs(t, err, todo.ErrNotFound)
}

func TestTodoRepository_GetPaginated_Filters(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tx := &repotest.StubTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "t.user_id = $1")
			require.Contains(t, sql, "t.status = ANY($2)")
			require.Contains(t, sql, "t.due_date >= $3")
			require.Contains(t, sql, "t.title ILIKE $4")
			require.Contains(t, sql, "LIMIT 20 OFFSET 40")
			require.Equal(t, []string{"checking", "evaluating"}, args[1])
			require.Equal(t, "%lobby%", args[3])
			return &repotest.StubRows{}, nil
		},
	}
	_, err := NewTodoRepository().GetPaginated(tx.Context(context.Background()), &todo.FindParams{
		UserID:   7,
		Statuses: []todo.Status{todo.StatusChecking, todo.StatusEvaluating},
		From:     &from,
		Search:   "lobby",
		Limit:    20,
		Offset:   40,
	})
	require.NoError(t, err)
}

func TestTodoRepository_Create(t *testing.T) {
	now := time.Now()
	tx := &repotest.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "INSERT INTO todos")
			require.Len(t, args, 18)
			require.Equal(t, "patrol", args[2])
			require.Equal(t, []string{}, args[11])
			require.Equal(t, "week", *(args[13].(*string)))
			return repotest.StubRow{Values: []any{int64(11), now, now}}
		},
	}
	td := todo.New(7, "Patrol", todo.PriorityLow)
	td.Recurrence = &todo.Recurrence{Interval: 1, Unit: todo.UnitWeek}
	created, err := NewTodoRepository().Create(tx.Context(context.Background()), td)
	require.NoError(t, err)
	require.Equal(t, int64(11), created.ID)
	require.Equal(t, todo.StatusNotStarted, created.Status)
}

func TestTodoRepository_Update_NotFound(t *testing.T) {
	tx := &repotest.StubTx{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			require.Contains(t, sql, "UPDATE todos SET")
			require.Len(t, args, 23)
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}
	td := todo.New(7, "Patrol", todo.PriorityLow)
	td.ID = 3
	err := NewTodoRepository().Update(tx.Context(context.Background()), td)
	require.ErrorIs(t, err, todo.ErrNotFound)
}

func TestTodoRepository_FindRoutineGroup(t *testing.T) {
	tx := &repotest.StubTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "t.title_normalized = $1")
			require.Contains(t, sql, "t.recurrence_interval = $2")
			require.Contains(t, sql, "t.recurrence_unit = $3")
			require.Contains(t, sql, "LOWER(u.category) = LOWER($4)")
			require.Contains(t, sql, "FOR UPDATE")
			require.Equal(t, []any{"patrol", 1, "week", "security"}, args)
			return &repotest.StubRows{Data: [][]any{todoRow(1, "not_started", nil), todoRow(2, "completed", []string{"x.jpg"})}}, nil
		},
	}
	got, err := NewTodoRepository().FindRoutineGroup(tx.Context(context.Background()), todo.RoutineGroupParams{
		TitleNormalized: "patrol",
		Interval:        1,
		Unit:            todo.UnitWeek,
		Category:        "security",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestTodoRepository_Counts(t *testing.T) {
	day := time.Date(2025, 1, 15, 13, 0, 0, 0, time.UTC)
	tx := &repotest.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if len(args) == 3 {
				require.Equal(t, "2025-01-15", args[2])
				return repotest.StubRow{Values: []any{2}}
			}
			require.Contains(t, sql, "FROM todo_submissions")
			require.Equal(t, []any{int64(7), "2025-01-15"}, args)
			return repotest.StubRow{Values: []any{4}}
		},
	}
	ctx := tx.Context(context.Background())
	n, err := NewTodoRepository().CountSubmissionsOn(ctx, 7, day)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	n, err = NewTodoRepository().CountByTitleOnDate(ctx, 7, "patrol", day)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestTodoRepository_RecordSubmission(t *testing.T) {
	tx := &repotest.StubTx{}
	ctx := tx.Context(context.Background())
	day := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, NewTodoRepository().RecordSubmission(ctx, 3, 7, day, 5))
	require.Len(t, tx.Calls, 1)
	require.Contains(t, tx.Calls[0].SQL, "INSERT INTO todo_submissions")
	require.Equal(t, []any{int64(3), int64(7), "2025-01-15", 5}, tx.Calls[0].Args)
}

func TestWarningRepository(t *testing.T) {
	now := time.Now()
	tx := &repotest.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if len(args) == 7 {
				require.Equal(t, "high", args[4])
				return repotest.StubRow{Values: []any{int64(5)}}
			}
			require.Contains(t, sql, "COALESCE(SUM(points), 0)")
			return repotest.StubRow{Values: []any{175}}
		},
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "w.user_id = $1")
			return &repotest.StubRows{Data: [][]any{
				{int64(5), int64(1), int64(7), int64(2), 100, "high", nil, now, "Patrol"},
			}}, nil
		},
	}
	ctx := tx.Context(context.Background())
	repo := NewWarningRepository()

	w, err := repo.Create(ctx, &todo.Warning{TodoID: 1, UserID: 7, EvaluatorID: 2, Points: 100, Level: todo.LevelHigh, CreatedAt: now})
	require.NoError(t, err)
	require.Equal(t, int64(5), w.ID)

	list, err := repo.GetPaginated(ctx, &todo.WarningFindParams{UserID: 7})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Patrol", list[0].TodoTitle)

	total, err := repo.SumPoints(ctx, 7, now, now.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Equal(t, 175, total)
}
