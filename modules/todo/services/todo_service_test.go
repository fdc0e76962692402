package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
	"github.com/jacksonlee411/office-ops/pkg/upload"
)

func TestTodoService_SubmitStoresEvidence(t *testing.T) {
	f := newFixture(t, started(1, 7, 50))
	ctx := as(composables.RoleUser, 7)

	got, err := f.svc.SubmitForChecking(ctx, 1, []upload.File{
		{Name: "front.png", Data: pngData},
		{Name: "report.pdf", Data: pdfData},
	})
	require.NoError(t, err)
	require.Equal(t, todo.StatusChecking, got.Status)
	want := []string{
		"evidence/2025-01-15/user_7/1_Rabu_20250115_100000_1.png",
		"evidence/2025-01-15/user_7/1_Rabu_20250115_100000_2.pdf",
	}
	require.Equal(t, want, got.Evidence)
	require.Equal(t, want, sortedPaths(f.store))
	require.Equal(t, 50, *f.todo(t, 1).TotalWorkMinutes)

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0].(todo.TransitionedEvent)
	require.Equal(t, todo.OpSubmitForChecking, ev.Operation)
	require.Equal(t, todo.StatusInProgress, ev.From)
}

func TestTodoService_ResubmissionReplacesWholeSet(t *testing.T) {
	f := newFixture(t, started(1, 7, 50))
	user := as(composables.RoleUser, 7)
	ga := as(composables.RoleGA, 2)

	_, err := f.svc.SubmitForChecking(user, 1, []upload.File{{Data: pngData}, {Data: pdfData}})
	require.NoError(t, err)
	_, _, err = f.svc.Evaluate(ga, 1, &todo.EvaluateDTO{Action: "rework", Notes: "blurry"})
	require.NoError(t, err)

	got, err := f.svc.SubmitImprovement(user, 1, []upload.File{{Data: pngData}})
	require.NoError(t, err)
	require.Equal(t, []string{"evidence/2025-01-15/user_7/2_Rabu_20250115_100000.png"}, got.Evidence)
	require.Equal(t, []string{
		"evidence/2025-01-15/user_7/1_Rabu_20250115_100000_1_Deleted.png",
		"evidence/2025-01-15/user_7/1_Rabu_20250115_100000_2_Deleted.pdf",
		"evidence/2025-01-15/user_7/2_Rabu_20250115_100000.png",
	}, sortedPaths(f.store))
}

func TestTodoService_SubmitRejections(t *testing.T) {
	t.Run("no evidence", func(t *testing.T) {
		f := newFixture(t, started(1, 7, 10))
		_, err := f.svc.SubmitForChecking(as(composables.RoleUser, 7), 1, nil)
		require.ErrorIs(t, err, todo.ErrEvidenceRequired)
		require.Equal(t, todo.StatusInProgress, f.todo(t, 1).Status)
	})

	t.Run("wrong status writes nothing", func(t *testing.T) {
		td := started(1, 7, 10)
		td.Status = todo.StatusHold
		f := newFixture(t, td)
		_, err := f.svc.SubmitForChecking(as(composables.RoleUser, 7), 1, []upload.File{{Data: pngData}})
		require.ErrorIs(t, err, todo.ErrInvalidTransition)
		require.Empty(t, f.store.Paths())
		require.Equal(t, todo.StatusHold, f.todo(t, 1).Status)
	})

	t.Run("unsupported type", func(t *testing.T) {
		f := newFixture(t, started(1, 7, 10))
		_, err := f.svc.SubmitForChecking(as(composables.RoleUser, 7), 1, []upload.File{{Name: "x.txt", Data: []byte("plain text")}})
		require.ErrorIs(t, err, upload.ErrUnsupportedType)
	})

	t.Run("too many files", func(t *testing.T) {
		f := newFixture(t, started(1, 7, 10))
		files := make([]upload.File, 6)
		for i := range files {
			files[i] = upload.File{Data: pngData}
		}
		_, err := f.svc.SubmitForChecking(as(composables.RoleUser, 7), 1, files)
		require.ErrorIs(t, err, upload.ErrTooManyFiles)
	})

	t.Run("storage failure aborts", func(t *testing.T) {
		f := newFixture(t, started(1, 7, 10))
		f.store.FailWrites = true
		_, err := f.svc.SubmitForChecking(as(composables.RoleUser, 7), 1, []upload.File{{Data: pngData}})
		require.ErrorIs(t, err, todo.ErrEvidenceStorage)
		require.Equal(t, serrors.KindStorage, serrors.KindOf(err))
		require.Equal(t, todo.StatusInProgress, f.todo(t, 1).Status)
	})

	t.Run("failed update discards written files", func(t *testing.T) {
		f := newFixture(t, started(1, 7, 10))
		f.repo.failWrite = errBoom
		_, err := f.svc.SubmitForChecking(as(composables.RoleUser, 7), 1, []upload.File{{Data: pngData}})
		require.ErrorIs(t, err, errBoom)
		require.Empty(t, f.store.Paths())
	})

	t.Run("other user", func(t *testing.T) {
		f := newFixture(t, started(1, 7, 10))
		_, err := f.svc.SubmitForChecking(as(composables.RoleUser, 8), 1, []upload.File{{Data: pngData}})
		require.ErrorIs(t, err, todo.ErrNotOwner)
		require.Empty(t, f.store.Paths())
	})
}

func TestTodoService_Complete(t *testing.T) {
	f := newFixture(t, started(1, 7, 95))
	ctx := as(composables.RoleUser, 7)

	_, err := f.svc.Complete(ctx, 1, nil)
	require.ErrorIs(t, err, todo.ErrEvidenceRequired)
	require.Empty(t, f.store.Paths())

	got, err := f.svc.Complete(ctx, 1, []upload.File{{Data: pngData}})
	require.NoError(t, err)
	require.Equal(t, todo.StatusCompleted, got.Status)
	require.Equal(t, "1h 35m", got.TotalWorkTime)
	require.Len(t, f.store.Paths(), 1)
}

func TestTodoService_StartAndHold(t *testing.T) {
	td := todo.New(7, "Clean lobby", todo.PriorityLow)
	td.ID = 1
	f := newFixture(t, td)
	ctx := as(composables.RoleUser, 7)

	got, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, now, *got.StartedAt)

	_, err = f.svc.Hold(ctx, 1, &todo.HoldDTO{})
	require.Error(t, err)
	require.Equal(t, serrors.KindValidation, serrors.KindOf(err))

	got, err = f.svc.Hold(ctx, 1, &todo.HoldDTO{Note: "waiting for parts"})
	require.NoError(t, err)
	require.Equal(t, todo.StatusHold, got.Status)

	_, err = f.svc.Hold(ctx, 1, &todo.HoldDTO{Note: "again"})
	require.ErrorIs(t, err, todo.ErrInvalidTransition)
}

func TestTodoService_EvaluateApproveIssuesWarning(t *testing.T) {
	td := started(1, 7, 140)
	td.TargetDurationValue, td.TargetDurationUnit = 60, todo.UnitMinutes
	td.Status = todo.StatusChecking
	td.Evidence = []string{"e.png"}
	minutes := 140
	td.TotalWorkMinutes = &minutes
	f := newFixture(t, td)

	got, w, err := f.svc.Evaluate(as(composables.RoleGA, 2), 1, &todo.EvaluateDTO{Action: "approve", Notes: "late"})
	require.NoError(t, err)
	require.Equal(t, todo.StatusCompleted, got.Status)
	require.Equal(t, 15, *got.Rating)
	require.NotNil(t, w)
	require.Equal(t, 100, w.Points)
	require.Equal(t, todo.LevelHigh, w.Level)
	require.Len(t, f.warnings.warnings, 1)
	require.Equal(t, "caller-ga", got.CheckerName)

	require.Len(t, f.events.events, 2)
	require.IsType(t, todo.TransitionedEvent{}, f.events.events[0])
	require.IsType(t, todo.WarningIssuedEvent{}, f.events.events[1])
}

func TestTodoService_EvaluateApproveWithoutWarning(t *testing.T) {
	td := started(1, 7, 50)
	td.TargetDurationValue, td.TargetDurationUnit = 60, todo.UnitMinutes
	td.Status = todo.StatusChecking
	f := newFixture(t, td)

	got, w, err := f.svc.Evaluate(as(composables.RoleAdmin, 1), 1, &todo.EvaluateDTO{Action: "approve"})
	require.NoError(t, err)
	require.Nil(t, w)
	require.Equal(t, 75, *got.Rating)
	require.Empty(t, f.warnings.warnings)
}

func TestTodoService_ApproveImprovementNeverWarns(t *testing.T) {
	td := started(1, 7, 300)
	td.TargetDurationValue, td.TargetDurationUnit = 1, todo.UnitHours
	td.Status = todo.StatusEvaluating
	minutes := 300
	td.TotalWorkMinutes = &minutes
	f := newFixture(t, td)

	got, err := f.svc.ApproveImprovement(as(composables.RoleGA, 2), 1, &todo.ReviewDTO{Notes: "fine"})
	require.NoError(t, err)
	require.Equal(t, todo.StatusCompleted, got.Status)
	require.Equal(t, 15, *got.Rating)
	require.Empty(t, f.warnings.warnings)
}

func TestTodoService_EvaluateRequiresReviewer(t *testing.T) {
	td := started(1, 7, 10)
	td.Status = todo.StatusChecking
	f := newFixture(t, td)

	_, _, err := f.svc.Evaluate(as(composables.RoleUser, 7), 1, &todo.EvaluateDTO{Action: "approve"})
	require.ErrorIs(t, err, authz.ErrForbidden)
	require.Equal(t, todo.StatusChecking, f.todo(t, 1).Status)

	_, _, err = f.svc.Evaluate(as(composables.RoleProcurement, 3), 1, &todo.EvaluateDTO{Action: "approve"})
	require.ErrorIs(t, err, authz.ErrForbidden)
}

func TestTodoService_CreateUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ga := as(composables.RoleGA, 2)

	_, err := f.svc.Create(as(composables.RoleUser, 7), &todo.CreateDTO{UserID: 7, Title: "x"})
	require.ErrorIs(t, err, authz.ErrForbidden)

	_, err = f.svc.Create(ga, &todo.CreateDTO{Title: "x"})
	require.ErrorIs(t, err, serrors.ErrValidation)

	created, err := f.svc.Create(ga, &todo.CreateDTO{UserID: 7, Title: "Fix door", TargetDTO: todo.TargetDTO{DueDate: "2025-01-20"}})
	require.NoError(t, err)
	require.Equal(t, int64(2), created.CreatedBy)
	require.Equal(t, time.Date(2025, 1, 20, 0, 0, 0, 0, jakarta), *created.DueDate)

	updated, err := f.svc.Update(ga, created.ID, &todo.UpdateDTO{Title: "Fix front door", Priority: "high"})
	require.NoError(t, err)
	require.Equal(t, "fix front door", updated.TitleNormalized)
	require.Equal(t, todo.PriorityHigh, updated.Priority)

	stored := f.todo(t, created.ID)
	stored.Evidence = []string{"evidence/2025-01-15/user_7/1_Rabu_20250115_100000.png"}
	require.NoError(t, f.repo.Update(ga, stored))
	require.NoError(t, f.store.Write(ga, stored.Evidence[0], pngData))

	deleted, err := f.svc.Delete(ga, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, deleted.ID)
	require.Equal(t, []string{"evidence/2025-01-15/user_7/1_Rabu_20250115_100000_Deleted.png"}, f.store.Paths())
	_, err = f.repo.get(created.ID)
	require.ErrorIs(t, err, todo.ErrNotFound)
}

func TestTodoService_DeleteToleratesMissingEvidence(t *testing.T) {
	td := started(1, 7, 10)
	td.Evidence = []string{"evidence/gone.png"}
	f := newFixture(t, td)

	_, err := f.svc.Delete(as(composables.RoleAdmin, 1), 1)
	require.NoError(t, err)
	ev := f.events.events[0].(todo.DeletedEvent)
	require.Empty(t, ev.Retired)
}

func TestTodoService_VisibilityScoping(t *testing.T) {
	f := newFixture(t, started(1, 7, 10), started(2, 8, 10))

	list, total, err := f.svc.GetPaginatedWithTotal(as(composables.RoleUser, 7), &todo.FindParams{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, int64(1), list[0].ID)

	_, total, err = f.svc.GetPaginatedWithTotal(as(composables.RoleGA, 2), &todo.FindParams{})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	_, err = f.svc.GetByID(as(composables.RoleUser, 7), 2)
	require.ErrorIs(t, err, todo.ErrNotOwner)
}

func TestTodoService_SequenceCountsEverySubmission(t *testing.T) {
	f := newFixture(t, started(1, 7, 50), started(2, 7, 30))
	user := as(composables.RoleUser, 7)

	_, err := f.svc.SubmitForChecking(user, 1, []upload.File{{Data: pngData}})
	require.NoError(t, err)
	_, _, err = f.svc.Evaluate(as(composables.RoleGA, 2), 1, &todo.EvaluateDTO{Action: "rework", Notes: "retake"})
	require.NoError(t, err)
	first, err := f.svc.SubmitImprovement(user, 1, []upload.File{{Data: pngData}})
	require.NoError(t, err)
	require.Equal(t, []string{"evidence/2025-01-15/user_7/2_Rabu_20250115_100000.png"}, first.Evidence)

	second, err := f.svc.SubmitForChecking(user, 2, []upload.File{{Data: pngData}})
	require.NoError(t, err)
	require.Equal(t, []string{"evidence/2025-01-15/user_7/3_Rabu_20250115_100000.png"}, second.Evidence)
	require.Equal(t, []string{
		"evidence/2025-01-15/user_7/1_Rabu_20250115_100000_Deleted.png",
		"evidence/2025-01-15/user_7/2_Rabu_20250115_100000.png",
		"evidence/2025-01-15/user_7/3_Rabu_20250115_100000.png",
	}, sortedPaths(f.store))

	var seqs []int
	for _, sub := range f.repo.submissions {
		seqs = append(seqs, sub.seq)
	}
	require.Equal(t, []int{1, 2, 3}, seqs)
}

func TestTodoService_SequenceSkipsTakenNames(t *testing.T) {
	f := newFixture(t, started(1, 7, 50))
	user := as(composables.RoleUser, 7)
	require.NoError(t, f.store.Write(user, "evidence/2025-01-15/user_7/1_Rabu_20250115_100000_Deleted.png", pngData))

	got, err := f.svc.SubmitForChecking(user, 1, []upload.File{{Data: pngData}})
	require.NoError(t, err)
	require.Equal(t, []string{"evidence/2025-01-15/user_7/2_Rabu_20250115_100000.png"}, got.Evidence)
	require.Equal(t, 2, f.repo.submissions[0].seq)
}

func TestTodoService_DeleteRestoresEvidenceOnFailure(t *testing.T) {
	td := started(1, 7, 10)
	td.Evidence = []string{"evidence/2025-01-15/user_7/1_Rabu_20250115_100000.png"}
	f := newFixture(t, td)
	ga := as(composables.RoleGA, 2)
	require.NoError(t, f.store.Write(ga, td.Evidence[0], pngData))
	f.repo.failDelete = errBoom

	_, err := f.svc.Delete(ga, 1)
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, td.Evidence, f.todo(t, 1).Evidence)
	require.Equal(t, td.Evidence, f.store.Paths())
	require.Empty(t, f.events.events)
}

func TestTodoService_EvaluateRequiresReviewerWithoutPolicy(t *testing.T) {
	td := started(1, 7, 50)
	td.Status = todo.StatusChecking
	f := newFixture(t, td)
	authorizeTodoFn = func(context.Context, string, string) error { return nil }
	user := as(composables.RoleUser, 7)

	_, _, err := f.svc.Evaluate(user, 1, &todo.EvaluateDTO{Action: "approve"})
	require.ErrorIs(t, err, authz.ErrForbidden)
	_, err = f.svc.Delete(user, 1)
	require.ErrorIs(t, err, authz.ErrForbidden)
	require.Equal(t, todo.StatusChecking, f.todo(t, 1).Status)
	require.Empty(t, f.warnings.warnings)

	got, _, err := f.svc.Evaluate(as(composables.RoleGA, 2), 1, &todo.EvaluateDTO{Action: "rework", Notes: "again"})
	require.NoError(t, err)
	require.Equal(t, todo.StatusEvaluating, got.Status)
}
