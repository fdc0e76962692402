package services

import (
	"context"
	"time"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/eventbus"
	"github.com/jacksonlee411/office-ops/pkg/storage"
	"github.com/jacksonlee411/office-ops/pkg/upload"
)

var inTx = composables.InTx

type TodoService struct {
	repo        todo.Repository
	warnings    todo.WarningRepository
	evidence    evidenceStore
	clock       clock.Clock
	publisher   eventbus.EventBus
	maxEvidence int
}

func NewTodoService(
	repo todo.Repository,
	warnings todo.WarningRepository,
	store storage.Store,
	clk clock.Clock,
	publisher eventbus.EventBus,
	maxEvidence int,
) *TodoService {
	return &TodoService{
		repo:        repo,
		warnings:    warnings,
		evidence:    evidenceStore{store: store},
		clock:       clk,
		publisher:   publisher,
		maxEvidence: maxEvidence,
	}
}

func (s *TodoService) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	caller, err := composables.UseCaller(ctx)
	if err != nil {
		return nil, authz.ErrForbidden.WithMessage("caller identity required")
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsReviewer() {
		if err := requireOwner(caller, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// GetPaginatedWithTotal lists todos. Callers outside the reviewer roles only
// ever see their own.
func (s *TodoService) GetPaginatedWithTotal(ctx context.Context, params *todo.FindParams) ([]*todo.Todo, int64, error) {
	caller, err := composables.UseCaller(ctx)
	if err != nil {
		return nil, 0, authz.ErrForbidden.WithMessage("caller identity required")
	}
	if params == nil {
		params = &todo.FindParams{}
	}
	if !caller.IsReviewer() {
		params.UserID = caller.UserID
	}
	todos, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return todos, total, nil
}

func (s *TodoService) Create(ctx context.Context, data *todo.CreateDTO) (*todo.Todo, error) {
	if err := authorizeReviewer(ctx, authz.ObjectTodos, "create"); err != nil {
		return nil, err
	}
	caller, _ := composables.UseCaller(ctx)
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	var created *todo.Todo
	err := inTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, data.ToEntity(caller.UserID, s.clock.Location()))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TodoService) Update(ctx context.Context, id int64, data *todo.UpdateDTO) (*todo.Todo, error) {
	if err := authorizeReviewer(ctx, authz.ObjectTodos, "update"); err != nil {
		return nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	var updated *todo.Todo
	err := inTx(ctx, func(txCtx context.Context) error {
		t, err := s.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := data.Apply(t, s.clock.Location()); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete marks the todo's evidence deleted and removes the row.
func (s *TodoService) Delete(ctx context.Context, id int64) (*todo.Todo, error) {
	if err := authorizeReviewer(ctx, authz.ObjectTodos, "delete"); err != nil {
		return nil, err
	}
	caller, _ := composables.UseCaller(ctx)
	var (
		deleted *todo.Todo
		retired []renamed
	)
	err := inTx(ctx, func(txCtx context.Context) error {
		t, err := s.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		retired = s.evidence.retire(txCtx, t.ID, t.Evidence, nil)
		if err := s.repo.Delete(txCtx, t.ID); err != nil {
			return err
		}
		deleted = t
		return nil
	})
	if err != nil {
		s.evidence.restore(ctx, retired)
		return nil, err
	}
	s.publisher.Publish(todo.DeletedEvent{Result: *deleted, ActorID: caller.UserID, Retired: renamedPaths(retired)})
	return deleted, nil
}

// transition loads the todo under lock and applies fn. Events go out once the
// transaction commits.
func (s *TodoService) transition(
	ctx context.Context,
	id int64,
	op todo.Operation,
	fn func(txCtx context.Context, caller composables.Caller, t *todo.Todo, now time.Time) error,
) (*todo.Todo, error) {
	caller, err := composables.UseCaller(ctx)
	if err != nil {
		return nil, authz.ErrForbidden.WithMessage("caller identity required")
	}
	var (
		result *todo.Todo
		from   todo.Status
		now    = s.clock.Now()
	)
	err = inTx(ctx, func(txCtx context.Context) error {
		t, err := s.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		from = t.Status
		if err := fn(txCtx, caller, t, now); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(todo.TransitionedEvent{
		Operation: op,
		From:      from,
		Result:    *result,
		ActorID:   caller.UserID,
		At:        now,
	})
	return result, nil
}

func (s *TodoService) progress(
	ctx context.Context,
	id int64,
	op todo.Operation,
	fn func(txCtx context.Context, t *todo.Todo, now time.Time) error,
) (*todo.Todo, error) {
	if err := authorizeTodo(ctx, authz.ObjectTodos, "progress"); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, op, func(txCtx context.Context, caller composables.Caller, t *todo.Todo, now time.Time) error {
		if err := requireOwner(caller, t); err != nil {
			return err
		}
		return fn(txCtx, t, now)
	})
}

func (s *TodoService) Start(ctx context.Context, id int64) (*todo.Todo, error) {
	return s.progress(ctx, id, todo.OpStart, func(_ context.Context, t *todo.Todo, now time.Time) error {
		return t.Start(now)
	})
}

func (s *TodoService) Hold(ctx context.Context, id int64, data *todo.HoldDTO) (*todo.Todo, error) {
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	return s.progress(ctx, id, todo.OpHold, func(_ context.Context, t *todo.Todo, _ time.Time) error {
		return t.Hold(data.Note)
	})
}

// Complete finishes an in-progress todo. files, when given, replace the
// stored evidence.
func (s *TodoService) Complete(ctx context.Context, id int64, files []upload.File) (*todo.Todo, error) {
	return s.submit(ctx, id, todo.OpComplete, files, func(t *todo.Todo, paths []string, now time.Time) error {
		return t.Complete(paths, now)
	})
}

func (s *TodoService) SubmitForChecking(ctx context.Context, id int64, files []upload.File) (*todo.Todo, error) {
	if len(files) == 0 {
		return nil, todo.ErrEvidenceRequired
	}
	return s.submit(ctx, id, todo.OpSubmitForChecking, files, func(t *todo.Todo, paths []string, now time.Time) error {
		return t.SubmitForChecking(paths, now)
	})
}

func (s *TodoService) SubmitImprovement(ctx context.Context, id int64, files []upload.File) (*todo.Todo, error) {
	return s.submit(ctx, id, todo.OpSubmitImprovement, files, func(t *todo.Todo, paths []string, now time.Time) error {
		return t.SubmitImprovement(paths, now)
	})
}

// submit stores new evidence before apply runs. Replaced files are marked
// deleted after commit; files written for a rolled back submission are
// discarded.
func (s *TodoService) submit(
	ctx context.Context,
	id int64,
	op todo.Operation,
	files []upload.File,
	apply func(t *todo.Todo, paths []string, now time.Time) error,
) (*todo.Todo, error) {
	docs, err := upload.InspectAll(files, s.maxEvidence)
	if err != nil {
		return nil, err
	}
	var written, previous []string
	result, err := s.progress(ctx, id, op, func(txCtx context.Context, t *todo.Todo, now time.Time) error {
		if _, err := todo.Next(t.Status, op); err != nil {
			return err
		}
		previous = append([]string(nil), t.Evidence...)
		if len(docs) > 0 {
			count, err := s.repo.CountSubmissionsOn(txCtx, t.UserID, now)
			if err != nil {
				return err
			}
			exts := make([]string, len(docs))
			for i, d := range docs {
				exts[i] = d.Extension
			}
			seq, paths, err := s.evidence.free(txCtx, t.UserID, count+1, now, exts)
			if err != nil {
				return todo.ErrEvidenceStorage.Wrap(err)
			}
			if err := s.evidence.write(txCtx, paths, docs); err != nil {
				return todo.ErrEvidenceStorage.Wrap(err)
			}
			written = paths
			if err := s.repo.RecordSubmission(txCtx, t.ID, t.UserID, now, seq); err != nil {
				return err
			}
		}
		return apply(t, written, now)
	})
	if err != nil {
		s.evidence.discard(ctx, written)
		return nil, err
	}
	if len(written) > 0 {
		s.evidence.retire(ctx, result.ID, previous, result.Evidence)
	}
	return result, nil
}

// Evaluate approves or sends back a todo under review. Approvals rating
// below the threshold record a warning in the same transaction.
func (s *TodoService) Evaluate(ctx context.Context, id int64, data *todo.EvaluateDTO) (*todo.Todo, *todo.Warning, error) {
	if err := authorizeReviewer(ctx, authz.ObjectTodos, "evaluate"); err != nil {
		return nil, nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, nil, errs.AsError()
	}
	op := todo.OpApprove
	if todo.EvaluateAction(data.Action) == todo.EvaluateRework {
		op = todo.OpRework
	}
	var issued *todo.Warning
	result, err := s.transition(ctx, id, op, func(txCtx context.Context, caller composables.Caller, t *todo.Todo, now time.Time) error {
		by := todo.Reviewer{ID: caller.UserID, Name: caller.Name}
		if op == todo.OpRework {
			return t.Rework(by, data.Notes)
		}
		w, err := t.Approve(by, data.Notes, now)
		if err != nil || w == nil {
			return err
		}
		issued, err = s.warnings.Create(txCtx, w)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	if issued != nil {
		issued.TodoTitle = result.Title
		s.publisher.Publish(todo.WarningIssuedEvent{Result: *issued})
	}
	return result, issued, nil
}

func (s *TodoService) ApproveImprovement(ctx context.Context, id int64, data *todo.ReviewDTO) (*todo.Todo, error) {
	if err := authorizeReviewer(ctx, authz.ObjectTodos, "evaluate"); err != nil {
		return nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	return s.transition(ctx, id, todo.OpApproveImprovement, func(_ context.Context, caller composables.Caller, t *todo.Todo, now time.Time) error {
		return t.ApproveImprovement(todo.Reviewer{ID: caller.UserID, Name: caller.Name}, data.Notes, now)
	})
}
