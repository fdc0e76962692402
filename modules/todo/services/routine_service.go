package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/office-ops/modules/core/domain/aggregates/user"
	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/eventbus"
	"github.com/jacksonlee411/office-ops/pkg/storage"
)

// UserDirectory resolves the users a routine is assigned to.
type UserDirectory interface {
	Resolve(ctx context.Context, ids []int64, category string) ([]*user.User, error)
}

type RoutineService struct {
	repo      todo.Repository
	users     UserDirectory
	evidence  evidenceStore
	clock     clock.Clock
	publisher eventbus.EventBus
}

func NewRoutineService(
	repo todo.Repository,
	users UserDirectory,
	store storage.Store,
	clk clock.Clock,
	publisher eventbus.EventBus,
) *RoutineService {
	return &RoutineService{
		repo:      repo,
		users:     users,
		evidence:  evidenceStore{store: store},
		clock:     clk,
		publisher: publisher,
	}
}

// ExpandResult reports what a routine expansion did.
type ExpandResult struct {
	Dates   []time.Time
	Users   []int64
	Created []*todo.Todo
	Skipped int
}

// Plan lists the dates a routine falls on without touching storage.
func Plan(data *todo.RoutineDTO, loc *time.Location) ([]time.Time, error) {
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	rec := data.ToRecurrence()
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec.Expand(data.Start(loc)), nil
}

// Create expands the routine into one todo per user, date and occurrence.
// Existing (user, title, date) instances count toward the occurrences, so
// running the same definition twice creates nothing new.
func (s *RoutineService) Create(ctx context.Context, data *todo.RoutineDTO) (*ExpandResult, error) {
	if err := authorizeReviewer(ctx, authz.ObjectRoutines, "create"); err != nil {
		return nil, err
	}
	caller, _ := composables.UseCaller(ctx)
	dates, err := Plan(data, s.clock.Location())
	if err != nil {
		return nil, err
	}
	targets, err := s.users.Resolve(ctx, data.UserIDs, data.Category)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, todo.ErrNoTargetUsers
	}

	result := &ExpandResult{Dates: dates}
	for _, u := range targets {
		result.Users = append(result.Users, u.ID)
	}
	occurrences := data.ToRecurrence().Occurrences()
	title := todo.NormalizeTitle(data.Title)
	err = inTx(ctx, func(txCtx context.Context) error {
		for _, u := range targets {
			for _, day := range dates {
				existing, err := s.repo.CountByTitleOnDate(txCtx, u.ID, title, day)
				if err != nil {
					return err
				}
				if existing >= occurrences {
					result.Skipped += occurrences
					continue
				}
				result.Skipped += existing
				for k := existing; k < occurrences; k++ {
					created, err := s.repo.Create(txCtx, data.Instance(u.ID, day, caller.UserID))
					if err != nil {
						return err
					}
					result.Created = append(result.Created, created)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"title":   data.Title,
		"created": len(result.Created),
		"skipped": result.Skipped,
	}).Info("routine expanded")
	s.publisher.Publish(todo.RoutineExpandedEvent{
		Title:   data.Title,
		Created: len(result.Created),
		Skipped: result.Skipped,
		ActorID: caller.UserID,
	})
	return result, nil
}

// DeleteGroup removes every instance of a routine. When the filters match
// nothing the title alone is used.
func (s *RoutineService) DeleteGroup(ctx context.Context, data *todo.RoutineGroupDTO) ([]*todo.Todo, error) {
	if err := authorizeReviewer(ctx, authz.ObjectRoutines, "delete"); err != nil {
		return nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	caller, _ := composables.UseCaller(ctx)
	params := data.Params()
	var (
		deleted []*todo.Todo
		retired = map[int64][]renamed{}
	)
	err := inTx(ctx, func(txCtx context.Context) error {
		group, err := s.repo.FindRoutineGroup(txCtx, params)
		if err != nil {
			return err
		}
		if len(group) == 0 && params.HasFilters() {
			if group, err = s.repo.FindRoutineGroup(txCtx, params.TitleOnly()); err != nil {
				return err
			}
		}
		if len(group) == 0 {
			return todo.ErrNotFound.WithMessage("no routine todos match %q", data.Title)
		}
		for _, t := range group {
			retired[t.ID] = s.evidence.retire(txCtx, t.ID, t.Evidence, nil)
			if err := s.repo.Delete(txCtx, t.ID); err != nil {
				return err
			}
		}
		deleted = group
		return nil
	})
	if err != nil {
		for _, rs := range retired {
			s.evidence.restore(ctx, rs)
		}
		return nil, err
	}
	for _, t := range deleted {
		s.publisher.Publish(todo.DeletedEvent{Result: *t, ActorID: caller.UserID, Retired: renamedPaths(retired[t.ID])})
	}
	return deleted, nil
}
