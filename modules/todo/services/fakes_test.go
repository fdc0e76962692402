package services

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/modules/core/domain/aggregates/user"
	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/eventbus"
	"github.com/jacksonlee411/office-ops/pkg/storage"
)

var (
	jakarta = mustLocation("Asia/Jakarta")
	now     = time.Date(2025, 1, 15, 10, 0, 0, 0, jakarta)
	pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	pdfData = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type submission struct {
	todoID, userID int64
	day            time.Time
	seq            int
}

type fakeTodoRepo struct {
	todos       map[int64]*todo.Todo
	submissions []submission
	nextID      int64
	failWrite   error
	failDelete  error
}

func newFakeTodoRepo(todos ...*todo.Todo) *fakeTodoRepo {
	r := &fakeTodoRepo{todos: map[int64]*todo.Todo{}, nextID: 100}
	for _, t := range todos {
		cp := *t
		r.todos[t.ID] = &cp
	}
	return r
}

func (f *fakeTodoRepo) get(id int64) (*todo.Todo, error) {
	t, ok := f.todos[id]
	if !ok {
		return nil, todo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTodoRepo) GetByID(_ context.Context, id int64) (*todo.Todo, error) {
	return f.get(id)
}

func (f *fakeTodoRepo) GetForUpdate(_ context.Context, id int64) (*todo.Todo, error) {
	return f.get(id)
}

func (f *fakeTodoRepo) sorted() []*todo.Todo {
	out := make([]*todo.Todo, 0, len(f.todos))
	for _, t := range f.todos {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTodoRepo) GetPaginated(_ context.Context, p *todo.FindParams) ([]*todo.Todo, error) {
	var out []*todo.Todo
	for _, t := range f.sorted() {
		if p.UserID > 0 && t.UserID != p.UserID {
			continue
		}
		if len(p.Statuses) > 0 && !slices.Contains(p.Statuses, t.Status) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTodoRepo) Count(ctx context.Context, p *todo.FindParams) (int64, error) {
	list, _ := f.GetPaginated(ctx, p)
	return int64(len(list)), nil
}

func (f *fakeTodoRepo) Create(_ context.Context, t *todo.Todo) (*todo.Todo, error) {
	if f.failWrite != nil {
		return nil, f.failWrite
	}
	f.nextID++
	cp := *t
	cp.ID = f.nextID
	f.todos[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeTodoRepo) Update(_ context.Context, t *todo.Todo) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	if _, ok := f.todos[t.ID]; !ok {
		return todo.ErrNotFound
	}
	cp := *t
	f.todos[t.ID] = &cp
	return nil
}

func (f *fakeTodoRepo) Delete(_ context.Context, id int64) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	if _, ok := f.todos[id]; !ok {
		return todo.ErrNotFound
	}
	delete(f.todos, id)
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (f *fakeTodoRepo) CountSubmissionsOn(_ context.Context, userID int64, day time.Time) (int, error) {
	n := 0
	for _, sub := range f.submissions {
		if sub.userID == userID && sameDay(sub.day, day) {
			n++
		}
	}
	return n, nil
}

func (f *fakeTodoRepo) RecordSubmission(_ context.Context, todoID, userID int64, day time.Time, seq int) error {
	f.submissions = append(f.submissions, submission{todoID: todoID, userID: userID, day: day, seq: seq})
	return nil
}

func (f *fakeTodoRepo) CountByTitleOnDate(_ context.Context, userID int64, title string, day time.Time) (int, error) {
	n := 0
	for _, t := range f.todos {
		if t.UserID == userID && t.TitleNormalized == title && t.DueDate != nil && sameDay(*t.DueDate, day) {
			n++
		}
	}
	return n, nil
}

func (f *fakeTodoRepo) FindRoutineGroup(_ context.Context, p todo.RoutineGroupParams) ([]*todo.Todo, error) {
	var out []*todo.Todo
	for _, t := range f.sorted() {
		if t.Recurrence == nil || t.TitleNormalized != p.TitleNormalized {
			continue
		}
		if p.Interval > 0 && t.Recurrence.Interval != p.Interval {
			continue
		}
		if p.Unit != "" && t.Recurrence.Unit != p.Unit {
			continue
		}
		if p.Count > 0 && t.Recurrence.Count != p.Count {
			continue
		}
		if p.UserID > 0 && t.UserID != p.UserID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type fakeWarningRepo struct {
	warnings []*todo.Warning
}

func (f *fakeWarningRepo) Create(_ context.Context, w *todo.Warning) (*todo.Warning, error) {
	cp := *w
	cp.ID = int64(len(f.warnings) + 1)
	f.warnings = append(f.warnings, &cp)
	out := cp
	return &out, nil
}

func (f *fakeWarningRepo) match(p *todo.WarningFindParams) []*todo.Warning {
	var out []*todo.Warning
	for _, w := range f.warnings {
		if p.UserID > 0 && w.UserID != p.UserID {
			continue
		}
		if p.From != nil && w.CreatedAt.Before(*p.From) {
			continue
		}
		if p.To != nil && !w.CreatedAt.Before(*p.To) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (f *fakeWarningRepo) GetPaginated(_ context.Context, p *todo.WarningFindParams) ([]*todo.Warning, error) {
	return f.match(p), nil
}

func (f *fakeWarningRepo) Count(_ context.Context, p *todo.WarningFindParams) (int64, error) {
	return int64(len(f.match(p))), nil
}

func (f *fakeWarningRepo) SumPoints(_ context.Context, userID int64, from, to time.Time) (int, error) {
	total := 0
	for _, w := range f.match(&todo.WarningFindParams{UserID: userID, From: &from, To: &to}) {
		total += w.Points
	}
	return total, nil
}

type fakeDirectory struct {
	users []*user.User
}

func (f *fakeDirectory) Resolve(_ context.Context, ids []int64, category string) ([]*user.User, error) {
	var out []*user.User
	for _, u := range f.users {
		if slices.Contains(ids, u.ID) || (category != "" && strings.EqualFold(category, u.Category)) {
			out = append(out, u)
		}
	}
	return out, nil
}

// recorder collects every published event.
type recorder struct {
	events []any
}

func (r *recorder) bus() eventbus.EventBus {
	bus := eventbus.NewEventPublisher(nil)
	bus.Subscribe(func(e todo.TransitionedEvent) { r.events = append(r.events, e) })
	bus.Subscribe(func(e todo.WarningIssuedEvent) { r.events = append(r.events, e) })
	bus.Subscribe(func(e todo.DeletedEvent) { r.events = append(r.events, e) })
	bus.Subscribe(func(e todo.RoutineExpandedEvent) { r.events = append(r.events, e) })
	return bus
}

func setup(t *testing.T) {
	t.Helper()
	svc, err := authz.NewService(authz.Config{FlagProvider: authz.StaticFlags(authz.ModeEnforce)})
	require.NoError(t, err)
	authorizeTodoFn = func(ctx context.Context, object, action string) error {
		caller, err := composables.UseCaller(ctx)
		if err != nil {
			return authz.ErrForbidden
		}
		return svc.AuthorizeRole(ctx, caller.Role, object, action)
	}
	inTx = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	t.Cleanup(func() {
		authorizeTodoFn = defaultAuthorizeTodo
		inTx = composables.InTx
	})
}

func as(role string, id int64) context.Context {
	return composables.WithCaller(context.Background(), composables.Caller{UserID: id, Name: "caller-" + role, Role: role})
}

type fixture struct {
	repo     *fakeTodoRepo
	warnings *fakeWarningRepo
	store    *storage.Memory
	events   *recorder
	svc      *TodoService
}

func newFixture(t *testing.T, todos ...*todo.Todo) *fixture {
	setup(t)
	f := &fixture{
		repo:     newFakeTodoRepo(todos...),
		warnings: &fakeWarningRepo{},
		store:    storage.NewMemory(),
		events:   &recorder{},
	}
	f.svc = NewTodoService(f.repo, f.warnings, f.store, clock.Fixed{At: now}, f.events.bus(), 5)
	return f
}

func (f *fixture) todo(t *testing.T, id int64) *todo.Todo {
	t.Helper()
	td, err := f.repo.get(id)
	require.NoError(t, err)
	return td
}

func sortedPaths(s *storage.Memory) []string {
	p := s.Paths()
	sort.Strings(p)
	return p
}

func started(id, userID int64, minutesAgo int) *todo.Todo {
	td := todo.New(userID, "Clean lobby", todo.PriorityMedium)
	td.ID = id
	td.Status = todo.StatusInProgress
	at := now.Add(-time.Duration(minutesAgo) * time.Minute)
	td.StartedAt = &at
	return td
}

var errBoom = errors.New("boom")
