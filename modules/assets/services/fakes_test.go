package services

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/procurement"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
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
	errBoom = errors.New("boom")
)

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type fakeRequestRepo struct {
	rows      map[int64]*request.Request
	nextID    int64
	failWrite error
	locked    []int64
	detach    func(requestID int64)
}

func (f *fakeRequestRepo) get(id int64) (*request.Request, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, request.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id int64) (*request.Request, error) {
	return f.get(id)
}

func (f *fakeRequestRepo) GetForUpdate(_ context.Context, id int64) (*request.Request, error) {
	f.locked = append(f.locked, id)
	return f.get(id)
}

func (f *fakeRequestRepo) filter(p *request.FindParams) []*request.Request {
	var out []*request.Request
	for _, r := range f.rows {
		if p.UserID != 0 && r.UserID != p.UserID {
			continue
		}
		if len(p.Statuses) > 0 && !slices.Contains(p.Statuses, r.Status) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRequestRepo) GetPaginated(_ context.Context, p *request.FindParams) ([]*request.Request, error) {
	return f.filter(p), nil
}

func (f *fakeRequestRepo) Count(_ context.Context, p *request.FindParams) (int64, error) {
	return int64(len(f.filter(p))), nil
}

func (f *fakeRequestRepo) Create(_ context.Context, r *request.Request) (*request.Request, error) {
	if f.failWrite != nil {
		return nil, f.failWrite
	}
	f.nextID++
	cp := *r
	cp.ID = f.nextID
	cp.CreatedAt = now
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRequestRepo) Update(_ context.Context, r *request.Request) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	if _, ok := f.rows[r.ID]; !ok {
		return request.ErrNotFound
	}
	cp := *r
	f.rows[r.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return request.ErrNotFound
	}
	delete(f.rows, id)
	if f.detach != nil {
		f.detach(id)
	}
	return nil
}

type fakeAssetRepo struct {
	rows       map[int64]*asset.Asset
	nextID     int64
	taken      []string
	lockedBase []string
	failUpdate func(a *asset.Asset) error
	requests   *fakeRequestRepo
}

func (f *fakeAssetRepo) get(id int64) (*asset.Asset, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, asset.ErrNotFound
	}
	return f.withOwner(a), nil
}

func (f *fakeAssetRepo) withOwner(a *asset.Asset) *asset.Asset {
	cp := *a
	cp.OwnerID = nil
	if cp.RequestID != nil {
		if r, ok := f.requests.rows[*cp.RequestID]; ok {
			owner := r.UserID
			cp.OwnerID = &owner
		}
	}
	return &cp
}

func (f *fakeAssetRepo) sorted(keep func(a *asset.Asset) bool) []*asset.Asset {
	var out []*asset.Asset
	for _, a := range f.rows {
		if keep(a) {
			out = append(out, f.withOwner(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeAssetRepo) GetByID(_ context.Context, id int64) (*asset.Asset, error) {
	return f.get(id)
}

func (f *fakeAssetRepo) GetForUpdate(_ context.Context, id int64) (*asset.Asset, error) {
	return f.get(id)
}

func (f *fakeAssetRepo) filter(p *asset.FindParams) []*asset.Asset {
	return f.sorted(func(a *asset.Asset) bool {
		if p.OwnerID != 0 {
			owned := f.withOwner(a).OwnerID
			if owned == nil || *owned != p.OwnerID {
				return false
			}
		}
		return len(p.Statuses) == 0 || slices.Contains(p.Statuses, a.Status)
	})
}

func (f *fakeAssetRepo) GetPaginated(_ context.Context, p *asset.FindParams) ([]*asset.Asset, error) {
	return f.filter(p), nil
}

func (f *fakeAssetRepo) Count(_ context.Context, p *asset.FindParams) (int64, error) {
	return int64(len(f.filter(p))), nil
}

func (f *fakeAssetRepo) ListByRequest(_ context.Context, requestID int64) ([]*asset.Asset, error) {
	return f.sorted(func(a *asset.Asset) bool {
		return a.RequestID != nil && *a.RequestID == requestID
	}), nil
}

func (f *fakeAssetRepo) LatestByRequest(ctx context.Context, requestID int64) (*asset.Asset, error) {
	linked, _ := f.ListByRequest(ctx, requestID)
	if len(linked) == 0 {
		return nil, asset.ErrNoLinkedAsset
	}
	return linked[len(linked)-1], nil
}

func (f *fakeAssetRepo) Create(_ context.Context, a *asset.Asset) (*asset.Asset, error) {
	for _, existing := range f.rows {
		if existing.Code == a.Code {
			return nil, asset.ErrDuplicateCode
		}
	}
	f.nextID++
	cp := *a
	cp.ID = f.nextID
	cp.CreatedAt = now
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAssetRepo) Update(_ context.Context, a *asset.Asset) error {
	if f.failUpdate != nil {
		if err := f.failUpdate(a); err != nil {
			return err
		}
	}
	if _, ok := f.rows[a.ID]; !ok {
		return asset.ErrNotFound
	}
	cp := *a
	cp.OwnerID = nil
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeAssetRepo) DeleteOrphans(_ context.Context) ([]*asset.Asset, error) {
	var out []*asset.Asset
	for id, a := range f.rows {
		if a.Acquisition != asset.AcquisitionPurchasing || a.RequestID != nil {
			continue
		}
		cp := *a
		out = append(out, &cp)
		delete(f.rows, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAssetRepo) LockCodeBase(_ context.Context, base string) error {
	f.lockedBase = append(f.lockedBase, base)
	return nil
}

func (f *fakeAssetRepo) CodesWithBase(_ context.Context, base string, _ bool) ([]string, error) {
	var out []string
	for _, a := range f.rows {
		if strings.HasPrefix(a.Code, base) {
			out = append(out, a.Code)
		}
	}
	sort.Strings(out)
	return out, nil
}

// CodeExists also sees codes in taken, which stand in for rows the listing
// query missed.
func (f *fakeAssetRepo) CodeExists(_ context.Context, code string) (bool, error) {
	if slices.Contains(f.taken, code) {
		return true, nil
	}
	for _, a := range f.rows {
		if a.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type fakeProcurementRepo struct {
	rows   []*procurement.Procurement
	nextID int64
}

func (f *fakeProcurementRepo) Create(_ context.Context, p *procurement.Procurement) (*procurement.Procurement, error) {
	f.nextID++
	cp := *p
	cp.ID = f.nextID
	cp.CreatedAt = now
	f.rows = append(f.rows, &cp)
	out := cp
	return &out, nil
}

func (f *fakeProcurementRepo) ListByRequest(_ context.Context, requestID int64) ([]*procurement.Procurement, error) {
	var out []*procurement.Procurement
	for _, p := range f.rows {
		if p.RequestID == requestID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type recorder struct {
	events []any
}

func (r *recorder) bus() eventbus.EventBus {
	bus := eventbus.NewEventPublisher(nil)
	bus.Subscribe(func(e request.TransitionedEvent) { r.events = append(r.events, e) })
	bus.Subscribe(func(e request.DeletedEvent) { r.events = append(r.events, e) })
	bus.Subscribe(func(e asset.CreatedEvent) { r.events = append(r.events, e) })
	bus.Subscribe(func(e asset.UpdatedEvent) { r.events = append(r.events, e) })
	bus.Subscribe(func(e asset.StatusChangedEvent) { r.events = append(r.events, e) })
	bus.Subscribe(func(e asset.MaintenanceChangedEvent) { r.events = append(r.events, e) })
	bus.Subscribe(func(e asset.OrphansRemovedEvent) { r.events = append(r.events, e) })
	bus.Subscribe(func(e procurement.CreatedEvent) { r.events = append(r.events, e) })
	return bus
}

func setup(t *testing.T) {
	t.Helper()
	svc, err := authz.NewService(authz.Config{FlagProvider: authz.StaticFlags(authz.ModeEnforce)})
	require.NoError(t, err)
	authorizeAssetsFn = func(ctx context.Context, object, action string) error {
		caller, err := composables.UseCaller(ctx)
		if err != nil {
			return authz.ErrForbidden
		}
		return svc.AuthorizeRole(ctx, caller.Role, object, action)
	}
	inTx = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	t.Cleanup(func() {
		authorizeAssetsFn = defaultAuthorizeAssets
		inTx = composables.InTx
	})
}

func as(role string, id int64) context.Context {
	return composables.WithCaller(context.Background(), composables.Caller{UserID: id, Name: "caller-" + role, Role: role})
}

type fixture struct {
	requests     *fakeRequestRepo
	assets       *fakeAssetRepo
	procurements *fakeProcurementRepo
	store        *storage.Memory
	events       *recorder
	requestSvc   *RequestService
	assetSvc     *AssetService
	purchases    *ProcurementService
}

func newFixture(t *testing.T) *fixture {
	setup(t)
	f := &fixture{
		requests:     &fakeRequestRepo{rows: map[int64]*request.Request{}, nextID: 100},
		procurements: &fakeProcurementRepo{},
		store:        storage.NewMemory(),
		events:       &recorder{},
	}
	f.assets = &fakeAssetRepo{rows: map[int64]*asset.Asset{}, nextID: 500, requests: f.requests}
	f.requests.detach = func(requestID int64) {
		for _, a := range f.assets.rows {
			if a.RequestID != nil && *a.RequestID == requestID {
				a.RequestID = nil
				a.OwnerID = nil
			}
		}
	}

	// Rows written inside a failed transaction are restored, as the database
	// would on rollback.
	inTx = func(ctx context.Context, fn func(context.Context) error) error {
		reqs := cloneRows(f.requests.rows)
		assets := cloneRows(f.assets.rows)
		if err := fn(ctx); err != nil {
			f.requests.rows, f.assets.rows = reqs, assets
			return err
		}
		return nil
	}

	clk := clock.Fixed{At: now}
	bus := f.events.bus()
	codes := NewCodeAllocator(f.assets, clk)
	f.requestSvc = NewRequestService(f.requests, f.assets, codes, clk, bus)
	f.assetSvc = NewAssetService(f.assets, f.requests, codes, f.store, clk, bus)
	f.purchases = NewProcurementService(f.procurements, f.requests, f.assets, clk, bus)
	return f
}

func cloneRows[T any](in map[int64]*T) map[int64]*T {
	out := make(map[int64]*T, len(in))
	for id, v := range in {
		cp := *v
		out[id] = &cp
	}
	return out
}

func (f *fixture) addRequest(id, userID int64, status request.Status, category string) *request.Request {
	r := request.New(userID, "Laptop", 1, category)
	r.ID = id
	r.Status = status
	r.EstimatedCost = decimal.NewFromInt(12500000)
	f.requests.rows[id] = r
	return r
}

func (f *fixture) addAsset(id, requestID int64, status asset.Status, code string) *asset.Asset {
	a := &asset.Asset{
		ID:          id,
		Code:        code,
		Name:        "Laptop",
		Category:    "Electronics",
		Acquisition: asset.AcquisitionPurchasing,
		Status:      status,
		Maintenance: request.Maintenance{Status: request.MaintenanceNone},
	}
	if requestID != 0 {
		a.RequestID = &requestID
	}
	f.assets.rows[id] = a
	return a
}

func (f *fixture) request(t *testing.T, id int64) *request.Request {
	t.Helper()
	r, err := f.requests.get(id)
	require.NoError(t, err)
	return r
}

func (f *fixture) asset(t *testing.T, id int64) *asset.Asset {
	t.Helper()
	a, err := f.assets.get(id)
	require.NoError(t, err)
	return a
}

func sortedPaths(s *storage.Memory) []string {
	p := s.Paths()
	sort.Strings(p)
	return p
}
