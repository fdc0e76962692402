package services

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/assetcode"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/eventbus"
)

func TestCodeAllocator(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	codes := NewCodeAllocator(f.assets, clock.Fixed{At: now})

	got, err := codes.Allocate(ctx, "Driver Uniform")
	require.NoError(t, err)
	require.Equal(t, "DR-01152025-000001", got)

	f.addAsset(1, 0, asset.StatusReceived, "DR-01152025-000007")
	f.addAsset(2, 0, asset.StatusReceived, "DR-01142025-000042")
	f.addAsset(3, 0, asset.StatusReceived, "OE-01152025-000099")
	got, err = codes.Allocate(ctx, "driver")
	require.NoError(t, err)
	require.Equal(t, "DR-01152025-000008", got)

	preview, err := codes.Preview(ctx, "Unknown Things")
	require.NoError(t, err)
	require.Equal(t, "OE-01152025-000100", preview)
	require.Equal(t, []string{"DR-01152025-", "DR-01152025-"}, f.assets.lockedBase)
}

func TestCodeAllocator_Exhausted(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= maxCodeProbes; i++ {
		f.assets.taken = append(f.assets.taken, assetcode.Format("OB", now, i))
	}
	_, err := NewCodeAllocator(f.assets, clock.Fixed{At: now}).Allocate(context.Background(), "OB")
	require.ErrorIs(t, err, asset.ErrCodeExhausted)
}

type heldLocks struct {
	release []func()
}

type heldLocksKey struct{}

// serialDB guards the fakes the way a single database would and keeps
// every code base lock until the transaction that took it ends.
type serialDB struct {
	mu      sync.Mutex
	basesMu sync.Mutex
	bases   map[string]*sync.Mutex
}

func (d *serialDB) inTx(ctx context.Context, fn func(context.Context) error) error {
	held := &heldLocks{}
	defer func() {
		for _, release := range held.release {
			release()
		}
	}()
	return fn(context.WithValue(ctx, heldLocksKey{}, held))
}

func (d *serialDB) lockBase(ctx context.Context, base string) {
	d.basesMu.Lock()
	m, ok := d.bases[base]
	if !ok {
		m = &sync.Mutex{}
		d.bases[base] = m
	}
	d.basesMu.Unlock()
	m.Lock()
	held := ctx.Value(heldLocksKey{}).(*heldLocks)
	held.release = append(held.release, m.Unlock)
}

type serialRequests struct {
	*fakeRequestRepo
	db *serialDB
}

func (r serialRequests) GetForUpdate(ctx context.Context, id int64) (*request.Request, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.fakeRequestRepo.GetForUpdate(ctx, id)
}

func (r serialRequests) Update(ctx context.Context, req *request.Request) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.fakeRequestRepo.Update(ctx, req)
}

type serialAssets struct {
	*fakeAssetRepo
	db *serialDB
}

func (a serialAssets) LockCodeBase(ctx context.Context, base string) error {
	a.db.lockBase(ctx, base)
	a.db.mu.Lock()
	defer a.db.mu.Unlock()
	return a.fakeAssetRepo.LockCodeBase(ctx, base)
}

func (a serialAssets) CodesWithBase(ctx context.Context, base string, lock bool) ([]string, error) {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()
	return a.fakeAssetRepo.CodesWithBase(ctx, base, lock)
}

func (a serialAssets) CodeExists(ctx context.Context, code string) (bool, error) {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()
	return a.fakeAssetRepo.CodeExists(ctx, code)
}

func (a serialAssets) Create(ctx context.Context, in *asset.Asset) (*asset.Asset, error) {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()
	return a.fakeAssetRepo.Create(ctx, in)
}

func TestCodeAllocator_ConcurrentApprovals(t *testing.T) {
	const n = 20
	f := newFixture(t)
	for id := int64(1); id <= n; id++ {
		f.addRequest(id, 7, request.StatusPending, "IT Equipment")
	}
	db := &serialDB{bases: map[string]*sync.Mutex{}}
	inTx = db.inTx

	clk := clock.Fixed{At: now}
	assets := serialAssets{fakeAssetRepo: f.assets, db: db}
	svc := NewRequestService(
		serialRequests{fakeRequestRepo: f.requests, db: db},
		assets,
		NewCodeAllocator(assets, clk),
		clk,
		eventbus.NewEventPublisher(nil),
	)

	ga := as(composables.RoleGA, 2)
	created := make([]*asset.Asset, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created[i], errs[i] = svc.Approve(ga, int64(i+1), &request.DecisionDTO{})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	// Insert order follows lock order, so codes must rise with the row id.
	sort.Slice(created, func(i, j int) bool { return created[i].ID < created[j].ID })
	seen := map[string]bool{}
	for i, a := range created {
		require.False(t, seen[a.Code], a.Code)
		seen[a.Code] = true
		require.Equal(t, assetcode.Format("OE", now, i+1), a.Code)
	}
	require.Len(t, f.assets.lockedBase, n)
}
