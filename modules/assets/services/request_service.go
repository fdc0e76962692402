package services

import (
	"context"
	"time"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/eventbus"
)

type RequestService struct {
	repo      request.Repository
	assets    asset.Repository
	codes     *CodeAllocator
	clock     clock.Clock
	publisher eventbus.EventBus
}

func NewRequestService(
	repo request.Repository,
	assets asset.Repository,
	codes *CodeAllocator,
	clk clock.Clock,
	publisher eventbus.EventBus,
) *RequestService {
	return &RequestService{
		repo:      repo,
		assets:    assets,
		codes:     codes,
		clock:     clk,
		publisher: publisher,
	}
}

func (s *RequestService) GetByID(ctx context.Context, id int64) (*request.Request, error) {
	if err := authorizeAssets(ctx, authz.ObjectRequests, "list"); err != nil {
		return nil, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireRequestOwner(caller, r); err != nil {
		return nil, err
	}
	return r, nil
}

// GetPaginatedWithTotal lists requests. Members only see their own.
func (s *RequestService) GetPaginatedWithTotal(ctx context.Context, params *request.FindParams) ([]*request.Request, int64, error) {
	if err := authorizeAssets(ctx, authz.ObjectRequests, "list"); err != nil {
		return nil, 0, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &request.FindParams{}
	}
	if !seesAllRequests(caller) {
		params.UserID = caller.UserID
	}
	requests, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (s *RequestService) Create(ctx context.Context, data *request.CreateDTO) (*request.Request, error) {
	if err := authorizeAssets(ctx, authz.ObjectRequests, "create"); err != nil {
		return nil, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	var created *request.Request
	err = inTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, data.ToEntity(caller.UserID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update lets the owner edit a request until it is decided.
func (s *RequestService) Update(ctx context.Context, id int64, data *request.UpdateDTO) (*request.Request, error) {
	if err := authorizeAssets(ctx, authz.ObjectRequests, "update"); err != nil {
		return nil, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	var updated *request.Request
	err = inTx(ctx, func(txCtx context.Context) error {
		r, err := s.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := r.CanEdit(caller.UserID).Err(); err != nil {
			return err
		}
		data.Apply(r)
		if err := s.repo.Update(txCtx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a request. Owners may delete while pending; admins may
// delete in any status. Linked assets stay and lose their request, which
// leaves purchasing placeholders for CleanupOrphans.
func (s *RequestService) Delete(ctx context.Context, id int64) (*request.Request, error) {
	if err := authorizeAssets(ctx, authz.ObjectRequests, "delete"); err != nil {
		return nil, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	var deleted *request.Request
	err = inTx(ctx, func(txCtx context.Context) error {
		r, err := s.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !caller.IsAdmin() {
			if err := r.CanEdit(caller.UserID).Err(); err != nil {
				return err
			}
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(request.DeletedEvent{Result: *deleted, ActorID: caller.UserID})
	return deleted, nil
}

// Approve accepts a pending request and creates its placeholder asset in the
// same transaction.
func (s *RequestService) Approve(ctx context.Context, id int64, data *request.DecisionDTO) (*request.Request, *asset.Asset, error) {
	if err := authorizeRoleFor(ctx, composables.Caller.IsGA, authz.ObjectRequests, "approve"); err != nil {
		return nil, nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, nil, errs.AsError()
	}
	var (
		created *asset.Asset
		actor   int64
	)
	r, err := s.transition(ctx, id, request.OpApprove, func(txCtx context.Context, caller composables.Caller, r *request.Request, now time.Time) error {
		if err := r.Approve(caller.UserID, data.Note, now); err != nil {
			return err
		}
		actor = caller.UserID
		code, err := s.codes.Allocate(txCtx, r.Category)
		if err != nil {
			return err
		}
		created, err = s.assets.Create(txCtx, asset.FromRequest(r, code, caller.UserID))
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.publisher.Publish(asset.CreatedEvent{Result: *created, ActorID: actor})
	return r, created, nil
}

func (s *RequestService) Reject(ctx context.Context, id int64, data *request.DecisionDTO) (*request.Request, error) {
	if err := authorizeRoleFor(ctx, composables.Caller.IsGA, authz.ObjectRequests, "approve"); err != nil {
		return nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	r, err := s.transition(ctx, id, request.OpReject, func(_ context.Context, caller composables.Caller, r *request.Request, now time.Time) error {
		return r.Reject(caller.UserID, data.Note, now)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// RequestMaintenance opens a repair or replacement on the request and every
// linked asset. Owners may ask for their own requests, GA for any.
func (s *RequestService) RequestMaintenance(ctx context.Context, id int64, data *request.MaintenanceDTO) (*request.Request, []*asset.Asset, error) {
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, nil, err
	}
	action := "maintenance_own"
	if caller.IsGA() {
		action = "maintenance"
	}
	if err := authorizeAssets(ctx, authz.ObjectRequests, action); err != nil {
		return nil, nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, nil, errs.AsError()
	}
	typ := request.MaintenanceType(data.Type)
	return s.maintenance(ctx, id, request.OpRequestMaintenance, func(caller composables.Caller, r *request.Request, assets []*asset.Asset, now time.Time) error {
		if !caller.IsGA() && r.UserID != caller.UserID {
			return request.ErrNotOwner
		}
		if err := asset.CanRequestMaintenance(r, assets).Err(); err != nil {
			return err
		}
		r.OpenMaintenance(typ, data.Note, caller.UserID, now)
		for _, a := range assets {
			a.OpenMaintenance(typ, data.Note, caller.UserID, now)
		}
		return nil
	})
}

func (s *RequestService) StartMaintenance(ctx context.Context, id int64) (*request.Request, []*asset.Asset, error) {
	if err := authorizeRoleFor(ctx, composables.Caller.IsGA, authz.ObjectRequests, "maintenance"); err != nil {
		return nil, nil, err
	}
	return s.maintenance(ctx, id, request.OpStartMaintenance, func(caller composables.Caller, r *request.Request, assets []*asset.Asset, now time.Time) error {
		if err := r.StartMaintenance(caller.UserID, now); err != nil {
			return err
		}
		for _, a := range assets {
			a.StartMaintenance(caller.UserID, now)
		}
		return nil
	})
}

func (s *RequestService) CompleteMaintenance(ctx context.Context, id int64, data *request.CompleteMaintenanceDTO) (*request.Request, []*asset.Asset, error) {
	if err := authorizeRoleFor(ctx, composables.Caller.IsGA, authz.ObjectRequests, "maintenance"); err != nil {
		return nil, nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, nil, errs.AsError()
	}
	return s.maintenance(ctx, id, request.OpCompleteMaintenance, func(caller composables.Caller, r *request.Request, assets []*asset.Asset, now time.Time) error {
		if err := r.CompleteMaintenance(caller.UserID, data.Notes, now); err != nil {
			return err
		}
		for _, a := range assets {
			a.CompleteMaintenance(caller.UserID, data.Notes, now)
		}
		return nil
	})
}

// transition locks the request, applies fn and publishes once committed.
func (s *RequestService) transition(
	ctx context.Context,
	id int64,
	op request.Operation,
	fn func(txCtx context.Context, caller composables.Caller, r *request.Request, now time.Time) error,
) (*request.Request, error) {
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	var (
		result *request.Request
		from   request.Status
		now    = s.clock.Now()
	)
	err = inTx(ctx, func(txCtx context.Context) error {
		r, err := s.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		from = r.Status
		if err := fn(txCtx, caller, r, now); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(request.TransitionedEvent{
		Operation: op,
		From:      from,
		Result:    *result,
		ActorID:   caller.UserID,
		At:        now,
	})
	return result, nil
}

// maintenance locks the request and then all of its assets, applies fn and
// writes every row in one transaction. Either all rows move or none do.
func (s *RequestService) maintenance(
	ctx context.Context,
	id int64,
	op request.Operation,
	fn func(caller composables.Caller, r *request.Request, assets []*asset.Asset, now time.Time) error,
) (*request.Request, []*asset.Asset, error) {
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, nil, err
	}
	var (
		result *request.Request
		linked []*asset.Asset
		from   request.Status
		now    = s.clock.Now()
	)
	err = inTx(ctx, func(txCtx context.Context) error {
		r, err := s.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		assets, err := s.assets.ListByRequest(txCtx, id)
		if err != nil {
			return err
		}
		from = r.Status
		if err := fn(caller, r, assets, now); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, r); err != nil {
			return err
		}
		for _, a := range assets {
			if err := s.assets.Update(txCtx, a); err != nil {
				return err
			}
		}
		result, linked = r, assets
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.publisher.Publish(request.TransitionedEvent{
		Operation: op,
		From:      from,
		Result:    *result,
		ActorID:   caller.UserID,
		At:        now,
	})
	ev := asset.MaintenanceChangedEvent{
		Operation: op,
		Request:   *result,
		Assets:    make([]asset.Asset, 0, len(linked)),
		ActorID:   caller.UserID,
		At:        now,
	}
	for _, a := range linked {
		ev.Assets = append(ev.Assets, *a)
	}
	s.publisher.Publish(ev)
	return result, linked, nil
}
