package services

import (
	"context"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/eventbus"
	"github.com/jacksonlee411/office-ops/pkg/storage"
	"github.com/jacksonlee411/office-ops/pkg/upload"
)

type AssetService struct {
	repo      asset.Repository
	requests  request.Repository
	codes     *CodeAllocator
	proofs    proofStore
	clock     clock.Clock
	publisher eventbus.EventBus
}

func NewAssetService(
	repo asset.Repository,
	requests request.Repository,
	codes *CodeAllocator,
	store storage.Store,
	clk clock.Clock,
	publisher eventbus.EventBus,
) *AssetService {
	return &AssetService{
		repo:      repo,
		requests:  requests,
		codes:     codes,
		proofs:    proofStore{store: store},
		clock:     clk,
		publisher: publisher,
	}
}

func requireAssetOwner(caller composables.Caller, a *asset.Asset) error {
	if seesAllRequests(caller) || (a.OwnerID != nil && *a.OwnerID == caller.UserID) {
		return nil
	}
	return asset.ErrNotOwner
}

func (s *AssetService) GetByID(ctx context.Context, id int64) (*asset.Asset, error) {
	if err := authorizeAssets(ctx, authz.ObjectAssets, "list"); err != nil {
		return nil, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAssetOwner(caller, a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetPaginatedWithTotal lists assets. Members only see assets of their own
// requests.
func (s *AssetService) GetPaginatedWithTotal(ctx context.Context, params *asset.FindParams) ([]*asset.Asset, int64, error) {
	if err := authorizeAssets(ctx, authz.ObjectAssets, "list"); err != nil {
		return nil, 0, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &asset.FindParams{}
	}
	if !seesAllRequests(caller) {
		params.OwnerID = caller.UserID
	}
	assets, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

// Create registers an asset by hand. The code is allocated in the insert's
// transaction.
func (s *AssetService) Create(ctx context.Context, data *asset.CreateDTO) (*asset.Asset, error) {
	if err := authorizeRoleFor(ctx, composables.Caller.IsAdmin, authz.ObjectAssets, "create"); err != nil {
		return nil, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	var created *asset.Asset
	err = inTx(ctx, func(txCtx context.Context) error {
		var owner *int64
		if data.RequestID != nil {
			r, err := s.requests.GetForUpdate(txCtx, *data.RequestID)
			if err != nil {
				return err
			}
			owner = &r.UserID
		}
		code, err := s.codes.Allocate(txCtx, data.Category)
		if err != nil {
			return err
		}
		a := data.ToEntity(code, caller.UserID, s.clock.Location())
		if created, err = s.repo.Create(txCtx, a); err != nil {
			return err
		}
		created.OwnerID = owner
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(asset.CreatedEvent{Result: *created, ActorID: caller.UserID})
	return created, nil
}

func (s *AssetService) Update(ctx context.Context, id int64, data *asset.DetailsDTO) (*asset.Asset, error) {
	if err := authorizeRoleFor(ctx, composables.Caller.IsAdmin, authz.ObjectAssets, "update"); err != nil {
		return nil, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	var before asset.Asset
	var updated *asset.Asset
	err = inTx(ctx, func(txCtx context.Context) error {
		a, err := s.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		before = *a
		data.Apply(a, s.clock.Location())
		if err := s.repo.Update(txCtx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(asset.UpdatedEvent{Before: before, Result: *updated, ActorID: caller.UserID})
	return updated, nil
}

// UpdateStatus is the status change made by the requester or by
// procurement. Receipt and condition changes by the owner must carry a proof
// file; procurement may skip it. Statuses that map onto the request cascade
// in the same transaction. A replaced proof is marked deleted after commit.
func (s *AssetService) UpdateStatus(ctx context.Context, id int64, data *asset.StatusDTO, files []upload.File) (*asset.Asset, error) {
	if err := authorizeAssets(ctx, authz.ObjectAssets, "set_status"); err != nil {
		return nil, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	if len(files) > 1 {
		return nil, asset.ErrTooManyProofFiles
	}
	docs, err := upload.InspectAll(files, 1)
	if err != nil {
		return nil, err
	}
	target := asset.Status(data.Status)

	// The request is locked before the asset, the same order maintenance uses.
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var (
		result   *asset.Asset
		from     asset.Status
		cascaded request.Status
		written  string
		replaced string
		now      = s.clock.Now()
	)
	err = inTx(ctx, func(txCtx context.Context) error {
		var (
			r   *request.Request
			err error
		)
		if current.RequestID != nil {
			if r, err = s.requests.GetForUpdate(txCtx, *current.RequestID); err != nil {
				return err
			}
		}
		a, err := s.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		check := asset.StatusChangeContext{
			Target:     target,
			CallerID:   caller.UserID,
			Privileged: caller.IsProcurement(),
			HasProof:   len(docs) > 0,
		}
		if r != nil {
			check.OwnerID = r.UserID
		}
		if err := asset.CanChangeStatus(check).Err(); err != nil {
			return err
		}
		if kind := asset.RequiredProof(target); kind != asset.ProofNone && len(docs) > 0 {
			path := asset.ProofPath(a.ID, kind, now, docs[0].Extension)
			if err := s.proofs.write(txCtx, path, docs[0].Data); err != nil {
				return asset.ErrProofStorage.Wrap(err)
			}
			written = path
		}
		from = a.Status
		replaced = a.SetStatus(target, written, data.Note)
		if err := s.repo.Update(txCtx, a); err != nil {
			return err
		}
		if st, ok := target.RequestStatus(); ok && r != nil {
			r.Status = st
			if err := s.requests.Update(txCtx, r); err != nil {
				return err
			}
			cascaded = st
		}
		result = a
		return nil
	})
	if err != nil {
		s.proofs.discard(ctx, written)
		return nil, err
	}
	if replaced != "" && replaced != written {
		s.proofs.retire(ctx, result.ID, replaced)
	}
	s.publisher.Publish(asset.StatusChangedEvent{
		From:     from,
		Result:   *result,
		Cascaded: cascaded,
		ActorID:  caller.UserID,
		At:       now,
	})
	return result, nil
}

// PreviewCode shows the code the next asset of category would get today.
func (s *AssetService) PreviewCode(ctx context.Context, category string) (string, error) {
	if err := authorizeRoleFor(ctx, seesAllRequests, authz.ObjectAssets, "preview_code"); err != nil {
		return "", err
	}
	return s.codes.Preview(ctx, category)
}

// CleanupOrphans deletes purchasing assets whose request is gone and marks
// their proofs deleted.
func (s *AssetService) CleanupOrphans(ctx context.Context) ([]*asset.Asset, error) {
	if err := authorizeRoleFor(ctx, composables.Caller.IsAdmin, authz.ObjectAssets, "cleanup"); err != nil {
		return nil, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	var removed []*asset.Asset
	err = inTx(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = s.repo.DeleteOrphans(txCtx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return removed, nil
	}
	ev := asset.OrphansRemovedEvent{ActorID: caller.UserID, Removed: make([]asset.Asset, 0, len(removed))}
	for _, a := range removed {
		s.proofs.retire(ctx, a.ID, a.Proofs()...)
		ev.Removed = append(ev.Removed, *a)
	}
	s.publisher.Publish(ev)
	return removed, nil
}
