package services

import (
	"context"
	"errors"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/procurement"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/eventbus"
)

type ProcurementService struct {
	repo      procurement.Repository
	requests  request.Repository
	assets    asset.Repository
	clock     clock.Clock
	publisher eventbus.EventBus
}

func NewProcurementService(
	repo procurement.Repository,
	requests request.Repository,
	assets asset.Repository,
	clk clock.Clock,
	publisher eventbus.EventBus,
) *ProcurementService {
	return &ProcurementService{
		repo:      repo,
		requests:  requests,
		assets:    assets,
		clock:     clk,
		publisher: publisher,
	}
}

// Store records a purchase. The request moves to not_received and so does
// its most recently created asset, which also picks up the supplier and
// purchase date. A request without any asset is still recorded.
func (s *ProcurementService) Store(ctx context.Context, data *procurement.CreateDTO) (*procurement.Procurement, error) {
	if err := authorizeRoleFor(ctx, composables.Caller.IsProcurement, authz.ObjectProcurements, "create"); err != nil {
		return nil, err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return nil, err
	}
	if errs, ok := data.Ok(); !ok {
		return nil, errs.AsError()
	}
	var (
		created *procurement.Procurement
		result  *request.Request
		from    request.Status
		now     = s.clock.Now()
	)
	err = inTx(ctx, func(txCtx context.Context) error {
		r, err := s.requests.GetForUpdate(txCtx, data.RequestID)
		if err != nil {
			return err
		}
		from = r.Status
		created, err = s.repo.Create(txCtx, data.ToEntity(caller.UserID, now))
		if err != nil {
			return err
		}
		r.MarkPurchased(created.Amount)
		if err := s.requests.Update(txCtx, r); err != nil {
			return err
		}
		result = r
		latest, err := s.assets.LatestByRequest(txCtx, r.ID)
		if errors.Is(err, asset.ErrNoLinkedAsset) {
			return nil
		}
		if err != nil {
			return err
		}
		latest.MarkPurchased(created.Supplier, created.PurchaseDate)
		return s.assets.Update(txCtx, latest)
	})
	if err != nil {
		return nil, err
	}
	created.PurchaserName = caller.Name
	s.publisher.Publish(procurement.CreatedEvent{Result: *created, ActorID: caller.UserID})
	s.publisher.Publish(request.TransitionedEvent{
		Operation: request.OpPurchase,
		From:      from,
		Result:    *result,
		ActorID:   caller.UserID,
		At:        now,
	})
	return created, nil
}

func (s *ProcurementService) ListByRequest(ctx context.Context, requestID int64) ([]*procurement.Procurement, error) {
	if err := authorizeAssets(ctx, authz.ObjectProcurements, "list"); err != nil {
		return nil, err
	}
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	return s.repo.ListByRequest(ctx, requestID)
}
