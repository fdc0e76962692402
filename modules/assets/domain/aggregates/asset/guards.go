package asset

import (
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/guard"
)

// StatusChangeContext provides context for status update guards.
type StatusChangeContext struct {
	Target     Status
	CallerID   int64
	OwnerID    int64
	Privileged bool
	HasProof   bool
}

// CanChangeStatus evaluates a status update.
// Rules:
// - only received, needs_repair, needs_replacement, repairing and replacing are settable
// - repairing and replacing need a privileged caller
// - other callers must own the parent request and attach the required proof
func CanChangeStatus(ctx StatusChangeContext) guard.Result {
	if !ctx.Target.Settable() {
		return guard.Deny(ErrInvalidStatus.WithMessage("status %q cannot be set directly", ctx.Target))
	}
	if ctx.Privileged {
		return guard.Allow()
	}
	if ctx.Target.Privileged() {
		return guard.Deny(ErrPrivilegedStatus.WithMessage("only procurement can set %s", ctx.Target))
	}
	if ctx.OwnerID == 0 || ctx.OwnerID != ctx.CallerID {
		return guard.Deny(ErrNotOwner)
	}
	if proof := RequiredProof(ctx.Target); proof != ProofNone && !ctx.HasProof {
		return guard.Deny(ErrProofRequired.WithMessage("%s proof required", proof))
	}
	return guard.Allow()
}

// CanRequestMaintenance evaluates a maintenance request against the request
// and every asset linked to it.
// Rules:
// - no maintenance may be pending or in progress on the request or any asset
// - some asset must be received, or the request itself received or completed
func CanRequestMaintenance(r *request.Request, assets []*Asset) guard.Result {
	if r.Maintenance.Active() {
		return guard.Deny(request.ErrMaintenanceActive)
	}
	received := r.Status == request.StatusReceived || r.Status == request.StatusCompleted
	for _, a := range assets {
		if a.Maintenance.Active() {
			return guard.Deny(request.ErrMaintenanceActive.WithMessage("asset %s already has maintenance pending or in progress", a.Code))
		}
		if a.Status == StatusReceived {
			received = true
		}
	}
	if !received {
		return guard.Deny(request.ErrNotEligible)
	}
	return guard.Allow()
}
