package services

import (
	"context"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/composables"
)

var inTx = composables.InTx

var authorizeAssetsFn = defaultAuthorizeAssets

func authorizeAssets(ctx context.Context, object, action string) error {
	return authorizeAssetsFn(ctx, object, action)
}

func defaultAuthorizeAssets(ctx context.Context, object, action string) error {
	caller, err := composables.UseCaller(ctx)
	if err != nil {
		return authz.ErrForbidden.WithMessage("caller identity required")
	}
	return authz.Use().AuthorizeRole(ctx, caller.Role, object, action)
}

// authorizeRoleFor runs the policy check, then requires the caller's own
// role to pass allowed. The role check applies in every authz mode.
func authorizeRoleFor(ctx context.Context, allowed func(composables.Caller) bool, object, action string) error {
	if err := authorizeAssets(ctx, object, action); err != nil {
		return err
	}
	caller, err := useCaller(ctx)
	if err != nil {
		return err
	}
	if !allowed(caller) {
		return authz.ErrForbidden.WithMessage("role %q may not %s %s", caller.Role, action, object)
	}
	return nil
}

func useCaller(ctx context.Context) (composables.Caller, error) {
	caller, err := composables.UseCaller(ctx)
	if err != nil {
		return composables.Caller{}, authz.ErrForbidden.WithMessage("caller identity required")
	}
	return caller, nil
}

// seesAllRequests reports callers that work the fulfillment pipeline and so
// read every request and asset, not only their own.
func seesAllRequests(caller composables.Caller) bool {
	return caller.IsGA() || caller.IsProcurement()
}

func requireRequestOwner(caller composables.Caller, r *request.Request) error {
	if caller.UserID == r.UserID || seesAllRequests(caller) {
		return nil
	}
	return request.ErrNotOwner
}
