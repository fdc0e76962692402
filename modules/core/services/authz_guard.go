package services

import (
	"context"

	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/composables"
)

var authorizeCoreFn = defaultAuthorizeCore

func authorizeCore(ctx context.Context, action string) error {
	return authorizeCoreFn(ctx, authz.ObjectUsers, action)
}

func defaultAuthorizeCore(ctx context.Context, object, action string) error {
	caller, err := composables.UseCaller(ctx)
	if err != nil {
		return authz.ErrForbidden.WithMessage("caller identity required")
	}
	return authz.Use().AuthorizeRole(ctx, caller.Role, object, action)
}
