package services

import (
	"context"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/composables"
)

var authorizeTodoFn = defaultAuthorizeTodo

func authorizeTodo(ctx context.Context, object, action string) error {
	return authorizeTodoFn(ctx, object, action)
}

func defaultAuthorizeTodo(ctx context.Context, object, action string) error {
	caller, err := composables.UseCaller(ctx)
	if err != nil {
		return authz.ErrForbidden.WithMessage("caller identity required")
	}
	return authz.Use().AuthorizeRole(ctx, caller.Role, object, action)
}

// authorizeReviewer runs the policy check, then requires a reviewer role.
// The role check applies in every authz mode.
func authorizeReviewer(ctx context.Context, object, action string) error {
	if err := authorizeTodo(ctx, object, action); err != nil {
		return err
	}
	caller, err := composables.UseCaller(ctx)
	if err != nil {
		return authz.ErrForbidden.WithMessage("caller identity required")
	}
	if !caller.IsReviewer() {
		return authz.ErrForbidden.WithMessage("role %q may not %s %s", caller.Role, action, object)
	}
	return nil
}

// requireOwner lets the owner, or an admin, act on a todo.
func requireOwner(caller composables.Caller, t *todo.Todo) error {
	if caller.UserID == t.UserID || caller.IsAdmin() {
		return nil
	}
	return todo.ErrNotOwner
}
