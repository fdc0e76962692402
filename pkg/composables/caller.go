package composables

import (
	"context"
	"errors"

	"github.com/jacksonlee411/office-ops/pkg/constants"
)

var ErrNoCaller = errors.New("caller not found in context")

const (
	RoleAdmin       = "admin"
	RoleGA          = "ga"
	RoleProcurement = "procurement"
	RoleUser        = "user"
)

// Caller is the identity supplied by the trusted boundary. The service never
// authenticates it; it only branches on role and ownership.
type Caller struct {
	UserID   int64
	Name     string
	Role     string
	Category string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsGA reports general affairs privileges; admins carry them too.
func (c Caller) IsGA() bool {
	return c.Role == RoleAdmin || c.Role == RoleGA
}

func (c Caller) IsProcurement() bool {
	return c.Role == RoleAdmin || c.Role == RoleProcurement
}

func (c Caller) IsReviewer() bool {
	return c.IsGA()
}

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, constants.CallerKey, caller)
}

func UseCaller(ctx context.Context) (Caller, error) {
	caller, ok := ctx.Value(constants.CallerKey).(Caller)
	if !ok {
		return Caller{}, ErrNoCaller
	}
	return caller, nil
}
