package user

import (
	"context"
	"time"

	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleGA          Role = "ga"
	RoleProcurement Role = "procurement"
	RoleUser        Role = "user"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleGA, RoleProcurement, RoleUser:
		return true
	}
	return false
}

var ErrNotFound = serrors.NewError(serrors.KindNotFound, "USER_NOT_FOUND", "user not found")

// User is provisioned by the identity provider; this service only reads it.
type User struct {
	ID        int64
	Name      string
	Email     string
	Role      Role
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FindParams struct {
	IDs      []int64
	Role     Role
	Category string
	Search   string
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*User, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
