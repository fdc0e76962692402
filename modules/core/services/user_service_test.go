package services

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/modules/core/domain/aggregates/user"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/composables"
)

type fakeUserRepo struct {
	users []*user.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserRepo) GetPaginated(_ context.Context, p *user.FindParams) ([]*user.User, error) {
	var out []*user.User
	for _, u := range f.users {
		if len(p.IDs) > 0 && !slices.Contains(p.IDs, u.ID) {
			continue
		}
		if p.Category != "" && !strings.EqualFold(p.Category, u.Category) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Count(ctx context.Context, p *user.FindParams) (int64, error) {
	users, _ := f.GetPaginated(ctx, p)
	return int64(len(users)), nil
}

func useEmbeddedPolicy(t *testing.T) {
	t.Helper()
	svc, err := authz.NewService(authz.Config{FlagProvider: authz.StaticFlags(authz.ModeEnforce)})
	require.NoError(t, err)
	authorizeCoreFn = func(ctx context.Context, object, action string) error {
		caller, err := composables.UseCaller(ctx)
		if err != nil {
			return authz.ErrForbidden
		}
		return svc.AuthorizeRole(ctx, caller.Role, object, action)
	}
	t.Cleanup(func() { authorizeCoreFn = defaultAuthorizeCore })
}

func TestUserService_Resolve_MergesIDsAndCategory(t *testing.T) {
	repo := &fakeUserRepo{users: []*user.User{
		{ID: 1, Name: "Ani", Category: "driver"},
		{ID: 2, Name: "Budi", Category: "security"},
		{ID: 3, Name: "Cici", Category: "Driver"},
	}}
	svc := NewUserService(repo)

	got, err := svc.Resolve(context.Background(), []int64{2, 1}, "driver")
	require.NoError(t, err)
	ids := make([]int64, 0, len(got))
	for _, u := range got {
		ids = append(ids, u.ID)
	}
	require.Equal(t, []int64{1, 2, 3}, ids)

	none, err := svc.Resolve(context.Background(), nil, "")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestUserService_RequiresCaller(t *testing.T) {
	useEmbeddedPolicy(t)
	svc := NewUserService(&fakeUserRepo{users: []*user.User{{ID: 1}}})

	_, _, err := svc.GetPaginatedWithTotal(context.Background(), &user.FindParams{})
	require.ErrorIs(t, err, authz.ErrForbidden)

	ctx := composables.WithCaller(context.Background(), composables.Caller{UserID: 5, Role: "user"})
	users, total, err := svc.GetPaginatedWithTotal(ctx, &user.FindParams{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, int64(1), total)
}
