package services

import (
	"context"

	"github.com/jacksonlee411/office-ops/modules/core/domain/aggregates/user"
)

type UserService struct {
	repo user.Repository
}

func NewUserService(repo user.Repository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if err := authorizeCore(ctx, "list"); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetPaginatedWithTotal(ctx context.Context, params *user.FindParams) ([]*user.User, int64, error) {
	if err := authorizeCore(ctx, "list"); err != nil {
		return nil, 0, err
	}
	users, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Resolve returns the users matching explicit ids and/or a category without
// an authorization check. It backs routine expansion, which is authorized by
// the caller.
func (s *UserService) Resolve(ctx context.Context, ids []int64, category string) ([]*user.User, error) {
	if len(ids) == 0 && category == "" {
		return nil, nil
	}
	seen := map[int64]bool{}
	var out []*user.User
	add := func(users []*user.User) {
		for _, u := range users {
			if !seen[u.ID] {
				seen[u.ID] = true
				out = append(out, u)
			}
		}
	}
	if len(ids) > 0 {
		users, err := s.repo.GetPaginated(ctx, &user.FindParams{IDs: ids})
		if err != nil {
			return nil, err
		}
		add(users)
	}
	if category != "" {
		users, err := s.repo.GetPaginated(ctx, &user.FindParams{Category: category})
		if err != nil {
			return nil, err
		}
		add(users)
	}
	return out, nil
}
