package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jacksonlee411/office-ops/modules/core/domain/aggregates/user"
	"github.com/jacksonlee411/office-ops/modules/core/infrastructure/persistence/models"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/repo"
)

const (
	userFindQuery = `
		SELECT
			u.id,
			u.name,
			u.email,
			u.role,
			u.category,
			u.created_at,
			u.updated_at
		FROM users u`

	userCountQuery = `SELECT COUNT(u.id) FROM users u`
)

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func buildUserFilters(params *user.FindParams) (string, *repo.Placeholders) {
	ph := &repo.Placeholders{}
	if params == nil {
		return "", ph
	}
	var where []string
	if len(params.IDs) > 0 {
		where = append(where, "u.id = ANY("+ph.Add(params.IDs)+")")
	}
	if params.Role != "" {
		where = append(where, "u.role = "+ph.Add(string(params.Role)))
	}
	if params.Category != "" {
		where = append(where, "LOWER(u.category) = LOWER("+ph.Add(params.Category)+")")
	}
	if params.Search != "" {
		p := ph.Add("%" + params.Search + "%")
		where = append(where, fmt.Sprintf("(u.name ILIKE %s OR u.email ILIKE %s)", p, p))
	}
	if len(where) == 0 {
		return "", ph
	}
	return " WHERE " + strings.Join(where, " AND "), ph
}

func (g *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	users, err := g.queryUsers(ctx, userFindQuery+" WHERE u.id = $1", id)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to find user with id %d", id))
	}
	if len(users) == 0 {
		return nil, user.ErrNotFound.WithMeta(map[string]string{"id": fmt.Sprint(id)})
	}
	return users[0], nil
}

func (g *UserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]*user.User, error) {
	where, ph := buildUserFilters(params)
	limit, offset := 0, 0
	if params != nil {
		limit, offset = params.Limit, params.Offset
	}
	sql := userFindQuery + where + " ORDER BY u.name, u.id " + repo.FormatLimitOffset(limit, offset)
	users, err := g.queryUsers(ctx, sql, ph.Args()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}

func (g *UserRepository) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, ph := buildUserFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, userCountQuery+where, ph.Args()...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count users")
	}
	return count, nil
}

func (g *UserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.Role,
			&u.Category,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, ToDomainUser(&u))
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return users, nil
}
