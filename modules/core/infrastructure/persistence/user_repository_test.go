package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/modules/core/domain/aggregates/user"
	"github.com/jacksonlee411/office-ops/pkg/repo/repotest"
)

func TestUserRepository_GetPaginated_BuildsFilters(t *testing.T) {
	now := time.Now()
	tx := &repotest.StubTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "u.id = ANY($1)")
			require.Contains(t, sql, "LOWER(u.category) = LOWER($2)")
			require.Contains(t, sql, "LIMIT 10")
			require.Equal(t, []int64{4, 9}, args[0])
			require.Equal(t, "driver", args[1])
			return &repotest.StubRows{Data: [][]any{
				{int64(4), "Budi", "budi@example.com", "user", "driver", now, now},
			}}, nil
		},
	}

	users, err := NewUserRepository().GetPaginated(tx.Context(context.Background()), &user.FindParams{
		IDs:      []int64{4, 9},
		Category: "driver",
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, user.RoleUser, users[0].Role)
	require.Equal(t, "driver", users[0].Category)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	tx := &repotest.StubTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &repotest.StubRows{}, nil
		},
	}
	_, err := NewUserRepository().GetByID(tx.Context(context.Background()), 77)
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepository_Count(t *testing.T) {
	tx := &repotest.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "u.role = $1")
			return repotest.StubRow{Values: []any{int64(3)}}
		},
	}
	n, err := NewUserRepository().Count(tx.Context(context.Background()), &user.FindParams{Role: user.RoleGA})
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}
