package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/modules/assets/infrastructure/persistence/models"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/repo"
)

const (
	requestFindQuery = `
		SELECT
			r.id,
			r.user_id,
			COALESCE(u.name, ''),
			r.item_name,
			r.quantity,
			r.estimated_cost,
			r.actual_cost,
			r.category,
			r.reason,
			r.status,
			r.ga_note,
			r.decided_by,
			r.decided_at,
			r.maintenance_status,
			r.maintenance_type,
			r.maintenance_note,
			r.maintenance_requested_by,
			r.maintenance_requested_at,
			r.maintenance_started_by,
			r.maintenance_started_at,
			r.maintenance_completed_by,
			r.maintenance_completed_at,
			r.maintenance_completion_notes,
			r.created_at,
			r.updated_at
		FROM request_items r
		LEFT JOIN users u ON u.id = r.user_id`

	requestCountQuery = `SELECT COUNT(r.id) FROM request_items r`

	requestInsertQuery = `
		INSERT INTO request_items (
			user_id,
			item_name,
			quantity,
			estimated_cost,
			category,
			reason,
			status,
			maintenance_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	requestUpdateQuery = `
		UPDATE request_items SET
			item_name = $2,
			quantity = $3,
			estimated_cost = $4,
			actual_cost = $5,
			category = $6,
			reason = $7,
			status = $8,
			ga_note = $9,
			decided_by = $10,
			decided_at = $11,
			maintenance_status = $12,
			maintenance_type = $13,
			maintenance_note = $14,
			maintenance_requested_by = $15,
			maintenance_requested_at = $16,
			maintenance_started_by = $17,
			maintenance_started_at = $18,
			maintenance_completed_by = $19,
			maintenance_completed_at = $20,
			maintenance_completion_notes = $21,
			updated_at = NOW()
		WHERE id = $1`

	requestDeleteQuery = `DELETE FROM request_items WHERE id = $1`
)

type RequestRepository struct{}

func NewRequestRepository() request.Repository {
	return &RequestRepository{}
}

func buildRequestFilters(params *request.FindParams) (string, *repo.Placeholders) {
	ph := &repo.Placeholders{}
	if params == nil {
		return "", ph
	}
	var where []string
	if len(params.IDs) > 0 {
		where = append(where, "r.id = ANY("+ph.Add(params.IDs)+")")
	}
	if params.UserID > 0 {
		where = append(where, "r.user_id = "+ph.Add(params.UserID))
	}
	if len(params.Statuses) > 0 {
		statuses := make([]string, len(params.Statuses))
		for i, s := range params.Statuses {
			statuses[i] = string(s)
		}
		where = append(where, "r.status = ANY("+ph.Add(statuses)+")")
	}
	if params.Category != "" {
		where = append(where, "LOWER(r.category) = LOWER("+ph.Add(params.Category)+")")
	}
	if params.Search != "" {
		where = append(where, "r.item_name ILIKE "+ph.Add("%"+params.Search+"%"))
	}
	if len(where) == 0 {
		return "", ph
	}
	return " WHERE " + strings.Join(where, " AND "), ph
}

func (g *RequestRepository) GetByID(ctx context.Context, id int64) (*request.Request, error) {
	return g.getOne(ctx, requestFindQuery+" WHERE r.id = $1", id)
}

func (g *RequestRepository) GetForUpdate(ctx context.Context, id int64) (*request.Request, error) {
	return g.getOne(ctx, requestFindQuery+" WHERE r.id = $1 FOR UPDATE OF r", id)
}

func (g *RequestRepository) getOne(ctx context.Context, query string, id int64) (*request.Request, error) {
	requests, err := g.queryRequests(ctx, query, id)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to find request with id %d", id))
	}
	if len(requests) == 0 {
		return nil, request.ErrNotFound.WithMeta(map[string]string{"id": fmt.Sprint(id)})
	}
	return requests[0], nil
}

func (g *RequestRepository) GetPaginated(ctx context.Context, params *request.FindParams) ([]*request.Request, error) {
	where, ph := buildRequestFilters(params)
	limit, offset := 0, 0
	if params != nil {
		limit, offset = params.Limit, params.Offset
	}
	sql := requestFindQuery + where + " ORDER BY r.created_at DESC, r.id DESC " + repo.FormatLimitOffset(limit, offset)
	requests, err := g.queryRequests(ctx, sql, ph.Args()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list requests")
	}
	return requests, nil
}

func (g *RequestRepository) Count(ctx context.Context, params *request.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, ph := buildRequestFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, requestCountQuery+where, ph.Args()...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count requests")
	}
	return count, nil
}

func (g *RequestRepository) Create(ctx context.Context, data *request.Request) (*request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m := ToDBRequest(data)
	if err := tx.QueryRow(
		ctx,
		requestInsertQuery,
		m.UserID,
		m.ItemName,
		m.Quantity,
		m.EstimatedCost,
		m.Category,
		m.Reason,
		m.Status,
		m.Maintenance.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	return ToDomainRequest(m), nil
}

func (g *RequestRepository) Update(ctx context.Context, data *request.Request) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	m := ToDBRequest(data)
	args := append([]any{
		m.ID,
		m.ItemName,
		m.Quantity,
		m.EstimatedCost,
		m.ActualCost,
		m.Category,
		m.Reason,
		m.Status,
		m.GANote,
		m.DecidedBy,
		m.DecidedAt,
	}, maintenanceArgs(m.Maintenance)...)
	tag, err := tx.Exec(ctx, requestUpdateQuery, args...)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to update request %d", data.ID))
	}
	if tag.RowsAffected() == 0 {
		return request.ErrNotFound.WithMeta(map[string]string{"id": fmt.Sprint(data.ID)})
	}
	return nil
}

func (g *RequestRepository) Delete(ctx context.Context, id int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, requestDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to delete request %d", id))
	}
	if tag.RowsAffected() == 0 {
		return request.ErrNotFound.WithMeta(map[string]string{"id": fmt.Sprint(id)})
	}
	return nil
}

func (g *RequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*request.Request
	for rows.Next() {
		var m models.Request
		dest := append([]any{
			&m.ID,
			&m.UserID,
			&m.UserName,
			&m.ItemName,
			&m.Quantity,
			&m.EstimatedCost,
			&m.ActualCost,
			&m.Category,
			&m.Reason,
			&m.Status,
			&m.GANote,
			&m.DecidedBy,
			&m.DecidedAt,
		}, maintenanceDest(&m.Maintenance)...)
		dest = append(dest, &m.CreatedAt, &m.UpdatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		requests = append(requests, ToDomainRequest(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}
