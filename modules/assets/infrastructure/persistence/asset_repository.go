package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/infrastructure/persistence/models"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/repo"
)

const (
	assetColumns = `
			a.id,
			a.request_id,
			r.user_id,
			a.asset_code,
			a.name,
			a.category,
			a.color,
			a.location,
			a.acquisition,
			a.supplier,
			a.cost,
			a.purchase_date,
			a.status,
			a.status_note,
			a.receipt_proof,
			a.condition_proof,
			a.maintenance_status,
			a.maintenance_type,
			a.maintenance_note,
			a.maintenance_requested_by,
			a.maintenance_requested_at,
			a.maintenance_started_by,
			a.maintenance_started_at,
			a.maintenance_completed_by,
			a.maintenance_completed_at,
			a.maintenance_completion_notes,
			a.created_by,
			a.created_at,
			a.updated_at`

	assetFindQuery = `SELECT` + assetColumns + `
		FROM assets a
		LEFT JOIN request_items r ON r.id = a.request_id`

	assetCountQuery = `
		SELECT COUNT(a.id) FROM assets a
		LEFT JOIN request_items r ON r.id = a.request_id`

	assetInsertQuery = `
		INSERT INTO assets (
			request_id,
			asset_code,
			name,
			category,
			color,
			location,
			acquisition,
			supplier,
			cost,
			purchase_date,
			status,
			maintenance_status,
			created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	assetUpdateQuery = `
		UPDATE assets SET
			name = $2,
			category = $3,
			color = $4,
			location = $5,
			supplier = $6,
			cost = $7,
			purchase_date = $8,
			status = $9,
			status_note = $10,
			receipt_proof = $11,
			condition_proof = $12,
			maintenance_status = $13,
			maintenance_type = $14,
			maintenance_note = $15,
			maintenance_requested_by = $16,
			maintenance_requested_at = $17,
			maintenance_started_by = $18,
			maintenance_started_at = $19,
			maintenance_completed_by = $20,
			maintenance_completed_at = $21,
			maintenance_completion_notes = $22,
			updated_at = NOW()
		WHERE id = $1`

	assetLockBaseQuery  = `SELECT pg_advisory_xact_lock(hashtext($1))`
	assetCodesQuery     = `SELECT asset_code FROM assets WHERE asset_code LIKE $1 ORDER BY asset_code`
	assetCodeExistQuery = `SELECT EXISTS (SELECT 1 FROM assets WHERE asset_code = $1)`
)

// Orphans have no request row to join, so the owner column is null.
var assetDeleteOrphansQuery = `
	WITH removed AS (
		DELETE FROM assets
		WHERE acquisition = 'purchasing' AND request_id IS NULL
		RETURNING *
	)
	SELECT` + strings.ReplaceAll(assetColumns, "r.user_id", "NULL::bigint") + `
	FROM removed a
	ORDER BY a.id`

const uniqueViolation = "23505"

type AssetRepository struct{}

func NewAssetRepository() asset.Repository {
	return &AssetRepository{}
}

func buildAssetFilters(params *asset.FindParams) (string, *repo.Placeholders) {
	ph := &repo.Placeholders{}
	if params == nil {
		return "", ph
	}
	var where []string
	if len(params.IDs) > 0 {
		where = append(where, "a.id = ANY("+ph.Add(params.IDs)+")")
	}
	if params.RequestID > 0 {
		where = append(where, "a.request_id = "+ph.Add(params.RequestID))
	}
	if params.OwnerID > 0 {
		where = append(where, "r.user_id = "+ph.Add(params.OwnerID))
	}
	if len(params.Statuses) > 0 {
		statuses := make([]string, len(params.Statuses))
		for i, s := range params.Statuses {
			statuses[i] = string(s)
		}
		where = append(where, "a.status = ANY("+ph.Add(statuses)+")")
	}
	if params.Category != "" {
		where = append(where, "LOWER(a.category) = LOWER("+ph.Add(params.Category)+")")
	}
	if params.Search != "" {
		p := ph.Add("%" + params.Search + "%")
		where = append(where, "(a.name ILIKE "+p+" OR a.asset_code ILIKE "+p+")")
	}
	if len(where) == 0 {
		return "", ph
	}
	return " WHERE " + strings.Join(where, " AND "), ph
}

func (g *AssetRepository) GetByID(ctx context.Context, id int64) (*asset.Asset, error) {
	return g.getOne(ctx, assetFindQuery+" WHERE a.id = $1", id)
}

func (g *AssetRepository) GetForUpdate(ctx context.Context, id int64) (*asset.Asset, error) {
	return g.getOne(ctx, assetFindQuery+" WHERE a.id = $1 FOR UPDATE OF a", id)
}

func (g *AssetRepository) getOne(ctx context.Context, query string, id int64) (*asset.Asset, error) {
	assets, err := g.queryAssets(ctx, query, id)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to find asset with id %d", id))
	}
	if len(assets) == 0 {
		return nil, asset.ErrNotFound.WithMeta(map[string]string{"id": fmt.Sprint(id)})
	}
	return assets[0], nil
}

func (g *AssetRepository) GetPaginated(ctx context.Context, params *asset.FindParams) ([]*asset.Asset, error) {
	where, ph := buildAssetFilters(params)
	limit, offset := 0, 0
	if params != nil {
		limit, offset = params.Limit, params.Offset
	}
	sql := assetFindQuery + where + " ORDER BY a.created_at DESC, a.id DESC " + repo.FormatLimitOffset(limit, offset)
	assets, err := g.queryAssets(ctx, sql, ph.Args()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assets")
	}
	return assets, nil
}

func (g *AssetRepository) Count(ctx context.Context, params *asset.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, ph := buildAssetFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, assetCountQuery+where, ph.Args()...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count assets")
	}
	return count, nil
}

func (g *AssetRepository) ListByRequest(ctx context.Context, requestID int64) ([]*asset.Asset, error) {
	assets, err := g.queryAssets(ctx, assetFindQuery+" WHERE a.request_id = $1 ORDER BY a.id FOR UPDATE OF a", requestID)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to list assets of request %d", requestID))
	}
	return assets, nil
}

func (g *AssetRepository) LatestByRequest(ctx context.Context, requestID int64) (*asset.Asset, error) {
	assets, err := g.queryAssets(
		ctx,
		assetFindQuery+" WHERE a.request_id = $1 ORDER BY a.created_at DESC, a.id DESC LIMIT 1 FOR UPDATE OF a",
		requestID,
	)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to find latest asset of request %d", requestID))
	}
	if len(assets) == 0 {
		return nil, asset.ErrNoLinkedAsset.WithMeta(map[string]string{"request_id": fmt.Sprint(requestID)})
	}
	return assets[0], nil
}

func (g *AssetRepository) Create(ctx context.Context, data *asset.Asset) (*asset.Asset, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m := ToDBAsset(data)
	if err := tx.QueryRow(
		ctx,
		assetInsertQuery,
		m.RequestID,
		m.Code,
		m.Name,
		m.Category,
		m.Color,
		m.Location,
		m.Acquisition,
		m.Supplier,
		m.Cost,
		m.PurchaseDate,
		m.Status,
		m.Maintenance.Status,
		m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, asset.ErrDuplicateCode.WithMeta(map[string]string{"asset_code": m.Code})
		}
		return nil, errors.Wrap(err, "failed to create asset")
	}
	return ToDomainAsset(m), nil
}

func (g *AssetRepository) Update(ctx context.Context, data *asset.Asset) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	m := ToDBAsset(data)
	args := append([]any{
		m.ID,
		m.Name,
		m.Category,
		m.Color,
		m.Location,
		m.Supplier,
		m.Cost,
		m.PurchaseDate,
		m.Status,
		m.StatusNote,
		m.ReceiptProof,
		m.ConditionProof,
	}, maintenanceArgs(m.Maintenance)...)
	tag, err := tx.Exec(ctx, assetUpdateQuery, args...)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to update asset %d", data.ID))
	}
	if tag.RowsAffected() == 0 {
		return asset.ErrNotFound.WithMeta(map[string]string{"id": fmt.Sprint(data.ID)})
	}
	return nil
}

func (g *AssetRepository) DeleteOrphans(ctx context.Context) ([]*asset.Asset, error) {
	assets, err := g.queryAssets(ctx, assetDeleteOrphansQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete orphan assets")
	}
	return assets, nil
}

func (g *AssetRepository) LockCodeBase(ctx context.Context, base string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, assetLockBaseQuery, base); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to lock asset codes %s", base))
	}
	return nil
}

func (g *AssetRepository) CodesWithBase(ctx context.Context, base string, lock bool) ([]string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	query := assetCodesQuery
	if lock {
		query += " FOR UPDATE"
	}
	rows, err := tx.Query(ctx, query, base+"%")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list asset codes")
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, errors.Wrap(err, "failed to scan asset code")
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (g *AssetRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, assetCodeExistQuery, code).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to probe asset code")
	}
	return exists, nil
}

func (g *AssetRepository) queryAssets(ctx context.Context, query string, args ...interface{}) ([]*asset.Asset, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*asset.Asset
	for rows.Next() {
		var m models.Asset
		dest := append([]any{
			&m.ID,
			&m.RequestID,
			&m.OwnerID,
			&m.Code,
			&m.Name,
			&m.Category,
			&m.Color,
			&m.Location,
			&m.Acquisition,
			&m.Supplier,
			&m.Cost,
			&m.PurchaseDate,
			&m.Status,
			&m.StatusNote,
			&m.ReceiptProof,
			&m.ConditionProof,
		}, maintenanceDest(&m.Maintenance)...)
		dest = append(dest, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		assets = append(assets, ToDomainAsset(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}
