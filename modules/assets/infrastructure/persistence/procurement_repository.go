package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/procurement"
	"github.com/jacksonlee411/office-ops/modules/assets/infrastructure/persistence/models"
	"github.com/jacksonlee411/office-ops/pkg/composables"
)

const (
	procurementByRequestQuery = `
		SELECT
			p.id,
			p.request_id,
			p.purchaser_id,
			COALESCE(u.name, ''),
			p.purchase_date,
			p.amount,
			p.supplier,
			p.notes,
			p.created_at
		FROM procurements p
		LEFT JOIN users u ON u.id = p.purchaser_id
		WHERE p.request_id = $1
		ORDER BY p.created_at, p.id`

	procurementInsertQuery = `
		INSERT INTO procurements (
			request_id,
			purchaser_id,
			purchase_date,
			amount,
			supplier,
			notes
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
)

type ProcurementRepository struct{}

func NewProcurementRepository() procurement.Repository {
	return &ProcurementRepository{}
}

func (g *ProcurementRepository) Create(ctx context.Context, data *procurement.Procurement) (*procurement.Procurement, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m := models.Procurement{
		RequestID:    data.RequestID,
		PurchaserID:  data.PurchaserID,
		PurchaseDate: data.PurchaseDate,
		Amount:       data.Amount,
		Supplier:     nullStr(data.Supplier),
		Notes:        nullStr(data.Notes),
	}
	if err := tx.QueryRow(
		ctx,
		procurementInsertQuery,
		m.RequestID,
		m.PurchaserID,
		m.PurchaseDate,
		m.Amount,
		m.Supplier,
		m.Notes,
	).Scan(&m.ID, &m.CreatedAt); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to record procurement for request %d", data.RequestID))
	}
	out := ToDomainProcurement(&m)
	out.PurchaserName = data.PurchaserName
	return out, nil
}

func (g *ProcurementRepository) ListByRequest(ctx context.Context, requestID int64) ([]*procurement.Procurement, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, procurementByRequestQuery, requestID)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to list procurements of request %d", requestID))
	}
	defer rows.Close()

	var out []*procurement.Procurement
	for rows.Next() {
		var m models.Procurement
		if err := rows.Scan(
			&m.ID,
			&m.RequestID,
			&m.PurchaserID,
			&m.PurchaserName,
			&m.PurchaseDate,
			&m.Amount,
			&m.Supplier,
			&m.Notes,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan procurement")
		}
		out = append(out, ToDomainProcurement(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
