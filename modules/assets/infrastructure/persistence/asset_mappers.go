package persistence

import (
	"github.com/shopspring/decimal"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/procurement"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/modules/assets/infrastructure/persistence/models"
)

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// maintenanceDest matches the maintenance_* column order shared by
// request_items and assets.
func maintenanceDest(m *models.Maintenance) []any {
	return []any{
		&m.Status,
		&m.Type,
		&m.Note,
		&m.RequestedBy,
		&m.RequestedAt,
		&m.StartedBy,
		&m.StartedAt,
		&m.CompletedBy,
		&m.CompletedAt,
		&m.CompletionNotes,
	}
}

func maintenanceArgs(m models.Maintenance) []any {
	return []any{
		m.Status,
		m.Type,
		m.Note,
		m.RequestedBy,
		m.RequestedAt,
		m.StartedBy,
		m.StartedAt,
		m.CompletedBy,
		m.CompletedAt,
		m.CompletionNotes,
	}
}

func toDomainMaintenance(m models.Maintenance) request.Maintenance {
	status := request.MaintenanceStatus(m.Status)
	if status == "" {
		status = request.MaintenanceNone
	}
	return request.Maintenance{
		Status:          status,
		Type:            request.MaintenanceType(str(m.Type)),
		Note:            str(m.Note),
		RequestedBy:     m.RequestedBy,
		RequestedAt:     m.RequestedAt,
		StartedBy:       m.StartedBy,
		StartedAt:       m.StartedAt,
		CompletedBy:     m.CompletedBy,
		CompletedAt:     m.CompletedAt,
		CompletionNotes: str(m.CompletionNotes),
	}
}

func toDBMaintenance(m request.Maintenance) models.Maintenance {
	status := string(m.Status)
	if status == "" {
		status = string(request.MaintenanceNone)
	}
	return models.Maintenance{
		Status:          status,
		Type:            nullStr(string(m.Type)),
		Note:            nullStr(m.Note),
		RequestedBy:     m.RequestedBy,
		RequestedAt:     m.RequestedAt,
		StartedBy:       m.StartedBy,
		StartedAt:       m.StartedAt,
		CompletedBy:     m.CompletedBy,
		CompletedAt:     m.CompletedAt,
		CompletionNotes: nullStr(m.CompletionNotes),
	}
}

func ToDomainRequest(m *models.Request) *request.Request {
	return &request.Request{
		ID:            m.ID,
		UserID:        m.UserID,
		UserName:      m.UserName,
		ItemName:      m.ItemName,
		Quantity:      m.Quantity,
		EstimatedCost: m.EstimatedCost,
		ActualCost:    toDecimalPtr(m.ActualCost),
		Category:      m.Category,
		Reason:        str(m.Reason),
		Status:        request.Status(m.Status),
		GANote:        str(m.GANote),
		DecidedBy:     m.DecidedBy,
		DecidedAt:     m.DecidedAt,
		Maintenance:   toDomainMaintenance(m.Maintenance),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToDBRequest(r *request.Request) *models.Request {
	return &models.Request{
		ID:            r.ID,
		UserID:        r.UserID,
		UserName:      r.UserName,
		ItemName:      r.ItemName,
		Quantity:      r.Quantity,
		EstimatedCost: r.EstimatedCost,
		ActualCost:    toNullDecimal(r.ActualCost),
		Category:      r.Category,
		Reason:        nullStr(r.Reason),
		Status:        string(r.Status),
		GANote:        nullStr(r.GANote),
		DecidedBy:     r.DecidedBy,
		DecidedAt:     r.DecidedAt,
		Maintenance:   toDBMaintenance(r.Maintenance),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func ToDomainAsset(m *models.Asset) *asset.Asset {
	a := &asset.Asset{
		ID:             m.ID,
		RequestID:      m.RequestID,
		OwnerID:        m.OwnerID,
		Code:           m.Code,
		Name:           m.Name,
		Category:       m.Category,
		Color:          str(m.Color),
		Location:       str(m.Location),
		Acquisition:    asset.Acquisition(m.Acquisition),
		Supplier:       str(m.Supplier),
		Cost:           toDecimalPtr(m.Cost),
		PurchaseDate:   m.PurchaseDate,
		Status:         asset.Status(m.Status),
		StatusNote:     str(m.StatusNote),
		ReceiptProof:   str(m.ReceiptProof),
		ConditionProof: str(m.ConditionProof),
		Maintenance:    toDomainMaintenance(m.Maintenance),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.CreatedBy != nil {
		a.CreatedBy = *m.CreatedBy
	}
	return a
}

func ToDBAsset(a *asset.Asset) *models.Asset {
	m := &models.Asset{
		ID:             a.ID,
		RequestID:      a.RequestID,
		OwnerID:        a.OwnerID,
		Code:           a.Code,
		Name:           a.Name,
		Category:       a.Category,
		Color:          nullStr(a.Color),
		Location:       nullStr(a.Location),
		Acquisition:    string(a.Acquisition),
		Supplier:       nullStr(a.Supplier),
		Cost:           toNullDecimal(a.Cost),
		PurchaseDate:   a.PurchaseDate,
		Status:         string(a.Status),
		StatusNote:     nullStr(a.StatusNote),
		ReceiptProof:   nullStr(a.ReceiptProof),
		ConditionProof: nullStr(a.ConditionProof),
		Maintenance:    toDBMaintenance(a.Maintenance),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if a.CreatedBy != 0 {
		by := a.CreatedBy
		m.CreatedBy = &by
	}
	return m
}

func ToDomainProcurement(m *models.Procurement) *procurement.Procurement {
	return &procurement.Procurement{
		ID:            m.ID,
		RequestID:     m.RequestID,
		PurchaserID:   m.PurchaserID,
		PurchaserName: m.PurchaserName,
		PurchaseDate:  m.PurchaseDate,
		Amount:        m.Amount,
		Supplier:      str(m.Supplier),
		Notes:         str(m.Notes),
		CreatedAt:     m.CreatedAt,
	}
}
