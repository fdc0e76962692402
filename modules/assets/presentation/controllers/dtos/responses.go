package dtos

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/procurement"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/pkg/money"
)

type MaintenanceResponse struct {
	Status          string     `json:"status"`
	Type            string     `json:"type,omitempty"`
	Note            string     `json:"note,omitempty"`
	RequestedBy     *int64     `json:"requested_by,omitempty"`
	RequestedAt     *time.Time `json:"requested_at,omitempty"`
	StartedBy       *int64     `json:"started_by,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedBy     *int64     `json:"completed_by,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
}

func toMaintenanceResponse(m request.Maintenance) MaintenanceResponse {
	return MaintenanceResponse{
		Status:          string(m.Status),
		Type:            string(m.Type),
		Note:            m.Note,
		RequestedBy:     m.RequestedBy,
		RequestedAt:     m.RequestedAt,
		StartedBy:       m.StartedBy,
		StartedAt:       m.StartedAt,
		CompletedBy:     m.CompletedBy,
		CompletedAt:     m.CompletedAt,
		CompletionNotes: m.CompletionNotes,
	}
}

type RequestResponse struct {
	ID                   int64               `json:"id"`
	UserID               int64               `json:"user_id"`
	UserName             string              `json:"user_name,omitempty"`
	ItemName             string              `json:"item_name"`
	Quantity             int                 `json:"quantity"`
	EstimatedCost        decimal.Decimal     `json:"estimated_cost"`
	EstimatedCostDisplay string              `json:"estimated_cost_display"`
	ActualCost           *decimal.Decimal    `json:"actual_cost"`
	ActualCostDisplay    string              `json:"actual_cost_display,omitempty"`
	Category             string              `json:"category"`
	Reason               string              `json:"reason,omitempty"`
	Status               string              `json:"status"`
	GANote               string              `json:"ga_note,omitempty"`
	DecidedBy            *int64              `json:"decided_by,omitempty"`
	DecidedAt            *time.Time          `json:"decided_at,omitempty"`
	Maintenance          MaintenanceResponse `json:"maintenance"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

func ToRequestResponse(r *request.Request, currency string) RequestResponse {
	return RequestResponse{
		ID:                   r.ID,
		UserID:               r.UserID,
		UserName:             r.UserName,
		ItemName:             r.ItemName,
		Quantity:             r.Quantity,
		EstimatedCost:        r.EstimatedCost,
		EstimatedCostDisplay: money.Display(r.EstimatedCost, currency),
		ActualCost:           r.ActualCost,
		ActualCostDisplay:    money.DisplayPtr(r.ActualCost, currency),
		Category:             r.Category,
		Reason:               r.Reason,
		Status:               string(r.Status),
		GANote:               r.GANote,
		DecidedBy:            r.DecidedBy,
		DecidedAt:            r.DecidedAt,
		Maintenance:          toMaintenanceResponse(r.Maintenance),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func ToRequestResponses(rs []*request.Request, currency string) []RequestResponse {
	out := make([]RequestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, ToRequestResponse(r, currency))
	}
	return out
}

type AssetResponse struct {
	ID             int64               `json:"id"`
	RequestID      *int64              `json:"request_id"`
	OwnerID        *int64              `json:"owner_id,omitempty"`
	Code           string              `json:"asset_code"`
	Name           string              `json:"name"`
	Category       string              `json:"category"`
	Color          string              `json:"color,omitempty"`
	Location       string              `json:"location,omitempty"`
	Acquisition    string              `json:"acquisition"`
	Supplier       string              `json:"supplier,omitempty"`
	Cost           *decimal.Decimal    `json:"cost"`
	CostDisplay    string              `json:"cost_display,omitempty"`
	PurchaseDate   string              `json:"purchase_date,omitempty"`
	Status         string              `json:"status"`
	StatusNote     string              `json:"status_note,omitempty"`
	ReceiptProof   string              `json:"receipt_proof,omitempty"`
	ConditionProof string              `json:"condition_proof,omitempty"`
	Maintenance    MaintenanceResponse `json:"maintenance"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func ToAssetResponse(a *asset.Asset, currency string) AssetResponse {
	out := AssetResponse{
		ID:             a.ID,
		RequestID:      a.RequestID,
		OwnerID:        a.OwnerID,
		Code:           a.Code,
		Name:           a.Name,
		Category:       a.Category,
		Color:          a.Color,
		Location:       a.Location,
		Acquisition:    string(a.Acquisition),
		Supplier:       a.Supplier,
		Cost:           a.Cost,
		CostDisplay:    money.DisplayPtr(a.Cost, currency),
		Status:         string(a.Status),
		StatusNote:     a.StatusNote,
		ReceiptProof:   a.ReceiptProof,
		ConditionProof: a.ConditionProof,
		Maintenance:    toMaintenanceResponse(a.Maintenance),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if a.PurchaseDate != nil {
		out.PurchaseDate = a.PurchaseDate.Format(time.DateOnly)
	}
	return out
}

func ToAssetResponses(as []*asset.Asset, currency string) []AssetResponse {
	out := make([]AssetResponse, 0, len(as))
	for _, a := range as {
		out = append(out, ToAssetResponse(a, currency))
	}
	return out
}

type ApproveResponse struct {
	Request RequestResponse `json:"request"`
	Asset   AssetResponse   `json:"asset"`
}

type MaintenanceChangeResponse struct {
	Request RequestResponse `json:"request"`
	Assets  []AssetResponse `json:"assets"`
}

type ProcurementResponse struct {
	ID            int64           `json:"id"`
	RequestID     int64           `json:"request_id"`
	PurchaserID   int64           `json:"purchaser_id"`
	PurchaserName string          `json:"purchaser_name,omitempty"`
	PurchaseDate  string          `json:"purchase_date"`
	Amount        decimal.Decimal `json:"amount"`
	AmountDisplay string          `json:"amount_display"`
	Supplier      string          `json:"supplier,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func ToProcurementResponse(p *procurement.Procurement, currency string) ProcurementResponse {
	return ProcurementResponse{
		ID:            p.ID,
		RequestID:     p.RequestID,
		PurchaserID:   p.PurchaserID,
		PurchaserName: p.PurchaserName,
		PurchaseDate:  p.PurchaseDate.Format(time.DateOnly),
		Amount:        p.Amount,
		AmountDisplay: money.Display(p.Amount, currency),
		Supplier:      p.Supplier,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

func ToProcurementResponses(ps []*procurement.Procurement, currency string) []ProcurementResponse {
	out := make([]ProcurementResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToProcurementResponse(p, currency))
	}
	return out
}

type NextCodeResponse struct {
	Category string `json:"category"`
	Code     string `json:"asset_code"`
}

type OrphansResponse struct {
	Removed []string `json:"removed"`
}
