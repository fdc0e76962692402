package asset

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
)

type Asset struct {
	ID             int64
	RequestID      *int64
	OwnerID        *int64
	Code           string
	Name           string
	Category       string
	Color          string
	Location       string
	Acquisition    Acquisition
	Supplier       string
	Cost           *decimal.Decimal
	PurchaseDate   *time.Time
	Status         Status
	StatusNote     string
	ReceiptProof   string
	ConditionProof string
	Maintenance    request.Maintenance
	CreatedBy      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FromRequest is the placeholder asset created when r is approved.
func FromRequest(r *request.Request, code string, createdBy int64) *Asset {
	id, owner := r.ID, r.UserID
	a := &Asset{
		RequestID:   &id,
		OwnerID:     &owner,
		Code:        code,
		Name:        r.ItemName,
		Category:    r.Category,
		Acquisition: AcquisitionPurchasing,
		Status:      StatusProcurement,
		Maintenance: request.Maintenance{Status: request.MaintenanceNone},
		CreatedBy:   createdBy,
	}
	if !r.EstimatedCost.IsZero() {
		cost := r.EstimatedCost
		a.Cost = &cost
	}
	return a
}

// SetStatus moves the asset to s. A non-empty proof replaces the proof slot
// s requires and the replaced path is returned.
func (a *Asset) SetStatus(s Status, proof, note string) (replaced string) {
	a.Status = s
	if note != "" {
		a.StatusNote = note
	}
	if proof == "" {
		return ""
	}
	switch RequiredProof(s) {
	case ProofReceipt:
		replaced, a.ReceiptProof = a.ReceiptProof, proof
	case ProofCondition:
		replaced, a.ConditionProof = a.ConditionProof, proof
	}
	return replaced
}

func (a *Asset) MarkPurchased(supplier string, day time.Time) {
	a.Status = StatusNotReceived
	if supplier != "" {
		a.Supplier = supplier
	}
	a.PurchaseDate = &day
}

func (a *Asset) OpenMaintenance(typ request.MaintenanceType, note string, by int64, now time.Time) {
	a.Maintenance.Open(typ, note, by, now)
	a.Status = StatusForMaintenance(typ)
}

func (a *Asset) StartMaintenance(by int64, now time.Time) {
	a.Maintenance.Start(by, now)
}

func (a *Asset) CompleteMaintenance(by int64, notes string, now time.Time) {
	a.Maintenance.Complete(by, notes, now)
	a.Status = StatusReceived
}

func (a *Asset) Proofs() []string {
	var out []string
	for _, p := range []string{a.ReceiptProof, a.ConditionProof} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
