package request

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/guard"
)

// Maintenance is the repair/replacement sub-state shared by a request and
// every asset linked to it.
type Maintenance struct {
	Status          MaintenanceStatus
	Type            MaintenanceType
	Note            string
	RequestedBy     *int64
	RequestedAt     *time.Time
	StartedBy       *int64
	StartedAt       *time.Time
	CompletedBy     *int64
	CompletedAt     *time.Time
	CompletionNotes string
}

// Active reports a maintenance that is pending or in progress.
func (m Maintenance) Active() bool {
	return m.Status == MaintenancePending || m.Status == MaintenanceInProgress
}

func (m *Maintenance) Open(typ MaintenanceType, note string, by int64, now time.Time) {
	*m = Maintenance{
		Status:      MaintenancePending,
		Type:        typ,
		Note:        note,
		RequestedBy: &by,
		RequestedAt: &now,
	}
}

func (m *Maintenance) Start(by int64, now time.Time) {
	m.Status = MaintenanceInProgress
	m.StartedBy = &by
	m.StartedAt = &now
}

func (m *Maintenance) Complete(by int64, notes string, now time.Time) {
	m.Status = MaintenanceCompleted
	m.CompletedBy = &by
	m.CompletedAt = &now
	m.CompletionNotes = notes
}

type Request struct {
	ID            int64
	UserID        int64
	UserName      string
	ItemName      string
	Quantity      int
	EstimatedCost decimal.Decimal
	ActualCost    *decimal.Decimal
	Category      string
	Reason        string
	Status        Status
	GANote        string
	DecidedBy     *int64
	DecidedAt     *time.Time
	Maintenance   Maintenance
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func New(userID int64, itemName string, quantity int, category string) *Request {
	return &Request{
		UserID:      userID,
		ItemName:    itemName,
		Quantity:    quantity,
		Category:    category,
		Status:      StatusPending,
		Maintenance: Maintenance{Status: MaintenanceNone},
	}
}

// CanEdit allows the owner to change or delete a request until it is decided.
func (r *Request) CanEdit(callerID int64) guard.Result {
	if r.UserID != callerID {
		return guard.Deny(ErrNotOwner)
	}
	if r.Status != StatusPending {
		return guard.Deny(&TransitionError{Op: OpEdit, Current: string(r.Status)})
	}
	return guard.Allow()
}

func (r *Request) CanDecide(op Operation) guard.Result {
	if r.Status != StatusPending {
		return guard.Deny(&TransitionError{Op: op, Current: string(r.Status)})
	}
	return guard.Allow()
}

func (r *Request) Approve(by int64, note string, now time.Time) error {
	if err := r.CanDecide(OpApprove).Err(); err != nil {
		return err
	}
	r.Status = StatusApproved
	r.GANote = note
	r.DecidedBy = &by
	r.DecidedAt = &now
	return nil
}

func (r *Request) Reject(by int64, note string, now time.Time) error {
	if err := r.CanDecide(OpReject).Err(); err != nil {
		return err
	}
	if note == "" {
		return ErrNoteRequired
	}
	r.Status = StatusRejected
	r.GANote = note
	r.DecidedBy = &by
	r.DecidedAt = &now
	return nil
}

// MarkPurchased records that procurement bought the item; it now awaits
// delivery.
func (r *Request) MarkPurchased(amount decimal.Decimal) {
	r.Status = StatusNotReceived
	total := amount
	if r.ActualCost != nil {
		total = r.ActualCost.Add(amount)
	}
	r.ActualCost = &total
}

// OpenMaintenance moves the request back into the procurement pipeline.
// Eligibility depends on the linked assets and is checked by the caller.
func (r *Request) OpenMaintenance(typ MaintenanceType, note string, by int64, now time.Time) {
	r.Maintenance.Open(typ, note, by, now)
	r.Status = StatusProcurement
}

func (r *Request) StartMaintenance(by int64, now time.Time) error {
	if r.Maintenance.Status != MaintenancePending {
		return &TransitionError{Op: OpStartMaintenance, Current: string(r.Maintenance.Status)}
	}
	r.Maintenance.Start(by, now)
	return nil
}

func (r *Request) CompleteMaintenance(by int64, notes string, now time.Time) error {
	if r.Maintenance.Status != MaintenanceInProgress {
		return &TransitionError{Op: OpCompleteMaintenance, Current: string(r.Maintenance.Status)}
	}
	r.Maintenance.Complete(by, notes, now)
	r.Status = StatusReceived
	return nil
}
