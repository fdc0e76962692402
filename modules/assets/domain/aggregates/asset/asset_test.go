package asset

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
)

var now = time.Date(2025, 1, 15, 9, 30, 5, 0, time.UTC)

func TestStatus_RequestStatus(t *testing.T) {
	tests := []struct {
		status Status
		want   request.Status
		ok     bool
	}{
		{StatusReceived, request.StatusReceived, true},
		{StatusNeedsRepair, request.StatusApproved, true},
		{StatusNeedsReplacement, request.StatusApproved, true},
		{StatusRepairing, request.StatusNotReceived, true},
		{StatusReplacing, request.StatusNotReceived, true},
		{StatusProcurement, "", false},
		{StatusNotReceived, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got, ok := tt.status.RequestStatus()
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCanChangeStatus(t *testing.T) {
	tests := []struct {
		name    string
		ctx     StatusChangeContext
		wantErr error
	}{
		{"owner receipt with proof", StatusChangeContext{Target: StatusReceived, CallerID: 7, OwnerID: 7, HasProof: true}, nil},
		{"owner receipt without proof", StatusChangeContext{Target: StatusReceived, CallerID: 7, OwnerID: 7}, ErrProofRequired},
		{"owner condition without proof", StatusChangeContext{Target: StatusNeedsRepair, CallerID: 7, OwnerID: 7}, ErrProofRequired},
		{"stranger", StatusChangeContext{Target: StatusReceived, CallerID: 8, OwnerID: 7, HasProof: true}, ErrNotOwner},
		{"no parent request", StatusChangeContext{Target: StatusReceived, CallerID: 7, HasProof: true}, ErrNotOwner},
		{"owner repairing", StatusChangeContext{Target: StatusRepairing, CallerID: 7, OwnerID: 7}, ErrPrivilegedStatus},
		{"privileged repairing", StatusChangeContext{Target: StatusReplacing, CallerID: 2, OwnerID: 7, Privileged: true}, nil},
		{"privileged without proof", StatusChangeContext{Target: StatusReceived, CallerID: 2, OwnerID: 7, Privileged: true}, nil},
		{"not settable", StatusChangeContext{Target: StatusProcurement, CallerID: 2, Privileged: true}, ErrInvalidStatus},
		{"unknown", StatusChangeContext{Target: "lost", CallerID: 7, OwnerID: 7}, ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CanChangeStatus(tt.ctx)
			if tt.wantErr == nil {
				require.True(t, res.Allowed, res.Reason)
				require.NoError(t, res.Err())
				return
			}
			require.False(t, res.Allowed)
			require.ErrorIs(t, res.Err(), tt.wantErr)
			require.NotEmpty(t, res.Reason)
		})
	}
}

func TestCanRequestMaintenance(t *testing.T) {
	req := func(s request.Status) *request.Request {
		r := request.New(7, "Printer", 1, "Office Equipment")
		r.Status = s
		return r
	}
	received := &Asset{Code: "OE-01152025-000001", Status: StatusReceived}
	pending := &Asset{Code: "OE-01152025-000002", Status: StatusNotReceived}

	require.True(t, CanRequestMaintenance(req(request.StatusApproved), []*Asset{pending, received}).Allowed)
	require.True(t, CanRequestMaintenance(req(request.StatusCompleted), nil).Allowed)

	res := CanRequestMaintenance(req(request.StatusNotReceived), []*Asset{pending})
	require.ErrorIs(t, res.Err(), request.ErrNotEligible)

	busy := &Asset{Code: "OE-01152025-000003", Status: StatusReceived}
	busy.Maintenance.Status = request.MaintenanceInProgress
	res = CanRequestMaintenance(req(request.StatusReceived), []*Asset{received, busy})
	require.ErrorIs(t, res.Err(), request.ErrMaintenanceActive)
	require.Contains(t, res.Reason, busy.Code)

	r := req(request.StatusReceived)
	r.Maintenance.Status = request.MaintenancePending
	require.ErrorIs(t, CanRequestMaintenance(r, []*Asset{received}).Err(), request.ErrMaintenanceActive)
}

func TestAsset_SetStatusReplacesMatchingProof(t *testing.T) {
	a := &Asset{Status: StatusNotReceived, ReceiptProof: "proofs/old.png"}
	replaced := a.SetStatus(StatusReceived, "proofs/new.png", "arrived")
	require.Equal(t, "proofs/old.png", replaced)
	require.Equal(t, "proofs/new.png", a.ReceiptProof)
	require.Equal(t, "arrived", a.StatusNote)

	replaced = a.SetStatus(StatusNeedsRepair, "proofs/crack.jpg", "")
	require.Empty(t, replaced)
	require.Equal(t, "proofs/crack.jpg", a.ConditionProof)
	require.Equal(t, "arrived", a.StatusNote)
	require.ElementsMatch(t, []string{"proofs/new.png", "proofs/crack.jpg"}, a.Proofs())

	require.Empty(t, a.SetStatus(StatusRepairing, "", ""))
	require.Equal(t, StatusRepairing, a.Status)
}

func TestFromRequest(t *testing.T) {
	r := request.New(7, "Laptop", 1, "IT Equipment")
	r.ID = 42
	r.EstimatedCost = decimal.NewFromInt(15000000)
	a := FromRequest(r, "OE-01152025-000001", 3)
	require.Equal(t, int64(42), *a.RequestID)
	require.Equal(t, int64(7), *a.OwnerID)
	require.Equal(t, StatusProcurement, a.Status)
	require.Equal(t, AcquisitionPurchasing, a.Acquisition)
	require.True(t, a.Cost.Equal(decimal.NewFromInt(15000000)))
}

func TestAsset_MaintenanceFanOut(t *testing.T) {
	a := &Asset{Status: StatusReceived}
	a.OpenMaintenance(request.MaintenanceReplacement, "broken screen", 7, now)
	require.Equal(t, StatusNeedsReplacement, a.Status)
	require.Equal(t, request.MaintenancePending, a.Maintenance.Status)

	a.StartMaintenance(3, now)
	require.Equal(t, request.MaintenanceInProgress, a.Maintenance.Status)
	require.Equal(t, StatusNeedsReplacement, a.Status)

	a.CompleteMaintenance(3, "swapped", now)
	require.Equal(t, StatusReceived, a.Status)
	require.Equal(t, request.MaintenanceCompleted, a.Maintenance.Status)
}

func TestProofPath(t *testing.T) {
	require.Equal(t, "proofs/2025-01-15/asset_9/receipt_20250115_093005.jpg", ProofPath(9, ProofReceipt, now, ".jpg"))
}

func TestCreateDTO(t *testing.T) {
	d := &CreateDTO{DetailsDTO: DetailsDTO{Name: " Projector ", Category: "Electronics", PurchaseDate: "2025-01-10"}}
	_, ok := d.Ok()
	require.True(t, ok)
	a := d.ToEntity("EL-01152025-000001", 1, time.UTC)
	require.Equal(t, "Projector", a.Name)
	require.Equal(t, StatusNotReceived, a.Status)
	require.Equal(t, AcquisitionDataInput, a.Acquisition)
	require.Equal(t, request.MaintenanceNone, a.Maintenance.Status)
	require.Equal(t, 10, a.PurchaseDate.Day())

	d = &CreateDTO{DetailsDTO: DetailsDTO{Name: "x", Category: "y"}, Status: "lost"}
	errs, ok := d.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "status")

	d = &CreateDTO{DetailsDTO: DetailsDTO{Name: "x", Category: "y"}, Acquisition: "purchasing"}
	errs, ok = d.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "request_id")

	id := int64(4)
	d = &CreateDTO{DetailsDTO: DetailsDTO{Name: "x", Category: "y"}, Acquisition: "purchasing", RequestID: &id}
	_, ok = d.Ok()
	require.True(t, ok)
}
