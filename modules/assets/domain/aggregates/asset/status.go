package asset

import "github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"

type Status string

const (
	StatusProcurement      Status = "procurement"
	StatusNotReceived      Status = "not_received"
	StatusReceived         Status = "received"
	StatusNeedsRepair      Status = "needs_repair"
	StatusNeedsReplacement Status = "needs_replacement"
	StatusRepairing        Status = "repairing"
	StatusReplacing        Status = "replacing"
)

func ValidStatuses() []Status {
	return []Status{
		StatusProcurement,
		StatusNotReceived,
		StatusReceived,
		StatusNeedsRepair,
		StatusNeedsReplacement,
		StatusRepairing,
		StatusReplacing,
	}
}

func (s Status) IsValid() bool {
	for _, v := range ValidStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// Privileged statuses are reserved for procurement and admins.
func (s Status) Privileged() bool {
	return s == StatusRepairing || s == StatusReplacing
}

// Settable lists the statuses reachable through a status update.
func (s Status) Settable() bool {
	switch s {
	case StatusReceived, StatusNeedsRepair, StatusNeedsReplacement, StatusRepairing, StatusReplacing:
		return true
	}
	return false
}

// RequestStatus is the status the parent request takes when an asset moves
// to s.
func (s Status) RequestStatus() (request.Status, bool) {
	switch s {
	case StatusReceived:
		return request.StatusReceived, true
	case StatusNeedsRepair, StatusNeedsReplacement:
		return request.StatusApproved, true
	case StatusRepairing, StatusReplacing:
		return request.StatusNotReceived, true
	}
	return "", false
}

// StatusForMaintenance is the asset status a maintenance request of typ sets.
func StatusForMaintenance(typ request.MaintenanceType) Status {
	if typ == request.MaintenanceReplacement {
		return StatusNeedsReplacement
	}
	return StatusNeedsRepair
}

type Acquisition string

const (
	AcquisitionPurchasing Acquisition = "purchasing"
	AcquisitionDataInput  Acquisition = "data_input"
)

type Proof string

const (
	ProofNone      Proof = ""
	ProofReceipt   Proof = "receipt"
	ProofCondition Proof = "condition"
)

// RequiredProof names the proof a status change to s must carry.
func RequiredProof(s Status) Proof {
	switch s {
	case StatusReceived:
		return ProofReceipt
	case StatusNeedsRepair, StatusNeedsReplacement:
		return ProofCondition
	}
	return ProofNone
}
