package request

type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusProcurement Status = "procurement"
	StatusNotReceived Status = "not_received"
	StatusReceived    Status = "received"
	StatusCompleted   Status = "completed"
)

func ValidStatuses() []Status {
	return []Status{
		StatusPending,
		StatusApproved,
		StatusRejected,
		StatusProcurement,
		StatusNotReceived,
		StatusReceived,
		StatusCompleted,
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

type MaintenanceStatus string

const (
	MaintenanceNone       MaintenanceStatus = "none"
	MaintenancePending    MaintenanceStatus = "maintenance_pending"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
)

type MaintenanceType string

const (
	MaintenanceRepair      MaintenanceType = "repair"
	MaintenanceReplacement MaintenanceType = "replacement"
)

func (t MaintenanceType) IsValid() bool {
	return t == MaintenanceRepair || t == MaintenanceReplacement
}
