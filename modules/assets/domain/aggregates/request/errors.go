package request

import (
	"fmt"

	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

var (
	ErrNotFound          = serrors.NewError(serrors.KindNotFound, "REQUEST_NOT_FOUND", "request not found")
	ErrInvalidTransition = serrors.NewError(serrors.KindConflict, "REQUEST_INVALID_TRANSITION", "operation not allowed in current status")
	ErrNotOwner          = serrors.NewError(serrors.KindForbidden, "REQUEST_NOT_OWNER", "request belongs to another user")
	ErrNoteRequired      = serrors.NewError(serrors.KindValidation, "REQUEST_NOTE_REQUIRED", "a note is required")
	ErrMaintenanceActive = serrors.NewError(serrors.KindConflict, "REQUEST_MAINTENANCE_ACTIVE", "maintenance already pending or in progress")
	ErrNotEligible       = serrors.NewError(serrors.KindConflict, "REQUEST_MAINTENANCE_NOT_ELIGIBLE", "request has no received asset")
)

type Operation string

const (
	OpEdit                Operation = "edit"
	OpApprove             Operation = "approve"
	OpReject              Operation = "reject"
	OpPurchase            Operation = "purchase"
	OpRequestMaintenance  Operation = "request_maintenance"
	OpStartMaintenance    Operation = "start_maintenance"
	OpCompleteMaintenance Operation = "complete_maintenance"
)

// TransitionError reports an operation invoked outside its precondition.
// Current holds the request status, or the maintenance status for the
// maintenance operations.
type TransitionError struct {
	Op      Operation
	Current string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s request in status %s", e.Op, e.Current)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition.WithMessage("%s", e.Error()).WithMeta(map[string]string{
		"operation": string(e.Op),
		"status":    e.Current,
	})
}
