package todo

import "github.com/jacksonlee411/office-ops/pkg/serrors"

var (
	ErrNotFound          = serrors.NewError(serrors.KindNotFound, "TODO_NOT_FOUND", "todo not found")
	ErrInvalidTransition = serrors.NewError(serrors.KindConflict, "TODO_INVALID_TRANSITION", "operation not allowed in current status")
	ErrEvidenceRequired  = serrors.NewError(serrors.KindValidation, "TODO_EVIDENCE_REQUIRED", "evidence required")
	ErrHoldNoteRequired  = serrors.NewError(serrors.KindValidation, "TODO_HOLD_NOTE_REQUIRED", "hold note required")
	ErrCompleted         = serrors.NewError(serrors.KindConflict, "TODO_COMPLETED", "completed todo cannot be edited")
	ErrRecurrenceLocked  = serrors.NewError(serrors.KindConflict, "TODO_RECURRENCE_LOCKED", "recurrence cannot change once instances exist")
	ErrInvalidRecurrence = serrors.NewError(serrors.KindValidation, "TODO_INVALID_RECURRENCE", "invalid recurrence")
	ErrNotOwner          = serrors.NewError(serrors.KindForbidden, "TODO_NOT_OWNER", "todo belongs to another user")
	ErrNoTargetUsers     = serrors.NewError(serrors.KindValidation, "TODO_NO_TARGET_USERS", "no users match the routine target")
	ErrEvidenceStorage   = serrors.NewError(serrors.KindStorage, "TODO_EVIDENCE_STORAGE", "failed to store evidence")
)
