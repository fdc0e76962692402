package asset

import "github.com/jacksonlee411/office-ops/pkg/serrors"

var (
	ErrNotFound          = serrors.NewError(serrors.KindNotFound, "ASSET_NOT_FOUND", "asset not found")
	ErrInvalidStatus     = serrors.NewError(serrors.KindValidation, "ASSET_INVALID_STATUS", "status cannot be set directly")
	ErrPrivilegedStatus  = serrors.NewError(serrors.KindForbidden, "ASSET_PRIVILEGED_STATUS", "only procurement can set this status")
	ErrNotOwner          = serrors.NewError(serrors.KindForbidden, "ASSET_NOT_OWNER", "asset belongs to another user's request")
	ErrProofRequired     = serrors.NewError(serrors.KindValidation, "ASSET_PROOF_REQUIRED", "proof required")
	ErrProofStorage      = serrors.NewError(serrors.KindStorage, "ASSET_PROOF_STORAGE", "failed to store proof")
	ErrCodeExhausted     = serrors.NewError(serrors.KindConflict, "ASSET_CODE_EXHAUSTED", "could not allocate a free asset code")
	ErrDuplicateCode     = serrors.NewError(serrors.KindConflict, "ASSET_DUPLICATE_CODE", "asset code already exists")
	ErrNoLinkedAsset     = serrors.NewError(serrors.KindNotFound, "ASSET_NO_LINKED_ASSET", "request has no linked asset")
	ErrTooManyProofFiles = serrors.NewError(serrors.KindValidation, "ASSET_TOO_MANY_PROOFS", "only one proof file is accepted")
)
