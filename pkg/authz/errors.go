package authz

import (
	"fmt"

	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

var ErrForbidden = serrors.NewError(serrors.KindForbidden, "AUTHZ_FORBIDDEN", "permission denied")

// forbiddenError builds a standardized error for denied policies.
func forbiddenError(req Request) *serrors.BaseError {
	return ErrForbidden.WithMeta(map[string]string{
		"object": req.Object,
		"action": req.Action,
	})
}

// configError standardizes configuration validation errors.
func configError(msg string, args ...any) error {
	return fmt.Errorf("authz: "+msg, args...)
}
