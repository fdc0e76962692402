package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

type DataEnvelope struct {
	Data any `json:"data"`
}

type ListEnvelope struct {
	Data  any `json:"data"`
	Total int `json:"total"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind serrors.Kind) int {
	switch kind {
	case serrors.KindValidation:
		return http.StatusUnprocessableEntity
	case serrors.KindConflict:
		return http.StatusConflict
	case serrors.KindForbidden:
		return http.StatusForbidden
	case serrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError renders err as an ErrorEnvelope. Errors that are not
// coded, or that are internal or storage failures, are logged and rendered
// with a generic message.
func WriteServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	requestID := composables.UseRequestID(ctx)
	logger := composables.UseLogger(ctx)

	var be *serrors.BaseError
	if !errors.As(err, &be) || be.Kind == serrors.KindInternal || be.Kind == serrors.KindStorage || be.Kind == "" {
		logger.WithError(err).Error("request failed")
		code := "INTERNAL_ERROR"
		status := http.StatusInternalServerError
		if be != nil && be.Kind == serrors.KindStorage {
			code = be.Code
		}
		_ = WriteError(w, status, code, "internal server error", map[string]string{"request_id": requestID})
		return
	}

	meta := make(map[string]string, len(be.Meta)+1)
	for k, v := range be.Meta {
		meta[k] = v
	}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	logger.WithError(err).WithField("code", be.Code).Debug("request rejected")
	_ = WriteError(w, StatusFor(be.Kind), be.Code, be.Message, meta)
}
