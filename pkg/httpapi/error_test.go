package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

func TestWriteServiceError(t *testing.T) {
	errConflict := serrors.NewError(serrors.KindConflict, "TODO_INVALID_TRANSITION", "cannot start todo in status completed")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"conflict", errConflict, http.StatusConflict, "TODO_INVALID_TRANSITION", "cannot start todo in status completed"},
		{"wrapped conflict", fmt.Errorf("evaluate: %w", errConflict), http.StatusConflict, "TODO_INVALID_TRANSITION", "cannot start todo in status completed"},
		{"validation", serrors.ValidationErrors{"note": "is required"}.AsError(), http.StatusUnprocessableEntity, "VALIDATION_FAILED", ""},
		{"not found", serrors.NewError(serrors.KindNotFound, "TODO_NOT_FOUND", "todo not found"), http.StatusNotFound, "TODO_NOT_FOUND", "todo not found"},
		{"forbidden", serrors.NewError(serrors.KindForbidden, "FORBIDDEN", "not allowed"), http.StatusForbidden, "FORBIDDEN", "not allowed"},
		{"plain error", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
		{"storage", serrors.NewError(serrors.KindStorage, "EVIDENCE_STORE_FAILED", "disk full"), http.StatusInternalServerError, "EVIDENCE_STORE_FAILED", "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := composables.WithRequestID(context.Background(), "req-1")
			rec := httptest.NewRecorder()
			WriteServiceError(ctx, rec, tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.wantCode, body.Code)
			if tt.wantMsg != "" {
				require.Equal(t, tt.wantMsg, body.Message)
			}
			require.Equal(t, "req-1", body.Meta["request_id"])
		})
	}
}

func TestWriteServiceError_ValidationMetaCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(context.Background(), rec, serrors.ValidationErrors{"hold_note": "is required"}.AsError())

	var body ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "is required", body.Meta["hold_note"])
}
