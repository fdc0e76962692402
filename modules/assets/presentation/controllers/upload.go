package controllers

import (
	"net/http"
	"strings"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/httpapi"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
	"github.com/jacksonlee411/office-ops/pkg/upload"
)

var ErrInvalidUpload = serrors.NewError(serrors.KindValidation, "INVALID_UPLOAD", "multipart body could not be read")

const proofField = "proof"

// UploadLimits bounds multipart proof submissions.
type UploadLimits struct {
	MaxSize   int64
	MaxMemory int64
}

// statusRequest reads a status change. Multipart bodies carry the status
// fields as form values next to an optional "proof" file; any other body is
// decoded as JSON without files.
func statusRequest(w http.ResponseWriter, r *http.Request, limits UploadLimits) (*asset.StatusDTO, []upload.File, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var dto asset.StatusDTO
		if err := httpapi.DecodeJSON(r, &dto); err != nil {
			return nil, nil, noop, err
		}
		return &dto, nil, noop, nil
	}
	if limits.MaxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSize)
	}
	if err := r.ParseMultipartForm(limits.MaxMemory); err != nil {
		return nil, nil, noop, ErrInvalidUpload.Wrap(err)
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }
	dto, err := composables.UseForm(&asset.StatusDTO{}, r)
	if err != nil {
		cleanup()
		return nil, nil, noop, serrors.ErrValidation.Wrap(err)
	}
	files, err := upload.FromRequest(r, proofField)
	if err != nil {
		cleanup()
		return nil, nil, noop, ErrInvalidUpload.Wrap(err)
	}
	return dto, files, cleanup, nil
}
