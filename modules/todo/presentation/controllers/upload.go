package controllers

import (
	"net/http"
	"strings"

	"github.com/jacksonlee411/office-ops/pkg/serrors"
	"github.com/jacksonlee411/office-ops/pkg/upload"
)

var ErrInvalidUpload = serrors.NewError(serrors.KindValidation, "INVALID_UPLOAD", "multipart body could not be read")

// UploadLimits bounds multipart evidence submissions.
type UploadLimits struct {
	MaxSize   int64
	MaxMemory int64
}

// evidenceFiles reads the "evidence" parts of a multipart request. Requests
// that are not multipart carry no files.
func evidenceFiles(w http.ResponseWriter, r *http.Request, limits UploadLimits) ([]upload.File, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, noop, nil
	}
	if limits.MaxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSize)
	}
	if err := r.ParseMultipartForm(limits.MaxMemory); err != nil {
		return nil, noop, ErrInvalidUpload.Wrap(err)
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }
	files, err := upload.FromRequest(r, "evidence")
	if err != nil {
		cleanup()
		return nil, noop, ErrInvalidUpload.Wrap(err)
	}
	return files, cleanup, nil
}
