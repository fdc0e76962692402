package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

var (
	ErrUnsupportedType = serrors.NewError(serrors.KindValidation, "UPLOAD_UNSUPPORTED_TYPE", "only images and PDF documents are accepted")
	ErrEmptyFile       = serrors.NewError(serrors.KindValidation, "UPLOAD_EMPTY_FILE", "uploaded file is empty")
	ErrTooManyFiles    = serrors.NewError(serrors.KindValidation, "UPLOAD_TOO_MANY_FILES", "too many files")
)

// File is an uploaded blob held in memory.
type File struct {
	Name string
	Data []byte
}

// Document is a validated upload with its detected type.
type Document struct {
	File
	MIME      string
	Extension string
}

// Inspect detects the content type from the bytes, ignoring the client name.
// Only image/* and application/pdf are accepted.
func Inspect(f File) (Document, error) {
	if len(f.Data) == 0 {
		return Document{}, ErrEmptyFile.WithMeta(map[string]string{"file": f.Name})
	}
	m := mimetype.Detect(f.Data)
	if !m.Is("application/pdf") && !strings.HasPrefix(m.String(), "image/") {
		return Document{}, ErrUnsupportedType.WithMeta(map[string]string{
			"file": f.Name,
			"type": m.String(),
		})
	}
	return Document{File: f, MIME: m.String(), Extension: m.Extension()}, nil
}

// InspectAll validates every file and caps the count at limit.
func InspectAll(files []File, limit int) ([]Document, error) {
	if limit > 0 && len(files) > limit {
		return nil, ErrTooManyFiles.WithMessage("at most %d files may be uploaded", limit)
	}
	out := make([]Document, 0, len(files))
	for _, f := range files {
		doc, err := Inspect(f)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// FromRequest reads every file under field from a parsed multipart form.
func FromRequest(r *http.Request, field string) ([]File, error) {
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	out := make([]File, 0, len(headers))
	for _, h := range headers {
		f, err := read(h)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func read(h *multipart.FileHeader) (File, error) {
	src, err := h.Open()
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", h.Filename, err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", h.Filename, err)
	}
	return File{Name: h.Filename, Data: data}, nil
}
