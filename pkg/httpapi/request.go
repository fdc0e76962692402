package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

var (
	ErrInvalidJSON = serrors.NewError(serrors.KindValidation, "INVALID_JSON", "request body is not valid json")
	ErrInvalidID   = serrors.NewError(serrors.KindValidation, "INVALID_ID", "invalid id")
)

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return ErrInvalidJSON.Wrap(err)
	}
	return nil
}

// PathID parses the named mux variable as a positive int64.
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID.WithMeta(map[string]string{name: raw})
	}
	return id, nil
}

// QueryInt64s parses a comma separated or repeated query parameter.
func QueryInt64s(r *http.Request, name string) ([]int64, error) {
	var out []int64
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, ErrInvalidID.WithMeta(map[string]string{name: part})
			}
			out = append(out, id)
		}
	}
	return out, nil
}

// Page reads page/page_size query parameters.
func Page(r *http.Request, defaultSize, maxSize int) (limit, offset int) {
	size := defaultSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 {
		size = v
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	return size, (page - 1) * size
}
