package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Note string `json:"note"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"note":"x","extra":1}`))
	require.ErrorIs(t, DecodeJSON(r, &dst), ErrInvalidJSON)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"note":"x"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	require.Equal(t, "x", dst.Note)
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	id, err := PathID(r, "id")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	r = mux.SetURLVars(r, map[string]string{"id": "-1"})
	_, err = PathID(r, "id")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestQueryInt64sAndPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?ids=1,2&ids=3&page=3&page_size=500", nil)
	ids, err := QueryInt64s(r, "ids")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, ids)

	limit, offset := Page(r, 25, 100)
	require.Equal(t, 100, limit)
	require.Equal(t, 200, offset)
}
