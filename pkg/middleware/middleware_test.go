package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/pkg/composables"
)

func newRouter(mws ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(mws...)
	return r
}

func TestWithLogger_RecoversPanicAsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	r := newRouter(WithLogger(logger, DefaultLoggerOptions()))
	r.HandleFunc("/api/todos", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INTERNAL_SERVER_ERROR", body["code"])
	require.Contains(t, buf.String(), "panic recovered in request handler")
}

func TestWithLogger_ProvidesRequestScope(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	r := newRouter(WithLogger(logger, DefaultLoggerOptions()))
	var gotID string
	r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		gotID = composables.UseRequestID(r.Context())
		require.Equal(t, gotID, composables.UseLogger(r.Context()).Data["request-id"])
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotEmpty(t, gotID)
}

func TestProvideCaller(t *testing.T) {
	r := newRouter(ProvideCaller())
	api := r.PathPrefix("/api").Subrouter()
	api.Use(RequireCaller())
	var got composables.Caller
	api.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		got, _ = composables.UseCaller(r.Context())
	})

	t.Run("anonymous is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("headers become caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set(HeaderUserID, "12")
		req.Header.Set(HeaderUserName, "Sari")
		req.Header.Set(HeaderUserRole, "GA")
		req.Header.Set(HeaderUserCategory, "staff")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, composables.Caller{UserID: 12, Name: "Sari", Role: "ga", Category: "staff"}, got)
	})

	t.Run("bad id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set(HeaderUserID, "abc")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set(HeaderUserID, "3")
		req.Header.Set(HeaderUserRole, "root")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	r := newRouter(RateLimit(RateLimitConfig{
		RequestsPerPeriod: 2,
		KeyFunc:           func(*http.Request) string { return "fixed" },
	}))
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore("not a url")
	require.Error(t, err)
}
