package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/httpapi"
)

const (
	HeaderUserID       = "X-User-ID"
	HeaderUserName     = "X-User-Name"
	HeaderUserRole     = "X-User-Role"
	HeaderUserCategory = "X-User-Category"
)

var knownRoles = map[string]bool{
	composables.RoleAdmin:       true,
	composables.RoleGA:          true,
	composables.RoleProcurement: true,
	composables.RoleUser:        true,
}

// ProvideCaller reads the identity headers set by the authenticating proxy.
// Requests without them pass through anonymous.
func ProvideCaller() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if rawID == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil || id <= 0 {
				_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_CALLER", "invalid "+HeaderUserID+" header", nil)
				return
			}
			role := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole)))
			if role == "" {
				role = composables.RoleUser
			}
			if !knownRoles[role] {
				_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_CALLER", "unknown role "+role, nil)
				return
			}
			caller := composables.Caller{
				UserID:   id,
				Name:     strings.TrimSpace(r.Header.Get(HeaderUserName)),
				Role:     role,
				Category: strings.TrimSpace(r.Header.Get(HeaderUserCategory)),
			}
			ctx := composables.WithCaller(r.Context(), caller)
			ctx = composables.WithLogger(ctx, composables.UseLogger(ctx).WithField("user-id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCaller rejects anonymous requests with 401.
func RequireCaller() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := composables.UseCaller(r.Context()); err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "caller identity required", map[string]string{
					"request_id": composables.UseRequestID(r.Context()),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
