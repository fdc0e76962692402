package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func Cors(allowOrigins ...string) mux.MiddlewareFunc {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowOrigins,
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type",
			"X-Request-ID",
			HeaderUserID,
			HeaderUserName,
			HeaderUserRole,
			HeaderUserCategory,
		},
		ExposedHeaders: []string{"X-Request-Id", "X-Trace-Id"},
	})
	return c.Handler
}
