package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/configuration"
	"github.com/jacksonlee411/office-ops/pkg/constants"
	"github.com/jacksonlee411/office-ops/pkg/httpapi"
	"github.com/jacksonlee411/office-ops/pkg/middleware"
	"github.com/jacksonlee411/office-ops/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	middlewares := []mux.MiddlewareFunc{
		// Creates the root span and request-scoped logger.
		middleware.WithLogger(options.Logger, middleware.DefaultLoggerOptions()),

		middleware.TracedMiddleware("database"),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),

		middleware.TracedMiddleware("cors"),
		middleware.Cors(conf.CorsOriginList()...),

		middleware.TracedMiddleware("caller"),
		middleware.ProvideCaller(),
	}

	if conf.RateLimit.Enabled {
		var store limiter.Store
		var err error

		switch conf.RateLimit.Storage {
		case "redis":
			store, err = middleware.NewRedisStore(conf.RateLimit.RedisURL)
			if err != nil {
				options.Logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
				store = middleware.NewMemoryStore()
			}
		default:
			store = middleware.NewMemoryStore()
		}

		middlewares = append(middlewares,
			middleware.TracedMiddleware("rateLimit"),
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerPeriod: conf.RateLimit.GlobalRPS,
				Store:             store,
			}),
		)
	}

	app.RegisterMiddleware(middlewares...)

	return server.NewHTTPServer(app, http.HandlerFunc(notFound), http.HandlerFunc(methodNotAllowed)), nil
}

func notFound(w http.ResponseWriter, r *http.Request) {
	_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found", map[string]string{
		"path":       r.URL.Path,
		"request_id": composables.UseRequestID(r.Context()),
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", map[string]string{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": composables.UseRequestID(r.Context()),
	})
}
