package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/office-ops/internal/server"
	"github.com/jacksonlee411/office-ops/modules"
	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/authz"
	"github.com/jacksonlee411/office-ops/pkg/configuration"
	"github.com/jacksonlee411/office-ops/pkg/eventbus"
	"github.com/jacksonlee411/office-ops/pkg/logging"
	"github.com/jacksonlee411/office-ops/pkg/metrics"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		tracingCleanup := logging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.Endpoint,
		)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to " + conf.OpenTelemetry.Endpoint)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go reloadPolicyOnHangup(runCtx, logger)
	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(runCtx, conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// reloadPolicyOnHangup re-reads AUTHZ_POLICY_PATH on SIGHUP.
func reloadPolicyOnHangup(ctx context.Context, logger *logrus.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := authz.Use().ReloadPolicy(ctx); err != nil {
				logger.WithError(err).Error("authz policy reload failed")
			}
		}
	}
}
