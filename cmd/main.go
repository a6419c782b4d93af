package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/hello-birthday/config"
	"github.com/oksasatya/hello-birthday/internal/application"
	"github.com/oksasatya/hello-birthday/internal/container"
	"github.com/oksasatya/hello-birthday/internal/domain/repository"
	"github.com/oksasatya/hello-birthday/internal/infrastructure/memory"
	"github.com/oksasatya/hello-birthday/internal/infrastructure/observer"
	pginfra "github.com/oksasatya/hello-birthday/internal/infrastructure/postgres"
	"github.com/oksasatya/hello-birthday/internal/router"
	"github.com/oksasatya/hello-birthday/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// Store: Postgres with migrations, or the in-process map
	var store interface {
		repository.UserRepository
		repository.Lister
	}
	if cfg.UsePostgres() {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
		store = pginfra.NewUserRepository(pool)
	} else {
		logger.Warn("STORE_DRIVER=memory; records are lost on restart")
		store = memory.NewUserRepository()
	}

	// Redis backs the record cache and rate limiting; both are skipped without it
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable; cache and rate limit fail open")
		}
		cancel()
		container.SetRedis(rdb)
	}

	// Outcome observers
	metrics := observer.NewMetrics()
	metrics.Publish(cfg.AppName, cfg.AppVersion, store.Count)
	observers := observer.Fanout{metrics, observer.NewLog(logger)}
	if cfg.EventsEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; outcome events disabled")
		} else {
			defer pub.Close()
			events := observer.NewRabbit(pub, logger, 256)
			defer events.Close()
			observers = append(observers, events)
		}
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetStore(store)
	container.SetObserver(application.Observer(observers))

	r := router.NewEngine(logger, router.EngineOptions{
		CORSOrigins: cfg.CORSOrigins(),
		AccessLog:   cfg.HTTPLogEnabled || cfg.Env == "development",
		Durations:   metrics,
	})

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r, "/")
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
