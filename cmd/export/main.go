package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hello-birthday/config"
	"github.com/oksasatya/hello-birthday/internal/application"
	pginfra "github.com/oksasatya/hello-birthday/internal/infrastructure/postgres"
	"github.com/oksasatya/hello-birthday/pkg/helpers"
)

// export writes a JSON-lines snapshot of all users to Google Cloud Storage.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-export", cfg.Env, cfg.LogLevel)

	if cfg.GCSBucket == "" {
		logger.Fatal("GCS_BUCKET not configured")
	}
	if !cfg.UsePostgres() {
		logger.Fatal("export reads from postgres; STORE_DRIVER=memory has nothing to export")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		logger.Fatalf("failed to init GCS client: %v", err)
	}
	defer func() { _ = gcsClient.Close() }()

	exporter := application.NewExporter(
		pginfra.NewUserRepository(pool),
		helpers.GCSUploader(gcsClient, cfg.GCSBucket),
		cfg.ExportPrefix,
	)
	url, n, err := exporter.Export(ctx)
	if err != nil {
		helpers.LogError(logger, "export failed", err, logrus.Fields{"bucket": cfg.GCSBucket})
		return
	}
	helpers.LogInfo(logger, "export complete", logrus.Fields{"url": url, "users": n})
}
