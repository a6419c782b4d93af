package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hello-birthday/config"
	pginfra "github.com/oksasatya/hello-birthday/internal/infrastructure/postgres"
	"github.com/oksasatya/hello-birthday/pkg/helpers"
	"github.com/oksasatya/hello-birthday/pkg/validation"
)

var demoUsers = map[string]string{
	"john":  "1990-05-10",
	"alice": "1985-12-31",
	"leap":  "2000-02-29",
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()
	repo := pginfra.NewUserRepository(pool)

	for username, dob := range demoUsers {
		d, ok := validation.ValidateDateSyntax(dob)
		if !ok || !validation.ValidateUsername(username) {
			logger.Fatalf("bad demo user %s %s", username, dob)
		}
		created, err := repo.Upsert(ctx, username, d)
		if err != nil {
			logger.Fatalf("failed to seed %s: %v", username, err)
		}
		helpers.LogInfo(logger, "seeded user", logrus.Fields{"username": username, "dateOfBirth": dob, "created": created})
	}

	total, err := repo.Count(ctx)
	if err != nil {
		logger.Fatalf("failed to count users: %v", err)
	}
	helpers.LogInfo(logger, "seed complete", logrus.Fields{"seeded": len(demoUsers), "total_users": total})
}
