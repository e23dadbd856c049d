package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"habita-coop.backend/internal/config"
	"habita-coop.backend/internal/infrastructure/models"
	"habita-coop.backend/internal/infrastructure/seed"
	"habita-coop.backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Printf("seed failed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logger.Init(cfg.Server.Env)

	db, err := connectWithRetry(cfg.Database.URL(), cfg.Seed.ConnectRetries, cfg.Seed.RetryDelay)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&models.Association{},
		&models.User{},
		&models.UserProfile{},
		&models.Payment{},
		&models.ContactSubmission{},
		&models.ProjectStatus{},
		&models.TermsOfAcceptance{},
		&models.TermAcceptance{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	seeder := seed.NewSeeder(db, cfg.Seed, cfg.Billing)
	return seeder.Run(context.Background())
}

// connectWithRetry waits for the database to come up; in compose setups the
// seeder usually starts before postgres is ready.
func connectWithRetry(dsn string, retries int, delay time.Duration) (*gorm.DB, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
		if err == nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				if pingErr := sqlDB.Ping(); pingErr == nil {
					return db, nil
				} else {
					lastErr = pingErr
				}
			} else {
				lastErr = dbErr
			}
		} else {
			lastErr = err
		}

		logger.Warn(context.Background(), "database not ready, retrying",
			zap.Int("attempt", attempt+1), zap.Error(lastErr))
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", retries+1, lastErr)
}
