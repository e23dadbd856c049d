package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"habita-coop.backend/internal/config"
	"habita-coop.backend/internal/infrastructure/gateway"
	"habita-coop.backend/internal/infrastructure/models"
	"habita-coop.backend/internal/infrastructure/repositories"
	"habita-coop.backend/internal/interfaces/http/handlers"
	"habita-coop.backend/internal/interfaces/http/middleware"
	"habita-coop.backend/internal/usecases"
	"habita-coop.backend/pkg/jwt"
	"habita-coop.backend/pkg/logger"
	"habita-coop.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	newRedis   = redis.NewClient
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("database not available: %v (endpoints will return errors)", err)
	} else if err := autoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Redis backs the encrypted session store. Logins still work without it,
	// they just skip server-side sessions.
	var sessionStore *redis.SessionStore
	redisClient, err := newRedis(cfg.Redis.URL, cfg.Redis.PASSWORD)
	if err != nil {
		logger.Warn(context.Background(), "Redis unavailable, sessions disabled", zap.Error(err))
	} else {
		sessionStore, err = redis.NewSessionStore(redisClient, cfg.Security.SessionEncryptionKey)
		if err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	userRepo := repositories.NewUserRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	associationRepo := repositories.NewAssociationRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	projectStatusRepo := repositories.NewProjectStatusRepository(db)
	termsRepo := repositories.NewTermsRepository(db)
	uow := repositories.NewUnitOfWork(db)

	gatewayClient := gateway.NewClient(cfg.Gateway)

	paymentUsecase := usecases.NewPaymentUsecase(paymentRepo, userRepo, uow, gatewayClient, cfg.Billing)
	authUsecase := usecases.NewAuthUsecase(userRepo, associationRepo, paymentUsecase, jwtService, cfg.Billing)
	associationUsecase := usecases.NewAssociationUsecase(associationRepo, userRepo, paymentRepo, uow)
	userUsecase := usecases.NewUserUsecase(userRepo, cfg.Billing)
	dashboardUsecase := usecases.NewDashboardUsecase(userRepo, associationRepo, paymentRepo, contactRepo)
	termsUsecase := usecases.NewTermsUsecase(termsRepo, uow)

	authHandler := handlers.NewAuthHandler(authUsecase, sessionStore, cfg.JWT.RefreshExpiry)
	paymentHandler := handlers.NewPaymentHandler(paymentUsecase)
	webhookHandler := handlers.NewWebhookHandler(paymentUsecase, cfg.Gateway.WebhookSecret)
	associationHandler := handlers.NewAssociationHandler(associationUsecase)
	adminHandler := handlers.NewAdminHandler(userUsecase, dashboardUsecase)
	contactHandler := handlers.NewContactHandler(contactRepo)
	projectStatusHandler := handlers.NewProjectStatusHandler(projectStatusRepo)
	termsHandler := handlers.NewTermsHandler(termsUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:          authHandler,
		paymentHandler:       paymentHandler,
		webhookHandler:       webhookHandler,
		associationHandler:   associationHandler,
		adminHandler:         adminHandler,
		contactHandler:       contactHandler,
		projectStatusHandler: projectStatusHandler,
		termsHandler:         termsHandler,
		authMiddleware:       authMiddleware,
	})

	log.Printf("server starting on port %s", cfg.Server.Port)
	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Association{},
		&models.User{},
		&models.UserProfile{},
		&models.Payment{},
		&models.ContactSubmission{},
		&models.ProjectStatus{},
		&models.TermsOfAcceptance{},
		&models.TermAcceptance{},
	)
}
