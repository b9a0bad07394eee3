package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/termwise/glossary-saas/configs"
	"github.com/termwise/glossary-saas/internal/application/services"
	"github.com/termwise/glossary-saas/internal/core/ports"
	"github.com/termwise/glossary-saas/internal/infrastructure/db"
	"github.com/termwise/glossary-saas/internal/infrastructure/email"
	"github.com/termwise/glossary-saas/internal/infrastructure/health"
	"github.com/termwise/glossary-saas/internal/infrastructure/httpserver"
	"github.com/termwise/glossary-saas/internal/infrastructure/redis"
	"github.com/termwise/glossary-saas/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting glossary service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(database, logger)
	accessRepo := repositories.NewAccessRecordRepository(database, logger)
	baseTermRepo := repositories.NewTermRepository(database, logger)
	anonQuotaRepo := repositories.NewAnonymousQuotaRedisRepository(redisClient)
	tokenRepo := repositories.NewTokenRedisRepository(redisClient, logger)

	// Term detail is read-heavy; decorate with cache-aside
	redisCache := redis.NewRedisCache(redisClient, "appcache")
	termRepo := repositories.NewCachingTermRepository(baseTermRepo, redisCache, cfg.Access.CacheTTL)

	// Email service
	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		CompanyName:    cfg.Email.CompanyName,
		BaseURL:        cfg.Email.BaseURL,
	}
	emailService, err := email.NewEmailService(emailConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	// Services
	accessPolicy := &services.AccessPolicyConfig{
		GraceDays:           cfg.Access.GraceDays,
		DailyLimit:          cfg.Access.DailyLimit,
		AnonymousDailyLimit: cfg.Access.AnonymousDailyLimit,
		PreviewChars:        cfg.Access.PreviewChars,
		AnonymousKeyPrefix:  cfg.Access.AnonymousKeyPrefix,
	}
	accessService := services.NewAccessService(accessRepo, anonQuotaRepo, accessPolicy, logger)
	userService := services.NewUserService(userRepo, accessRepo, emailService, cfg.Access.GraceDays, logger)
	authService := services.NewAuthService(userRepo, tokenRepo, &cfg.JWT, logger)
	termService := services.NewTermService(termRepo, logger)
	purchaseService := services.NewPurchaseService(accessRepo, userRepo, emailService, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:                  cfg.Server.Host,
		Port:                  cfg.Server.Port,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		TLSCertFile:           cfg.Server.TLSCertFile,
		TLSKeyFile:            cfg.Server.TLSKeyFile,
		UpgradeURL:            cfg.Access.UpgradeURL,
		PurchaseWebhookSecret: cfg.Webhook.PurchaseSecret,
	}

	deps := httpserver.ServerDeps{
		UserService:     userService,
		AuthService:     authService,
		TermService:     termService,
		AccessService:   accessService,
		PurchaseService: purchaseService,
		HealthCheckers:  hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
