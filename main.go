package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/havenlink/haven-engine/pkg/auth"
	"github.com/havenlink/haven-engine/pkg/config"
	"github.com/havenlink/haven-engine/pkg/database"
	"github.com/havenlink/haven-engine/pkg/directory"
	"github.com/havenlink/haven-engine/pkg/handlers"
	"github.com/havenlink/haven-engine/pkg/logging"
	"github.com/havenlink/haven-engine/pkg/middleware"
	"github.com/havenlink/haven-engine/pkg/repositories"
	"github.com/havenlink/haven-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("classifier_mode", cfg.Classifier.Mode))

	ctx := context.Background()

	// Database
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Migrations run on the pool's stdlib bridge: pgxpool -> stdlib.OpenDBFromPool -> RunMigrations.
	migrationDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}

	// Redis (optional directory cache)
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Authentication
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	authService := auth.NewAuthService(jwksClient, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	// Directory
	dir := directory.NewCachedDirectory(
		directory.NewClient(&cfg.Directory, logger),
		redisClient,
		time.Duration(cfg.Directory.CacheTTLSeconds)*time.Second,
		logger,
	)

	// Classifier
	var classifier services.Classifier
	switch cfg.Classifier.Mode {
	case "llm":
		classifier = services.NewLLMClassifier(&cfg.Classifier, logger)
	default:
		keywords, err := services.LoadKeywordSets(cfg.Classifier.KeywordsPath)
		if err != nil {
			logger.Fatal("Failed to load keyword sets", zap.Error(err))
		}
		classifier = services.NewKeywordClassifier(keywords)
	}

	// Repositories and services
	assignmentRepo := repositories.NewAssignmentRepository(db)
	transferEventRepo := repositories.NewTransferEventRepository(db)
	assignmentService := services.NewAssignmentService(
		assignmentRepo,
		transferEventRepo,
		dir,
		services.NewUniformRandomSelector(),
		logger,
	)

	// HTTP routes
	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewTriageHandler(classifier, authMiddleware, logger).RegisterRoutes(mux)
	handlers.NewAssignmentHandler(assignmentService, authMiddleware, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)
	addr := cfg.BindAddr + ":" + cfg.Port

	logger.Info("Starting haven-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))

	if cfg.TLSCertPath != "" && cfg.TLSKeyPath != "" {
		err = http.ListenAndServeTLS(addr, cfg.TLSCertPath, cfg.TLSKeyPath, handler)
	} else {
		err = http.ListenAndServe(addr, handler)
	}
	if err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
