package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Anurag-933/simplebank/internal/apperrors"
	"github.com/Anurag-933/simplebank/internal/core/domain"
	portsrepo "github.com/Anurag-933/simplebank/internal/core/ports/repositories"
	"github.com/Anurag-933/simplebank/internal/core/services"
	"github.com/Anurag-933/simplebank/internal/handlers"
	"github.com/Anurag-933/simplebank/internal/middleware"
	"github.com/Anurag-933/simplebank/internal/platform/config"
	"github.com/Anurag-933/simplebank/internal/repositories/database/pgsql"
	"github.com/Anurag-933/simplebank/internal/utils"
	"github.com/Anurag-933/simplebank/pkg/database"
)

// @title SimpleBank API
// @version 1.0
// @description Transaction approval and balance consistency backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories and services
	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(repos)

	// Ensure the bootstrap reviewer account exists
	if err := ensureDefaultReviewer(context.Background(), cfg, repos.UserRepo, logger); err != nil {
		logger.Error("Failed to seed reviewer account", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations directory.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// ensureDefaultReviewer creates the configured reviewer user on first startup.
// Reviewers have no customer account; they only act on pending transactions.
func ensureDefaultReviewer(ctx context.Context, cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, logger *slog.Logger) error {
	_, err := userRepo.FindUserByUsername(ctx, cfg.ReviewerUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(cfg.ReviewerPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	reviewer := domain.User{
		UserID:       userID,
		FullName:     cfg.ReviewerFullName,
		Username:     cfg.ReviewerUsername,
		PasswordHash: passwordHash,
		IsReviewer:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := userRepo.SaveUser(ctx, reviewer); err != nil {
		// Another instance may have seeded it concurrently.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil
		}
		return err
	}

	logger.Info("Seeded reviewer account", slog.String("username", cfg.ReviewerUsername))
	return nil
}
