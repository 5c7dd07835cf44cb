// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mycfo/backend/config"
	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/application/usecase/document"
	"github.com/mycfo/backend/internal/application/usecase/importing"
	"github.com/mycfo/backend/internal/application/usecase/reconciliation"
	"github.com/mycfo/backend/internal/domain/valueobject"
	"github.com/mycfo/backend/internal/infra/metrics"
	"github.com/mycfo/backend/internal/infra/server/router"
	"github.com/mycfo/backend/internal/integration/adapters"
	"github.com/mycfo/backend/internal/integration/cache"
	"github.com/mycfo/backend/internal/integration/entrypoint/controller"
	"github.com/mycfo/backend/internal/integration/entrypoint/middleware"
	"github.com/mycfo/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Redis        *redis.Client
	Metrics      *metrics.Metrics
	TokenService adapter.TokenService
	Router       *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil; the imported payment index then reads the database directly
// and import rate limiting is off.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	m := metrics.NewMetrics()

	// Create repositories
	movementRepo := persistence.NewMovementRepository(db)
	documentRepo := persistence.NewDocumentRepository(db)
	reconciliationRepo := persistence.NewReconciliationRepository(db)
	var importedPaymentRepo adapter.ImportedPaymentRepository = persistence.NewImportedPaymentRepository(db)
	if redisClient != nil && cfg.Matching.PaymentIndexCache {
		importedPaymentRepo = cache.NewImportedPaymentCache(importedPaymentRepo, redisClient, cfg.Redis.KeyTTL)
	}

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)

	matchingConfig := valueobject.DefaultMatchingConfig().
		WithTolerance(cfg.Matching.AmountTolerance).
		WithThresholds(cfg.Matching.HighThreshold, cfg.Matching.MediumThreshold)

	// Create reconciliation use cases
	suggestUseCase := reconciliation.NewSuggestMatchesUseCase(movementRepo, documentRepo, matchingConfig, m)
	linkUseCase := reconciliation.NewLinkUseCase(movementRepo, documentRepo, reconciliationRepo, m)
	unlinkUseCase := reconciliation.NewUnlinkUseCase(movementRepo, reconciliationRepo)
	summaryUseCase := reconciliation.NewGetSummaryUseCase(reconciliationRepo)
	pendingUseCase := reconciliation.NewGetPendingUseCase(movementRepo, documentRepo, reconciliationRepo, matchingConfig)
	linkedUseCase := reconciliation.NewGetLinkedUseCase(reconciliationRepo, matchingConfig)
	triggerUseCase := reconciliation.NewTriggerReconciliationUseCase(movementRepo, documentRepo, reconciliationRepo, matchingConfig, m)

	// Create import use cases
	detectUseCase := importing.NewDetectDuplicatesUseCase(movementRepo, importedPaymentRepo, m, cfg.Import.MaxBatchSize)
	importUseCase := importing.NewImportPaymentsUseCase(detectUseCase, importedPaymentRepo, m)

	// Create document use cases
	createDocumentUseCase := document.NewCreateDocumentUseCase(documentRepo)

	// Create controllers
	var cacheChecker controller.HealthChecker
	if redisClient != nil {
		cacheChecker = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	healthController := controller.NewHealthController(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		return sqlDB.PingContext(ctx)
	}, cacheChecker)

	reconciliationController := controller.NewReconciliationController(
		suggestUseCase,
		linkUseCase,
		unlinkUseCase,
		summaryUseCase,
		pendingUseCase,
		linkedUseCase,
		triggerUseCase,
	)
	importController := controller.NewImportController(detectUseCase, importUseCase)
	documentController := controller.NewDocumentController(createDocumentUseCase)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	importRateLimiter := middleware.NewRateLimiter(redisClient, "imports", cfg.Import.RateLimit, cfg.Import.RateWindow)

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
	}

	r := router.NewRouter(
		healthController,
		reconciliationController,
		importController,
		documentController,
		authMiddleware,
		importRateLimiter,
		cfg.Metrics.Path,
		metricsHandler,
	)

	return &Injector{
		Config:       cfg,
		DB:           db,
		Redis:        redisClient,
		Metrics:      m,
		TokenService: tokenService,
		Router:       r,
	}
}
