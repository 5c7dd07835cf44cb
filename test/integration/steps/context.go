//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mycfo/backend/config"
	"github.com/mycfo/backend/internal/infra/dependency"
	"github.com/mycfo/backend/internal/integration/persistence/model"
	"github.com/mycfo/backend/test/integration/mock"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	injector     *dependency.Injector
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string

	// Auth
	accessToken    string
	organizationID uuid.UUID
	userID         uuid.UUID

	// Seeded rows by their scenario alias
	movements map[string]uuid.UUID
	documents map[string]uuid.UUID

	db    *mock.Db
	redis *mock.Redis
	cfg   *config.Config
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

func registeredModels() map[string]any {
	models := make(map[string]any)
	for _, m := range model.AllModels() {
		tabler, ok := m.(interface{ TableName() string })
		if !ok {
			panic(fmt.Sprintf("model %T has no table name", m))
		}
		models[tabler.TableName()] = m
	}
	return models
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		_ = os.Setenv("ENV", "test")
		_ = os.Setenv("JWT_SECRET", "integration-secret")

		mock.NewDb(registeredModels())
		mock.NewRedis()
	})

	ctx.AfterSuite(func() {
		r := mock.NewRedis()
		_ = r.Client.Close()
		r.Server.Close()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		db := mock.NewDb(registeredModels())
		if err := db.ClearDB(); err != nil {
			return ctx, err
		}
		r := mock.NewRedis()
		r.Clear()

		cfg := config.Load()
		injector := dependency.NewInjector(cfg, db.DbConn, r.Client)

		tc := &TestContext{
			server:         httptest.NewServer(injector.Router.Setup(cfg.Server.Environment)),
			injector:       injector,
			requestHeaders: make(map[string]string),
			movements:      make(map[string]uuid.UUID),
			documents:      make(map[string]uuid.UUID),
			db:             db,
			redis:          r,
			cfg:            cfg,
		}

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerDataSteps(ctx)
	registerResponseSteps(ctx)
}

// organizationIDFor derives a stable organization id from a scenario name.
func organizationIDFor(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("organization:"+name))
}
