package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) error

// HealthController handles health check endpoints.
type HealthController struct {
	dbChecker    HealthChecker
	cacheChecker HealthChecker
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
// A nil cacheChecker reports the cache as disabled.
func NewHealthController(dbChecker, cacheChecker HealthChecker) *HealthController {
	return &HealthController{
		dbChecker:    dbChecker,
		cacheChecker: cacheChecker,
	}
}

// Check handles GET /health requests.
// The API stays "ok" with the cache down since imports fall back to the database.
func (h *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ok",
		Database:  "disconnected",
		Cache:     "disabled",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if h.dbChecker != nil && h.dbChecker(ctx) == nil {
		response.Database = "connected"
	} else {
		response.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.cacheChecker != nil {
		response.Cache = "connected"
		if err := h.cacheChecker(ctx); err != nil {
			response.Cache = "disconnected"
		}
	}

	c.JSON(status, response)
}
