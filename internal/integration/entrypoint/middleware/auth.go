// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey ContextKey = "user_id"
	// OrganizationIDKey is the context key for the tenant every request is scoped to.
	OrganizationIDKey ContextKey = "organization_id"
)

// AuthMiddleware resolves the caller's tenant from a bearer token.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate returns a Gin middleware handler that enforces JWT authentication.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required", domainerror.ErrCodeMissingToken)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Invalid authorization header format", domainerror.ErrCodeInvalidToken)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			abortUnauthorized(c, "Token is required", domainerror.ErrCodeMissingToken)
			return
		}

		claims, err := m.tokenService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			var authErr *domainerror.AuthError
			if errors.As(err, &authErr) {
				abortUnauthorized(c, authErr.Message, authErr.Code)
				return
			}
			abortUnauthorized(c, "Invalid or expired token", domainerror.ErrCodeInvalidToken)
			return
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Set(string(OrganizationIDKey), claims.OrganizationID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string, code domainerror.AuthErrorCode) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
}

// GetUserIDFromContext extracts the user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromContext(c, UserIDKey)
}

// GetOrganizationIDFromContext extracts the organization ID from the Gin context.
func GetOrganizationIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	orgID, ok := uuidFromContext(c, OrganizationIDKey)
	if !ok || orgID == uuid.Nil {
		return uuid.Nil, false
	}
	return orgID, true
}

func uuidFromContext(c *gin.Context, key ContextKey) (uuid.UUID, bool) {
	value, exists := c.Get(string(key))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
