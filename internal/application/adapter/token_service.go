package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantClaims represents the caller identity carried by an access token.
type TenantClaims struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	ExpiresAt      time.Time
}

// TokenService defines the interface for access token operations.
// Tokens are issued by the identity provider in production; IssueToken
// exists for service-to-service calls and tests.
type TokenService interface {
	// IssueToken signs an access token for the user within the organization.
	IssueToken(ctx context.Context, userID, organizationID uuid.UUID, ttl time.Duration) (string, error)

	// ValidateToken validates an access token and returns its claims.
	ValidateToken(ctx context.Context, token string) (*TenantClaims, error)
}
