// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
	domainerror "github.com/mycfo/backend/internal/domain/error"
)

const defaultTokenTTL = 15 * time.Minute

// CustomClaims represents the custom claims for tenant access tokens.
type CustomClaims struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	jwt.RegisteredClaims
}

// tokenService implements the adapter.TokenService interface with HS256 tokens.
type tokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService creates a new token service instance.
func NewTokenService(secret, issuer string) adapter.TokenService {
	return &tokenService{
		secret: []byte(secret),
		issuer: issuer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// IssueToken signs an access token for the user within the organization.
func (s *tokenService) IssueToken(ctx context.Context, userID, organizationID uuid.UUID, ttl time.Duration) (string, error) {
	if organizationID == uuid.Nil {
		return "", domainerror.ErrMissingTenant
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	now := s.now()
	claims := CustomClaims{
		UserID:         userID.String(),
		OrganizationID: organizationID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates an access token and returns its claims.
func (s *tokenService) ValidateToken(ctx context.Context, token string) (*adapter.TenantClaims, error) {
	claims, err := s.parseJWT(token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, invalidToken("invalid user ID in token", err)
	}

	if claims.OrganizationID == "" {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeMissingTenant,
			"token is not scoped to an organization",
			domainerror.ErrMissingTenant,
		)
	}
	organizationID, err := uuid.Parse(claims.OrganizationID)
	if err != nil || organizationID == uuid.Nil {
		return nil, invalidToken("invalid organization ID in token", err)
	}

	return &adapter.TenantClaims{
		UserID:         userID,
		OrganizationID: organizationID,
		ExpiresAt:      claims.ExpiresAt.Time,
	}, nil
}

// parseJWT parses and validates a JWT token.
func (s *tokenService) parseJWT(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerror.NewAuthError(
				domainerror.ErrCodeExpiredToken,
				"token has expired",
				domainerror.ErrExpiredToken,
			)
		}
		return nil, invalidToken("token rejected", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, invalidToken("token rejected", nil)
	}

	return claims, nil
}

// invalidToken wraps ErrInvalidToken with the parser's reason, if any.
func invalidToken(message string, cause error) error {
	err := domainerror.ErrInvalidToken
	if cause != nil {
		err = fmt.Errorf("%w: %v", domainerror.ErrInvalidToken, cause)
	}
	return domainerror.NewAuthError(domainerror.ErrCodeInvalidToken, message, err)
}
