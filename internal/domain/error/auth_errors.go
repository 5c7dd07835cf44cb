package error

import "errors"

// Authentication domain errors.
var (
	// ErrInvalidToken is returned when a bearer token is malformed or its signature does not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")

	// ErrMissingTenant is returned when a valid token carries no organization.
	ErrMissingTenant = errors.New("token has no organization")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Token errors (03XXXX)
	ErrCodeInvalidToken  AuthErrorCode = "AUTH-030001"
	ErrCodeExpiredToken  AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken  AuthErrorCode = "AUTH-030003"
	ErrCodeMissingTenant AuthErrorCode = "AUTH-030004"
)

// AuthError represents an authentication error with code and message.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code and message.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
