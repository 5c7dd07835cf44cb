// Package error defines domain-specific errors for the myCFO backend.
package error

import "errors"

// Reconciliation domain errors.
var (
	// ErrInvalidInput is returned when a required argument or scoping field is missing.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMovementNotFound is returned when a movement does not exist in the organization.
	ErrMovementNotFound = errors.New("movement not found")

	// ErrDocumentNotFound is returned when a document does not exist in the organization.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrMovementAlreadyLinked is returned when suggesting for, or linking, a movement
	// that is already linked.
	ErrMovementAlreadyLinked = errors.New("movement already linked")

	// ErrDocumentAlreadyLinked is returned when a document is already claimed by another movement.
	ErrDocumentAlreadyLinked = errors.New("document already linked")

	// ErrLinkConflict is returned when the link commit loses a race against another commit.
	ErrLinkConflict = errors.New("link conflict")
)

// ReconciliationErrorCode defines error codes for reconciliation errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type ReconciliationErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeMissingOrganization ReconciliationErrorCode = "REC-010001"
	ErrCodeMissingMovement     ReconciliationErrorCode = "REC-010002"
	ErrCodeLinkedMovement      ReconciliationErrorCode = "REC-010003"
	ErrCodeInvalidMovementID   ReconciliationErrorCode = "REC-010004"
	ErrCodeInvalidDocumentID   ReconciliationErrorCode = "REC-010005"

	// Lookup errors (02XXXX)
	ErrCodeMovementNotFound ReconciliationErrorCode = "REC-020001"
	ErrCodeDocumentNotFound ReconciliationErrorCode = "REC-020002"

	// Conflict errors (03XXXX)
	ErrCodeMovementLinkedElsewhere ReconciliationErrorCode = "REC-030001"
	ErrCodeDocumentLinkedElsewhere ReconciliationErrorCode = "REC-030002"
	ErrCodeLinkRace                ReconciliationErrorCode = "REC-030003"
)

// ReconciliationError represents a reconciliation error with code and message.
type ReconciliationError struct {
	Code    ReconciliationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// NewReconciliationError creates a new ReconciliationError with the given code and message.
func NewReconciliationError(code ReconciliationErrorCode, message string, err error) *ReconciliationError {
	return &ReconciliationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsConflict reports whether err is a commit-time link uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrMovementAlreadyLinked) ||
		errors.Is(err, ErrDocumentAlreadyLinked) ||
		errors.Is(err, ErrLinkConflict)
}
