package error

import "errors"

// Document domain errors.
var (
	// ErrInvalidDocumentType is returned when the document type is unknown.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrMissingDocumentParties is returned when the variant payload is missing.
	ErrMissingDocumentParties = errors.New("document parties are required for its type")

	// ErrMissingDocumentNumber is returned when the document number is blank.
	ErrMissingDocumentNumber = errors.New("document number is required")

	// ErrInvalidDocumentAmount is returned when the total amount is not positive.
	ErrInvalidDocumentAmount = errors.New("document total must be positive")

	// ErrDocumentNumberExists is returned when the number is already used in the organization.
	ErrDocumentNumberExists = errors.New("document number already exists")
)

// DocumentErrorCode defines error codes for document errors.
// Format: DOC-XXYYYY where XX is category and YYYY is specific error.
type DocumentErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidDocumentType    DocumentErrorCode = "DOC-010001"
	ErrCodeMissingDocumentParties DocumentErrorCode = "DOC-010002"
	ErrCodeMissingDocumentNumber  DocumentErrorCode = "DOC-010003"
	ErrCodeInvalidDocumentAmount  DocumentErrorCode = "DOC-010004"
	ErrCodeInvalidDocumentFlow    DocumentErrorCode = "DOC-010005"
	ErrCodeInvalidDocumentCurr    DocumentErrorCode = "DOC-010006"
	ErrCodeDocumentMissingOrg     DocumentErrorCode = "DOC-010007"

	// Conflict errors (03XXXX)
	ErrCodeDocumentNumberExists DocumentErrorCode = "DOC-030001"
)

// DocumentError represents a document error with code and message.
type DocumentError struct {
	Code    DocumentErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewDocumentError creates a new DocumentError with the given code and message.
func NewDocumentError(code DocumentErrorCode, message string, err error) *DocumentError {
	return &DocumentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
