package error

import "errors"

// Import domain errors.
var (
	// ErrEmptyImportBatch is returned when an import carries no records.
	ErrEmptyImportBatch = errors.New("import batch is empty")

	// ErrMissingProvider is returned when an import does not name its source provider.
	ErrMissingProvider = errors.New("import provider is required")

	// ErrUnsupportedCurrency is returned when an import declares an unknown currency.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrImportBatchTooLarge is returned when a batch exceeds the configured size limit.
	ErrImportBatchTooLarge = errors.New("import batch is too large")

	// ErrPaymentAlreadyImported is returned when a concurrent import recorded the same
	// external payment id first.
	ErrPaymentAlreadyImported = errors.New("payment already imported")
)

// ImportErrorCode defines error codes for payment import errors.
// Format: IMP-XXYYYY where XX is category and YYYY is specific error.
type ImportErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeImportMissingOrganization ImportErrorCode = "IMP-010001"
	ErrCodeImportEmptyBatch          ImportErrorCode = "IMP-010002"
	ErrCodeImportMissingProvider     ImportErrorCode = "IMP-010003"
	ErrCodeImportInvalidCurrency     ImportErrorCode = "IMP-010004"
	ErrCodeImportBatchTooLarge       ImportErrorCode = "IMP-010005"

	// Conflict errors (03XXXX)
	ErrCodeImportConcurrent ImportErrorCode = "IMP-030001"

	// Throttling errors (04XXXX)
	ErrCodeImportRateLimited ImportErrorCode = "IMP-040001"
)

// ImportError represents a payment import error with code and message.
type ImportError struct {
	Code    ImportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError with the given code and message.
func NewImportError(code ImportErrorCode, message string, err error) *ImportError {
	return &ImportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
