// Package reconciliation contains movement-to-document reconciliation use cases.
package reconciliation

import (
	"github.com/google/uuid"

	domainerror "github.com/mycfo/backend/internal/domain/error"
)

// Page sizes for the pending and linked listings.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageBounds clamps a requested page to sane limits.
func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func requireOrganization(organizationID uuid.UUID) error {
	if organizationID == uuid.Nil {
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeMissingOrganization,
			"organization id is required",
			domainerror.ErrInvalidInput,
		)
	}
	return nil
}

// validateScope checks the identifiers every reconciliation operation is scoped by.
func validateScope(organizationID, movementID uuid.UUID) error {
	if err := requireOrganization(organizationID); err != nil {
		return err
	}
	if movementID == uuid.Nil {
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidMovementID,
			"movement id is required",
			domainerror.ErrInvalidInput,
		)
	}
	return nil
}

func movementNotFound() error {
	return domainerror.NewReconciliationError(
		domainerror.ErrCodeMovementNotFound,
		"movement not found",
		domainerror.ErrMovementNotFound,
	)
}

func documentNotFound() error {
	return domainerror.NewReconciliationError(
		domainerror.ErrCodeDocumentNotFound,
		"document not found",
		domainerror.ErrDocumentNotFound,
	)
}
