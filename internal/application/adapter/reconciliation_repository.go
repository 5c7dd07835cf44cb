// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/domain/entity"
)

// ReconciliationRepository defines the interface for movement-document link persistence.
type ReconciliationRepository interface {
	// Link records that the movement settles the document and flips the movement to LINKED.
	// The write is a single transaction; uniqueness of both sides is enforced at commit.
	// Returns ErrMovementAlreadyLinked or ErrDocumentAlreadyLinked when either side is
	// already claimed, ErrLinkConflict when a concurrent commit wins the race.
	Link(ctx context.Context, organizationID, movementID, documentID uuid.UUID) error

	// Unlink removes the movement's link, if any, and flips it back to UNLINKED.
	Unlink(ctx context.Context, organizationID, movementID uuid.UUID) error

	// ListLinks retrieves a page of the organization's committed links, newest first.
	ListLinks(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]LinkedPairData, error)

	// GetReconciliationSummary retrieves summary counts for the organization.
	GetReconciliationSummary(ctx context.Context, organizationID uuid.UUID) (*ReconciliationSummaryData, error)
}

// LinkedPairData is a committed movement-document link.
type LinkedPairData struct {
	Movement *entity.Movement
	Document *entity.Document
	LinkedAt time.Time
}

// ReconciliationSummaryData contains summary statistics for reconciliation.
type ReconciliationSummaryData struct {
	LinkedMovements   int64
	UnlinkedMovements int64
	UnlinkedDocuments int64
}
