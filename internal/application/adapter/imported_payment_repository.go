package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/domain/entity"
)

// ImportedPaymentEntry ties a provider payment id to the movement it produced.
type ImportedPaymentEntry struct {
	ExternalPaymentID string
	MovementID        uuid.UUID
}

// ImportBatch is the set of writes produced by one payment import.
type ImportBatch struct {
	OrganizationID uuid.UUID
	Provider       string
	Movements      []*entity.Movement
	Payments       []ImportedPaymentEntry
}

// ImportedPaymentRepository defines the interface for the index of previously imported payments.
type ImportedPaymentRepository interface {
	// FindExisting returns the subset of externalIDs already imported for the
	// organization and provider, in a single lookup.
	FindExisting(ctx context.Context, organizationID uuid.UUID, provider string, externalIDs []string) (map[string]bool, error)

	// SaveImport persists the batch movements and their external ids atomically.
	SaveImport(ctx context.Context, batch ImportBatch) error
}
