package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/domain/entity"
)

// DocumentRepository defines the interface for commercial document persistence operations.
type DocumentRepository interface {
	// Create creates a new document with its variant payload.
	Create(ctx context.Context, document *entity.Document) error

	// FindByID retrieves a document scoped to the organization.
	// Returns ErrDocumentNotFound when it does not exist there.
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*entity.Document, error)

	// ListUnlinked retrieves the organization's documents not claimed by any movement.
	ListUnlinked(ctx context.Context, organizationID uuid.UUID) ([]*entity.Document, error)

	// ExistsByNumber checks whether the organization already has a document with the number.
	ExistsByNumber(ctx context.Context, organizationID uuid.UUID, number string) (bool, error)
}
