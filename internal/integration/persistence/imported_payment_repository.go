package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mycfo/backend/internal/application/adapter"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/integration/persistence/model"
)

const importInsertBatchSize = 500

// importedPaymentRepository implements the adapter.ImportedPaymentRepository interface.
type importedPaymentRepository struct {
	db *gorm.DB
}

// NewImportedPaymentRepository creates a new imported payment repository instance.
func NewImportedPaymentRepository(db *gorm.DB) adapter.ImportedPaymentRepository {
	return &importedPaymentRepository{
		db: db,
	}
}

// FindExisting returns which external ids the organization already imported from the provider.
func (r *importedPaymentRepository) FindExisting(
	ctx context.Context,
	organizationID uuid.UUID,
	provider string,
	externalIDs []string,
) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(externalIDs) == 0 {
		return found, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.ImportedPaymentModel{}).
		Where("organization_id = ? AND provider = ? AND external_payment_id IN ?", organizationID, provider, externalIDs).
		Pluck("external_payment_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

// SaveImport inserts the movements and their payment index rows in one transaction.
func (r *importedPaymentRepository) SaveImport(ctx context.Context, batch adapter.ImportBatch) error {
	if len(batch.Movements) == 0 {
		return nil
	}

	movementModels := make([]*model.MovementModel, len(batch.Movements))
	for i, movement := range batch.Movements {
		if !movement.Type.IsValid() {
			return fmt.Errorf("movement type %q: %w", movement.Type, domainerror.ErrInvalidInput)
		}
		movementModels[i] = model.MovementFromEntity(movement)
	}

	paymentModels := make([]*model.ImportedPaymentModel, len(batch.Payments))
	for i, payment := range batch.Payments {
		paymentModels[i] = &model.ImportedPaymentModel{
			ID:                uuid.New(),
			OrganizationID:    batch.OrganizationID,
			Provider:          batch.Provider,
			ExternalPaymentID: payment.ExternalPaymentID,
			MovementID:        payment.MovementID,
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(movementModels, importInsertBatchSize).Error; err != nil {
			return err
		}
		if len(paymentModels) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(paymentModels, importInsertBatchSize).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerror.ErrPaymentAlreadyImported
			}
			return err
		}
		return nil
	})
}
