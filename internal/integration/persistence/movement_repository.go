// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/integration/persistence/model"
)

// movementRepository implements the adapter.MovementRepository interface.
type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a new movement repository instance.
func NewMovementRepository(db *gorm.DB) adapter.MovementRepository {
	return &movementRepository{
		db: db,
	}
}

// Create creates a new movement in the database. Unknown movement types are rejected.
func (r *movementRepository) Create(ctx context.Context, movement *entity.Movement) error {
	if !movement.Type.IsValid() {
		return fmt.Errorf("movement type %q: %w", movement.Type, domainerror.ErrInvalidInput)
	}
	return r.db.WithContext(ctx).Create(model.MovementFromEntity(movement)).Error
}

// FindByID retrieves a movement scoped to the organization.
func (r *movementRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*entity.Movement, error) {
	var movementModel model.MovementModel
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&movementModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrMovementNotFound
		}
		return nil, result.Error
	}
	return movementModel.ToEntity(), nil
}

// ListByIssueDays retrieves the organization's movements issued on any of the days.
func (r *movementRepository) ListByIssueDays(ctx context.Context, organizationID uuid.UUID, days []string) ([]*entity.Movement, error) {
	if len(days) == 0 {
		return nil, nil
	}

	var movementModels []model.MovementModel
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND issue_day IN ?", organizationID, days).
		Order("issue_day ASC, id ASC").
		Find(&movementModels)
	if result.Error != nil {
		return nil, result.Error
	}

	movements := make([]*entity.Movement, len(movementModels))
	for i := range movementModels {
		movements[i] = movementModels[i].ToEntity()
	}
	return movements, nil
}

// ListUnlinked retrieves a page of the organization's unlinked movements.
func (r *movementRepository) ListUnlinked(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*entity.Movement, error) {
	var movementModels []model.MovementModel
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND reconciliation_state = ?", organizationID, string(entity.ReconciliationStateUnlinked)).
		Order("issue_date ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&movementModels)
	if result.Error != nil {
		return nil, result.Error
	}

	movements := make([]*entity.Movement, len(movementModels))
	for i := range movementModels {
		movements[i] = movementModels[i].ToEntity()
	}
	return movements, nil
}
