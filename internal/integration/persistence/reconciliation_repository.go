package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/integration/persistence/model"
)

// reconciliationRepository implements the adapter.ReconciliationRepository interface.
type reconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository creates a new reconciliation repository instance.
func NewReconciliationRepository(db *gorm.DB) adapter.ReconciliationRepository {
	return &reconciliationRepository{
		db: db,
	}
}

// Link writes the link row and flips the movement in one transaction.
func (r *reconciliationRepository) Link(ctx context.Context, organizationID, movementID, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movement model.MovementModel
		err := tx.Where("organization_id = ? AND id = ?", organizationID, movementID).First(&movement).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrMovementNotFound
			}
			return err
		}

		if movement.LinkedDocumentID != nil {
			if *movement.LinkedDocumentID == documentID {
				return nil
			}
			return domainerror.ErrMovementAlreadyLinked
		}

		var claimed int64
		err = tx.Model(&model.ReconciliationLinkModel{}).
			Where("document_id = ?", documentID).
			Count(&claimed).Error
		if err != nil {
			return err
		}
		if claimed > 0 {
			return domainerror.ErrDocumentAlreadyLinked
		}

		now := time.Now().UTC()
		link := &model.ReconciliationLinkModel{
			ID:             uuid.New(),
			OrganizationID: organizationID,
			MovementID:     movementID,
			DocumentID:     documentID,
			CreatedAt:      now,
		}
		if err := tx.Create(link).Error; err != nil {
			// A concurrent commit claimed one of the sides first
			if isUniqueViolation(err) {
				return domainerror.ErrLinkConflict
			}
			return err
		}

		result := tx.Model(&model.MovementModel{}).
			Where("id = ? AND linked_document_id IS NULL", movementID).
			Updates(map[string]any{
				"linked_document_id":   documentID,
				"reconciliation_state": string(entity.ReconciliationStateLinked),
				"updated_at":           now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrLinkConflict
		}
		return nil
	})
}

// Unlink deletes the movement's link row and resets its state. No link is a no-op.
func (r *reconciliationRepository) Unlink(ctx context.Context, organizationID, movementID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("organization_id = ? AND movement_id = ?", organizationID, movementID).
			Delete(&model.ReconciliationLinkModel{}).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.MovementModel{}).
			Where("organization_id = ? AND id = ?", organizationID, movementID).
			Updates(map[string]any{
				"linked_document_id":   nil,
				"reconciliation_state": string(entity.ReconciliationStateUnlinked),
				"updated_at":           time.Now().UTC(),
			}).Error
	})
}

// ListLinks retrieves a page of link rows with both sides loaded.
// Rows whose movement or document is gone (soft-deleted) are left out.
func (r *reconciliationRepository) ListLinks(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]adapter.LinkedPairData, error) {
	db := r.db.WithContext(ctx)

	var linkModels []model.ReconciliationLinkModel
	err := db.Where("organization_id = ?", organizationID).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&linkModels).Error
	if err != nil {
		return nil, err
	}
	if len(linkModels) == 0 {
		return nil, nil
	}

	movementIDs := make([]uuid.UUID, len(linkModels))
	documentIDs := make([]uuid.UUID, len(linkModels))
	for i, link := range linkModels {
		movementIDs[i] = link.MovementID
		documentIDs[i] = link.DocumentID
	}

	var movementModels []model.MovementModel
	if err := db.Where("organization_id = ? AND id IN ?", organizationID, movementIDs).Find(&movementModels).Error; err != nil {
		return nil, err
	}
	var documentModels []model.DocumentModel
	if err := db.Where("organization_id = ? AND id IN ?", organizationID, documentIDs).Find(&documentModels).Error; err != nil {
		return nil, err
	}

	movements := make(map[uuid.UUID]*entity.Movement, len(movementModels))
	for i := range movementModels {
		movements[movementModels[i].ID] = movementModels[i].ToEntity()
	}
	documents := make(map[uuid.UUID]*entity.Document, len(documentModels))
	for i := range documentModels {
		documents[documentModels[i].ID] = documentModels[i].ToEntity()
	}

	pairs := make([]adapter.LinkedPairData, 0, len(linkModels))
	for _, link := range linkModels {
		movement, okMovement := movements[link.MovementID]
		document, okDocument := documents[link.DocumentID]
		if !okMovement || !okDocument {
			continue
		}
		pairs = append(pairs, adapter.LinkedPairData{
			Movement: movement,
			Document: document,
			LinkedAt: link.CreatedAt,
		})
	}
	return pairs, nil
}

// GetReconciliationSummary retrieves summary statistics for reconciliation.
func (r *reconciliationRepository) GetReconciliationSummary(ctx context.Context, organizationID uuid.UUID) (*adapter.ReconciliationSummaryData, error) {
	db := r.db.WithContext(ctx)

	var stateCounts []struct {
		ReconciliationState string
		Total               int64
	}
	err := db.Model(&model.MovementModel{}).
		Select("reconciliation_state, COUNT(*) AS total").
		Where("organization_id = ?", organizationID).
		Group("reconciliation_state").
		Scan(&stateCounts).Error
	if err != nil {
		return nil, err
	}

	summary := &adapter.ReconciliationSummaryData{}
	for _, row := range stateCounts {
		switch entity.ReconciliationState(row.ReconciliationState) {
		case entity.ReconciliationStateLinked:
			summary.LinkedMovements = row.Total
		case entity.ReconciliationStateUnlinked:
			summary.UnlinkedMovements = row.Total
		}
	}

	claimed := db.Model(&model.ReconciliationLinkModel{}).
		Select("1").
		Where("reconciliation_links.document_id = documents.id")
	err = db.Model(&model.DocumentModel{}).
		Where("organization_id = ?", organizationID).
		Where("NOT EXISTS (?)", claimed).
		Count(&summary.UnlinkedDocuments).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}
