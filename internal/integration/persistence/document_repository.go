package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/integration/persistence/model"
)

// documentRepository implements the adapter.DocumentRepository interface.
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository instance.
func NewDocumentRepository(db *gorm.DB) adapter.DocumentRepository {
	return &documentRepository{
		db: db,
	}
}

// Create creates a new document. A taken number returns ErrDocumentNumberExists.
func (r *documentRepository) Create(ctx context.Context, document *entity.Document) error {
	err := r.db.WithContext(ctx).Create(model.DocumentFromEntity(document)).Error
	if isUniqueViolation(err) {
		return domainerror.ErrDocumentNumberExists
	}
	return err
}

// FindByID retrieves a document scoped to the organization.
func (r *documentRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*entity.Document, error) {
	var documentModel model.DocumentModel
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&documentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDocumentNotFound
		}
		return nil, result.Error
	}
	return documentModel.ToEntity(), nil
}

// ListUnlinked retrieves the organization's documents without a reconciliation link.
func (r *documentRepository) ListUnlinked(ctx context.Context, organizationID uuid.UUID) ([]*entity.Document, error) {
	db := r.db.WithContext(ctx)
	claimed := db.Model(&model.ReconciliationLinkModel{}).
		Select("1").
		Where("reconciliation_links.document_id = documents.id")

	var documentModels []model.DocumentModel
	result := db.
		Where("organization_id = ?", organizationID).
		Where("NOT EXISTS (?)", claimed).
		Order("issue_date DESC, id ASC").
		Find(&documentModels)
	if result.Error != nil {
		return nil, result.Error
	}

	documents := make([]*entity.Document, len(documentModels))
	for i := range documentModels {
		documents[i] = documentModels[i].ToEntity()
	}
	return documents, nil
}

// ExistsByNumber checks whether the organization already uses the document number.
func (r *documentRepository) ExistsByNumber(ctx context.Context, organizationID uuid.UUID, number string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.DocumentModel{}).
		Where("organization_id = ? AND number = ?", organizationID, number).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
