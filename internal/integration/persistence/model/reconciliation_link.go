package model

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationLinkModel represents the reconciliation_links table.
// The unique indexes on both sides enforce one document per movement and
// one movement per document at commit time.
type ReconciliationLinkModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	MovementID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reconciliation_links_movement"`
	DocumentID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reconciliation_links_document"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the ReconciliationLinkModel.
func (ReconciliationLinkModel) TableName() string {
	return "reconciliation_links"
}
