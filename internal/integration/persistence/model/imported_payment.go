package model

import (
	"time"

	"github.com/google/uuid"
)

// ImportedPaymentModel represents the imported_payments table: the index of
// provider payment ids already turned into movements.
type ImportedPaymentModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_imported_payments_key,priority:1"`
	Provider          string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_imported_payments_key,priority:2"`
	ExternalPaymentID string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_imported_payments_key,priority:3"`
	MovementID        uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for the ImportedPaymentModel.
func (ImportedPaymentModel) TableName() string {
	return "imported_payments"
}
