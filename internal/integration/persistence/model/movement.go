// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mycfo/backend/internal/domain/entity"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

// MovementModel represents the movements table in the database.
type MovementModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrganizationID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_org_day,priority:1"`
	UserID              uuid.UUID       `gorm:"type:uuid;index"`
	Type                string          `gorm:"type:varchar(12);not null"`
	Amount              decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IssueDate           time.Time       `gorm:"type:date;not null"`
	IssueDay            string          `gorm:"type:varchar(10);not null;index:idx_movements_org_day,priority:2"` // YYYY-MM-DD, for day-set lookups
	Category            string          `gorm:"type:varchar(100)"`
	Description         string          `gorm:"type:varchar(255)"`
	CounterpartyName    string          `gorm:"type:varchar(255)"`
	CounterpartyTaxID   string          `gorm:"type:varchar(32)"`
	PaymentMethod       string          `gorm:"type:varchar(50)"`
	Currency            string          `gorm:"type:varchar(3);not null"`
	Source              string          `gorm:"type:varchar(50)"`
	LinkedDocumentID    *uuid.UUID      `gorm:"type:uuid;index"`
	ReconciliationState string          `gorm:"type:varchar(10);not null;default:'UNLINKED';index"`
	CreatedAt           time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
	DeletedAt           gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the MovementModel.
func (MovementModel) TableName() string {
	return "movements"
}

// ToEntity converts a MovementModel to a domain Movement entity.
func (m *MovementModel) ToEntity() *entity.Movement {
	return &entity.Movement{
		ID:                  m.ID,
		OrganizationID:      m.OrganizationID,
		UserID:              m.UserID,
		Type:                entity.MovementType(m.Type),
		Amount:              m.Amount,
		IssueDate:           m.IssueDate.UTC(),
		Category:            m.Category,
		Description:         m.Description,
		CounterpartyName:    m.CounterpartyName,
		CounterpartyTaxID:   m.CounterpartyTaxID,
		PaymentMethod:       m.PaymentMethod,
		Currency:            entity.Currency(m.Currency),
		Source:              m.Source,
		LinkedDocumentID:    m.LinkedDocumentID,
		ReconciliationState: entity.ReconciliationState(m.ReconciliationState),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// MovementFromEntity converts a domain Movement entity to a MovementModel.
func MovementFromEntity(movement *entity.Movement) *MovementModel {
	state := movement.ReconciliationState
	if state == "" {
		state = entity.ReconciliationStateUnlinked
	}

	return &MovementModel{
		ID:                  movement.ID,
		OrganizationID:      movement.OrganizationID,
		UserID:              movement.UserID,
		Type:                string(movement.Type),
		Amount:              movement.Amount,
		IssueDate:           movement.IssueDate,
		IssueDay:            valueobject.FormatDay(movement.IssueDate),
		Category:            movement.Category,
		Description:         movement.Description,
		CounterpartyName:    movement.CounterpartyName,
		CounterpartyTaxID:   movement.CounterpartyTaxID,
		PaymentMethod:       movement.PaymentMethod,
		Currency:            string(movement.Currency),
		Source:              movement.Source,
		LinkedDocumentID:    movement.LinkedDocumentID,
		ReconciliationState: string(state),
		CreatedAt:           movement.CreatedAt,
		UpdatedAt:           movement.UpdatedAt,
	}
}
