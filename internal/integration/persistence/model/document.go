package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mycfo/backend/internal/domain/entity"
)

// DocumentModel represents the documents table. All variants share the table:
// the primary party is seller/beneficiary/issuer and the secondary party is
// buyer/debtor/receiver, depending on the document type.
type DocumentModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrganizationID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_documents_org_number,priority:1"`
	UserID              uuid.UUID       `gorm:"type:uuid;index"`
	Type                string          `gorm:"type:varchar(20);not null;index"`
	Flow                string          `gorm:"type:varchar(10);not null"`
	Number              string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_documents_org_number,priority:2"`
	IssueDate           time.Time       `gorm:"type:date;not null"`
	DueDate             *time.Time      `gorm:"type:date"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency            string          `gorm:"type:varchar(3);not null"`
	Category            string          `gorm:"type:varchar(100)"`
	PrimaryPartyName    string          `gorm:"type:varchar(255)"`
	PrimaryPartyTaxID   string          `gorm:"type:varchar(32)"`
	SecondaryPartyName  string          `gorm:"type:varchar(255)"`
	SecondaryPartyTaxID string          `gorm:"type:varchar(32)"`
	CreatedAt           time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
	DeletedAt           gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for the DocumentModel.
func (DocumentModel) TableName() string {
	return "documents"
}

// ToEntity converts a DocumentModel to a domain Document entity with its variant payload.
func (m *DocumentModel) ToEntity() *entity.Document {
	doc := &entity.Document{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Type:           entity.DocumentType(m.Type),
		Flow:           entity.DocumentFlow(m.Flow),
		Number:         m.Number,
		IssueDate:      m.IssueDate.UTC(),
		TotalAmount:    m.TotalAmount,
		Currency:       entity.Currency(m.Currency),
		Category:       m.Category,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}

	primary := entity.Party{Name: m.PrimaryPartyName, TaxID: m.PrimaryPartyTaxID}
	secondary := entity.Party{Name: m.SecondaryPartyName, TaxID: m.SecondaryPartyTaxID}

	switch doc.Type {
	case entity.DocumentTypeInvoice:
		doc.Invoice = &entity.InvoiceDetails{Seller: primary, Buyer: secondary}
	case entity.DocumentTypePromissoryNote:
		doc.PromissoryNote = &entity.PromissoryNoteDetails{Beneficiary: primary, Debtor: secondary, DueDate: m.DueDate}
	case entity.DocumentTypeReceipt:
		doc.Receipt = &entity.ReceiptDetails{Issuer: primary, Receiver: secondary}
	}

	return doc
}

// DocumentFromEntity converts a domain Document entity to a DocumentModel.
func DocumentFromEntity(doc *entity.Document) *DocumentModel {
	m := &DocumentModel{
		ID:             doc.ID,
		OrganizationID: doc.OrganizationID,
		UserID:         doc.UserID,
		Type:           string(doc.Type),
		Flow:           string(doc.Flow),
		Number:         doc.Number,
		IssueDate:      doc.IssueDate,
		TotalAmount:    doc.TotalAmount,
		Currency:       string(doc.Currency),
		Category:       doc.Category,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}

	var primary, secondary entity.Party
	switch {
	case doc.Type == entity.DocumentTypeInvoice && doc.Invoice != nil:
		primary, secondary = doc.Invoice.Seller, doc.Invoice.Buyer
	case doc.Type == entity.DocumentTypePromissoryNote && doc.PromissoryNote != nil:
		primary, secondary = doc.PromissoryNote.Beneficiary, doc.PromissoryNote.Debtor
		m.DueDate = doc.PromissoryNote.DueDate
	case doc.Type == entity.DocumentTypeReceipt && doc.Receipt != nil:
		primary, secondary = doc.Receipt.Issuer, doc.Receipt.Receiver
	}
	m.PrimaryPartyName, m.PrimaryPartyTaxID = primary.Name, primary.TaxID
	m.SecondaryPartyName, m.SecondaryPartyTaxID = secondary.Name, secondary.TaxID

	return m
}
