//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mycfo/backend/internal/domain/entity"
	"github.com/mycfo/backend/internal/integration/persistence/model"
)

const seedDateLayout = "2006-01-02"

type movementSeed struct {
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	IssueDate         string          `json:"issue_date"`
	Currency          string          `json:"currency"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	CounterpartyName  string          `json:"counterparty_name"`
	CounterpartyTaxID string          `json:"counterparty_tax_id"`
}

type documentSeed struct {
	Type              string          `json:"document_type"`
	Flow              string          `json:"flow"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	IssueDate         string          `json:"issue_date"`
	Currency          string          `json:"currency"`
	Category          string          `json:"category"`
	RelatedPartyName  string          `json:"related_party_name"`
	RelatedPartyTaxID string          `json:"related_party_tax_id"`
}

// registerDataSteps registers database and cache steps.
func registerDataSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a movement "([^"]*)" exists with:$`, aMovementExistsWith)
	ctx.Step(`^a document "([^"]*)" exists with:$`, aDocumentExistsWith)
	ctx.Step(`^a document "([^"]*)" exists for organization "([^"]*)" with:$`, aDocumentExistsForOrganizationWith)
	ctx.Step(`^the table "([^"]*)" should have (\d+) rows? for my organization$`, theTableShouldHaveRowsForMyOrganization)
	ctx.Step(`^the movement "([^"]*)" should be linked to document "([^"]*)"$`, theMovementShouldBeLinkedToDocument)
	ctx.Step(`^the movement "([^"]*)" should be unlinked$`, theMovementShouldBeUnlinked)
	ctx.Step(`^the imported payment cache for provider "([^"]*)" should contain "([^"]*)"$`, theImportedPaymentCacheShouldContain)
}

func parseSeedDate(raw string) (time.Time, error) {
	date, err := time.Parse(seedDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid seed date %q: %w", raw, err)
	}
	return date, nil
}

func aMovementExistsWith(ctx context.Context, alias string, body *godog.DocString) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	if tc.organizationID == uuid.Nil {
		return ctx, fmt.Errorf("authenticate before seeding movements")
	}

	seed := movementSeed{Type: string(entity.MovementTypeIncome), Currency: string(entity.CurrencyARS)}
	if err := json.Unmarshal([]byte(body.Content), &seed); err != nil {
		return ctx, fmt.Errorf("failed to parse movement seed: %w", err)
	}
	issueDate, err := parseSeedDate(seed.IssueDate)
	if err != nil {
		return ctx, err
	}

	movement := entity.NewMovement(
		tc.organizationID,
		tc.userID,
		entity.MovementType(seed.Type),
		seed.Amount,
		issueDate,
		seed.Description,
		entity.Currency(seed.Currency),
	)
	movement.Category = seed.Category
	movement.CounterpartyName = seed.CounterpartyName
	movement.CounterpartyTaxID = seed.CounterpartyTaxID
	movement.Source = "manual"

	if err := tc.db.DbConn.WithContext(ctx).Create(model.MovementFromEntity(movement)).Error; err != nil {
		return ctx, fmt.Errorf("failed to seed movement: %w", err)
	}
	tc.movements[alias] = movement.ID
	return SetTestContext(ctx, tc), nil
}

func aDocumentExistsWith(ctx context.Context, number string, body *godog.DocString) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	if tc.organizationID == uuid.Nil {
		return ctx, fmt.Errorf("authenticate before seeding documents")
	}
	return seedDocument(ctx, tc, tc.organizationID, number, body.Content)
}

func aDocumentExistsForOrganizationWith(ctx context.Context, number, organization string, body *godog.DocString) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	return seedDocument(ctx, tc, organizationIDFor(organization), number, body.Content)
}

func seedDocument(ctx context.Context, tc *TestContext, organizationID uuid.UUID, number, content string) (context.Context, error) {
	seed := documentSeed{
		Type:     string(entity.DocumentTypeInvoice),
		Flow:     string(entity.DocumentFlowIncoming),
		Currency: string(entity.CurrencyARS),
	}
	if err := json.Unmarshal([]byte(content), &seed); err != nil {
		return ctx, fmt.Errorf("failed to parse document seed: %w", err)
	}
	issueDate, err := parseSeedDate(seed.IssueDate)
	if err != nil {
		return ctx, err
	}

	doc := entity.NewDocument(
		organizationID,
		tc.userID,
		entity.DocumentType(seed.Type),
		entity.DocumentFlow(seed.Flow),
		number,
		issueDate,
		seed.TotalAmount,
		entity.Currency(seed.Currency),
	)
	doc.Category = seed.Category

	// The related party sits on the side the flow points at.
	related := entity.Party{Name: seed.RelatedPartyName, TaxID: seed.RelatedPartyTaxID}
	incoming := doc.Flow != entity.DocumentFlowOutgoing
	switch doc.Type {
	case entity.DocumentTypeInvoice:
		doc.Invoice = &entity.InvoiceDetails{}
		if incoming {
			doc.Invoice.Buyer = related
		} else {
			doc.Invoice.Seller = related
		}
	case entity.DocumentTypePromissoryNote:
		doc.PromissoryNote = &entity.PromissoryNoteDetails{}
		if incoming {
			doc.PromissoryNote.Debtor = related
		} else {
			doc.PromissoryNote.Beneficiary = related
		}
	case entity.DocumentTypeReceipt:
		doc.Receipt = &entity.ReceiptDetails{}
		if incoming {
			doc.Receipt.Receiver = related
		} else {
			doc.Receipt.Issuer = related
		}
	default:
		return ctx, fmt.Errorf("unknown document type %q", seed.Type)
	}

	if err := tc.db.DbConn.WithContext(ctx).Create(model.DocumentFromEntity(doc)).Error; err != nil {
		return ctx, fmt.Errorf("failed to seed document: %w", err)
	}
	tc.documents[number] = doc.ID
	return SetTestContext(ctx, tc), nil
}

func theTableShouldHaveRowsForMyOrganization(ctx context.Context, table string, expected int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if _, ok := tc.db.GetModel(table); !ok {
		return fmt.Errorf("unknown table %q", table)
	}

	var count int64
	err := tc.db.DbConn.WithContext(ctx).
		Table(table).
		Where("organization_id = ?", tc.organizationID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count %s: %w", table, err)
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
	return nil
}

func loadMovement(ctx context.Context, tc *TestContext, alias string) (*entity.Movement, error) {
	id, ok := tc.movements[alias]
	if !ok {
		return nil, fmt.Errorf("unknown movement %q", alias)
	}

	var m model.MovementModel
	if err := tc.db.DbConn.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load movement %q: %w", alias, err)
	}
	return m.ToEntity(), nil
}

func theMovementShouldBeLinkedToDocument(ctx context.Context, alias, number string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	movement, err := loadMovement(ctx, tc, alias)
	if err != nil {
		return err
	}
	documentID, ok := tc.documents[number]
	if !ok {
		return fmt.Errorf("unknown document %q", number)
	}
	if !movement.IsLinked() || *movement.LinkedDocumentID != documentID {
		return fmt.Errorf("movement %q is %s, expected link to %s", alias, movement.ReconciliationState, number)
	}
	return nil
}

func theMovementShouldBeUnlinked(ctx context.Context, alias string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	movement, err := loadMovement(ctx, tc, alias)
	if err != nil {
		return err
	}
	if movement.IsLinked() || movement.LinkedDocumentID != nil {
		return fmt.Errorf("movement %q is still linked", alias)
	}
	return nil
}

func theImportedPaymentCacheShouldContain(ctx context.Context, provider, externalID string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	key := fmt.Sprintf("imported_payments:%s:%s", tc.organizationID, provider)
	ok, err := tc.redis.Client.SIsMember(ctx, key, externalID).Result()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("%s does not hold %q", key, externalID)
	}
	return nil
}
