package valueobject

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mycfo/backend/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestDuplicateKey_NormalizesComponents(t *testing.T) {
	morning := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC)
	a := decimal.RequireFromString("1500.004")
	b := decimal.RequireFromString("1500")

	first := NewDuplicateKey(&morning, &a, strPtr("  Pago Alquiler "), strPtr("ACME SA"))
	second := NewDuplicateKey(&evening, &b, strPtr("pago alquiler"), strPtr(" acme sa"))

	assert.Equal(t, first, second)
	assert.Equal(t, "2024-03-10", first.Day)
	assert.Equal(t, "1500.00", first.Amount)
}

func TestDuplicateKey_AbsentOnlyEqualsAbsent(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	zero := decimal.Zero

	noAmount := NewDuplicateKey(&day, nil, strPtr("x"), nil)
	zeroAmount := NewDuplicateKey(&day, &zero, strPtr("x"), nil)
	alsoNoAmount := NewDuplicateKey(&day, nil, strPtr("x"), nil)

	assert.NotEqual(t, noAmount, zeroAmount)
	assert.Equal(t, noAmount, alsoNoAmount)
}

func TestDuplicateKey_BlankAndNilTextMatch(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("10")

	assert.Equal(t,
		NewDuplicateKey(&day, &amount, nil, nil),
		NewDuplicateKey(&day, &amount, strPtr("   "), strPtr("")),
	)
}

func TestKeyForMovement_MatchesRecord(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("-250.5")

	movement := &entity.Movement{
		IssueDate:        day,
		Amount:           amount,
		Description:      "Transferencia",
		CounterpartyName: "Juan Pérez",
	}
	record := entity.ImportedPaymentRecord{
		IssueDate:    &day,
		Amount:       &amount,
		Description:  strPtr("TRANSFERENCIA"),
		Counterparty: strPtr("juan pérez"),
	}

	assert.Equal(t, KeyForMovement(movement), KeyForRecord(record))
}
