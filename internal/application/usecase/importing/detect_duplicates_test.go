package importing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

const provider = "mercadopago"

var (
	orgA = uuid.MustParse("6a1d7c1e-0000-4000-8000-00000000000a")
	orgB = uuid.MustParse("6a1d7c1e-0000-4000-8000-00000000000b")
)

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal { return ptr(decimal.RequireFromString(s)) }

func date(y int, m time.Month, d int) *time.Time {
	return ptr(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func record(externalID, amount string, when *time.Time, description string) entity.ImportedPaymentRecord {
	return entity.ImportedPaymentRecord{
		ExternalPaymentID: externalID,
		Amount:            dec(amount),
		IssueDate:         when,
		Description:       ptr(description),
		Counterparty:      ptr("Juan Perez"),
	}
}

func storedMovement(org uuid.UUID, amount string, when time.Time, description, counterparty string) *entity.Movement {
	m := entity.NewMovement(org, uuid.New(), entity.MovementTypeIncome, decimal.RequireFromString(amount), when, description, entity.CurrencyARS)
	m.CounterpartyName = counterparty
	return m
}

func newDetector(ledger *fakeLedger, metrics *fakeMetrics) *DetectDuplicatesUseCase {
	return NewDetectDuplicatesUseCase(ledger, ledger, metrics, 100)
}

func TestDetectDuplicates_EmptyBatch(t *testing.T) {
	ledger := newFakeLedger()

	output, err := newDetector(ledger, newFakeMetrics()).Execute(context.Background(), DetectDuplicatesInput{
		OrganizationID: orgA,
		Provider:       provider,
	})

	require.NoError(t, err)
	assert.Empty(t, output.Results)
	assert.Empty(t, ledger.dayQueries)
	assert.Empty(t, ledger.idQueries)
}

func TestDetectDuplicates_ExternalIDIsAuthoritative(t *testing.T) {
	ledger := newFakeLedger()
	metrics := newFakeMetrics()
	ledger.payments[paymentKey(orgA, provider, "mp-1")] = uuid.New()
	// Same content as the record, so the content check would also hit.
	ledger.movements = append(ledger.movements, storedMovement(orgA, "150.00", *date(2024, 4, 1), "Cuota", "Juan Perez"))

	output, err := newDetector(ledger, metrics).Execute(context.Background(), DetectDuplicatesInput{
		OrganizationID: orgA,
		Provider:       provider,
		Records:        []entity.ImportedPaymentRecord{record("mp-1", "150.00", date(2024, 4, 1), "Cuota")},
	})

	require.NoError(t, err)
	require.Len(t, output.Results, 1)
	assert.True(t, output.Results[0].IsDuplicate)
	assert.Equal(t, valueobject.ReasonDuplicateExternalID, output.Results[0].Reason)
	assert.Equal(t, 1, metrics.duplicates[duplicateByExternalID])
	assert.Zero(t, metrics.duplicates[duplicateByContent])
}

func TestDetectDuplicates_ContentKey(t *testing.T) {
	ledger := newFakeLedger()
	ledger.movements = append(ledger.movements,
		storedMovement(orgA, "150.004", *date(2024, 4, 1), "  CUOTA gimnasio ", "juan perez"),
		storedMovement(orgA, "80.00", *date(2024, 4, 2), "", ""),
	)

	records := []entity.ImportedPaymentRecord{
		// Unseen external id falls through to the content check.
		record("mp-9", "150.00", date(2024, 4, 1), "cuota gimnasio"),
		record("", "150.00", date(2024, 4, 2), "cuota gimnasio"),
		record("", "150.01", date(2024, 4, 1), "cuota gimnasio"),
		{Amount: dec("80.00"), IssueDate: date(2024, 4, 2)},
		{Amount: nil, IssueDate: date(2024, 4, 2)},
		{Amount: dec("80.00"), IssueDate: nil},
	}

	output, err := newDetector(ledger, newFakeMetrics()).Execute(context.Background(), DetectDuplicatesInput{
		OrganizationID: orgA,
		Provider:       provider,
		Records:        records,
	})

	require.NoError(t, err)
	require.Len(t, output.Results, len(records))

	expected := []bool{true, false, false, true, false, false}
	for i, want := range expected {
		assert.Equal(t, i, output.Results[i].Index)
		assert.Equal(t, want, output.Results[i].IsDuplicate, "record %d", i)
		if want {
			assert.Equal(t, valueobject.ReasonDuplicateContent, output.Results[i].Reason)
		} else {
			assert.Empty(t, output.Results[i].Reason)
		}
	}
	assert.Equal(t, 2, output.DuplicateCount)

	// One bounded lookup over the distinct days of the batch.
	require.Len(t, ledger.dayQueries, 1)
	assert.Equal(t, []string{"2024-04-01", "2024-04-02"}, ledger.dayQueries[0])
	require.Len(t, ledger.idQueries, 1)
	assert.Equal(t, []string{"mp-9"}, ledger.idQueries[0])
}

func TestDetectDuplicates_BatchLimit(t *testing.T) {
	ledger := newFakeLedger()
	detector := NewDetectDuplicatesUseCase(ledger, ledger, newFakeMetrics(), 2)
	records := []entity.ImportedPaymentRecord{
		record("mp-1", "1.00", date(2024, 1, 1), "a"),
		record("mp-2", "2.00", date(2024, 1, 2), "b"),
		record("mp-3", "3.00", date(2024, 1, 3), "c"),
	}

	_, err := detector.Execute(context.Background(), DetectDuplicatesInput{
		OrganizationID: orgA,
		Provider:       provider,
		Records:        records,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerror.ErrImportBatchTooLarge))
	var importErr *domainerror.ImportError
	require.True(t, errors.As(err, &importErr))
	assert.Equal(t, domainerror.ErrCodeImportBatchTooLarge, importErr.Code)
	assert.Empty(t, ledger.dayQueries)
	assert.Empty(t, ledger.idQueries)

	output, err := detector.Execute(context.Background(), DetectDuplicatesInput{
		OrganizationID: orgA,
		Provider:       provider,
		Records:        records[:2],
	})
	require.NoError(t, err)
	assert.Len(t, output.Results, 2)
}

func TestDetectDuplicates_RoundTrip(t *testing.T) {
	ledger := newFakeLedger()
	metrics := newFakeMetrics()
	detector := newDetector(ledger, metrics)
	importer := NewImportPaymentsUseCase(detector, ledger, metrics)

	withID := record("mp-77", "999.90", date(2024, 5, 5), "Venta online")
	withoutID := record("", "120.00", date(2024, 5, 5), "Transferencia")

	first, err := detector.Execute(context.Background(), DetectDuplicatesInput{
		OrganizationID: orgA,
		Provider:       provider,
		Records:        []entity.ImportedPaymentRecord{withID, withoutID},
	})
	require.NoError(t, err)
	assert.Zero(t, first.DuplicateCount)

	_, err = importer.Execute(context.Background(), ImportPaymentsInput{
		OrganizationID: orgA,
		Provider:       provider,
		Currency:       entity.CurrencyARS,
		Records:        []entity.ImportedPaymentRecord{withID, withoutID},
	})
	require.NoError(t, err)

	second, err := detector.Execute(context.Background(), DetectDuplicatesInput{
		OrganizationID: orgA,
		Provider:       provider,
		Records:        []entity.ImportedPaymentRecord{withID, withoutID},
	})
	require.NoError(t, err)
	assert.Equal(t, valueobject.ReasonDuplicateExternalID, second.Results[0].Reason)
	assert.Equal(t, valueobject.ReasonDuplicateContent, second.Results[1].Reason)
}

func TestDetectDuplicates_CrossOrganizationIsolation(t *testing.T) {
	ledger := newFakeLedger()
	ledger.payments[paymentKey(orgA, provider, "mp-1")] = uuid.New()
	ledger.movements = append(ledger.movements, storedMovement(orgA, "150.00", *date(2024, 4, 1), "Cuota", "Juan Perez"))

	output, err := newDetector(ledger, newFakeMetrics()).Execute(context.Background(), DetectDuplicatesInput{
		OrganizationID: orgB,
		Provider:       provider,
		Records:        []entity.ImportedPaymentRecord{record("mp-1", "150.00", date(2024, 4, 1), "Cuota")},
	})

	require.NoError(t, err)
	assert.False(t, output.Results[0].IsDuplicate)
}

func TestDetectDuplicates_InvalidInput(t *testing.T) {
	ledger := newFakeLedger()
	detector := newDetector(ledger, newFakeMetrics())

	_, err := detector.Execute(context.Background(), DetectDuplicatesInput{Provider: provider})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerror.ErrInvalidInput))

	_, err = detector.Execute(context.Background(), DetectDuplicatesInput{
		OrganizationID: orgA,
		Records:        []entity.ImportedPaymentRecord{record("mp-1", "1", date(2024, 1, 1), "x")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerror.ErrMissingProvider))
}

func TestDetectDuplicates_StoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection reset")

	tests := []struct {
		name  string
		setup func(*fakeLedger)
	}{
		{name: "payment index", setup: func(l *fakeLedger) { l.findErr = storeErr }},
		{name: "movement store", setup: func(l *fakeLedger) { l.listErr = storeErr }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newFakeLedger()
			tt.setup(ledger)

			_, err := newDetector(ledger, newFakeMetrics()).Execute(context.Background(), DetectDuplicatesInput{
				OrganizationID: orgA,
				Provider:       provider,
				Records:        []entity.ImportedPaymentRecord{record("mp-1", "10.00", date(2024, 1, 1), "x")},
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, storeErr))
		})
	}
}
