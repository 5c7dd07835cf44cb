package reconciliation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

func TestTriggerReconciliation_SortsPendingMovements(t *testing.T) {
	f := newFixture()
	stray := f.addStray()
	// Exact amount and same day as the receipt, nothing else: MEDIUM.
	medium := entity.NewMovement(orgID, uuid.New(), entity.MovementTypeIncome,
		decimal.RequireFromString("990.00"), f.secondDoc.IssueDate, "cobro recibo", entity.CurrencyARS)
	f.store.addMovement(medium)

	output, err := f.trigger.Execute(context.Background(), TriggerReconciliationInput{OrganizationID: orgID})

	require.NoError(t, err)
	assert.Equal(t, ReconciliationResultSummary{AutoLinked: 1, RequiresSelection: 1, NoMatch: 1}, output.Summary)

	require.Len(t, output.AutoLinked, 1)
	auto := output.AutoLinked[0]
	assert.Equal(t, f.movement.ID, auto.Movement.ID)
	assert.Equal(t, f.invoice.ID, auto.Candidate.Document.ID)
	assert.Equal(t, valueobject.SuggestionLevelHigh, auto.Candidate.Level)
	assert.Equal(t, entity.ReconciliationStateLinked, auto.Movement.ReconciliationState)

	require.Len(t, output.RequiresSelection, 1)
	assert.Equal(t, medium.ID, output.RequiresSelection[0].Movement.ID)
	// The invoice was taken earlier in the run.
	require.Len(t, output.RequiresSelection[0].Candidates, 1)
	assert.Equal(t, f.secondDoc.ID, output.RequiresSelection[0].Candidates[0].Document.ID)
	assert.Equal(t, valueobject.SuggestionLevelMedium, output.RequiresSelection[0].Candidates[0].Level)

	require.Len(t, output.NoMatch, 1)
	assert.Equal(t, stray.ID, output.NoMatch[0].ID)

	stored := f.store.movements[f.movement.ID]
	assert.True(t, stored.IsLinked())
	assert.Equal(t, f.invoice.ID, *stored.LinkedDocumentID)
	assert.False(t, f.store.movements[medium.ID].IsLinked())
	assert.Equal(t, 1, f.metrics.autoLinked)
}

func TestTriggerReconciliation_TwoHighCandidatesNeedSelection(t *testing.T) {
	f := newFixture()
	twin := *f.invoice
	twin.ID = uuid.MustParse("00000000-0000-4000-8000-00000000000c")
	twin.Number = "A-0002"
	f.store.addDocument(&twin)

	output, err := f.trigger.Execute(context.Background(), TriggerReconciliationInput{OrganizationID: orgID})

	require.NoError(t, err)
	assert.Empty(t, output.AutoLinked)
	require.Len(t, output.RequiresSelection, 1)
	assert.Len(t, output.RequiresSelection[0].Candidates, 3)
	assert.Zero(t, f.store.linkCalls)
	assert.False(t, f.store.movements[f.movement.ID].IsLinked())
}

func TestTriggerReconciliation_LostRaceSuggestsAgain(t *testing.T) {
	f := newFixture()
	f.store.raceOn[f.invoice.ID] = true

	output, err := f.trigger.Execute(context.Background(), TriggerReconciliationInput{OrganizationID: orgID})

	require.NoError(t, err)
	assert.Empty(t, output.AutoLinked)
	require.Len(t, output.RequiresSelection, 1)
	candidates := output.RequiresSelection[0].Candidates
	require.Len(t, candidates, 1)
	assert.Equal(t, f.secondDoc.ID, candidates[0].Document.ID)
	assert.Equal(t, 1, f.store.linkCalls)
	assert.Equal(t, 1, f.metrics.conflicts)
	assert.False(t, f.store.movements[f.movement.ID].IsLinked())
}

func TestTriggerReconciliation_SingleMovement(t *testing.T) {
	t.Run("links only the requested movement", func(t *testing.T) {
		f := newFixture()
		f.addStray()
		id := f.movement.ID

		output, err := f.trigger.Execute(context.Background(), TriggerReconciliationInput{OrganizationID: orgID, MovementID: &id})

		require.NoError(t, err)
		assert.Equal(t, ReconciliationResultSummary{AutoLinked: 1}, output.Summary)
		assert.True(t, f.store.movements[id].IsLinked())
	})

	t.Run("already linked movement is a no-op", func(t *testing.T) {
		f := newFixture()
		id := f.movement.ID
		_, err := f.link.Execute(context.Background(), LinkInput{OrganizationID: orgID, MovementID: id, DocumentID: f.secondDoc.ID})
		require.NoError(t, err)
		calls := f.store.linkCalls

		output, err := f.trigger.Execute(context.Background(), TriggerReconciliationInput{OrganizationID: orgID, MovementID: &id})

		require.NoError(t, err)
		assert.Equal(t, ReconciliationResultSummary{}, output.Summary)
		assert.Equal(t, calls, f.store.linkCalls)
	})
}

func TestTriggerReconciliation_Errors(t *testing.T) {
	f := newFixture()
	unknown := uuid.New()
	nilID := uuid.Nil

	tests := []struct {
		name  string
		input TriggerReconciliationInput
		code  domainerror.ReconciliationErrorCode
	}{
		{name: "missing organization", input: TriggerReconciliationInput{}, code: domainerror.ErrCodeMissingOrganization},
		{name: "nil movement id", input: TriggerReconciliationInput{OrganizationID: orgID, MovementID: &nilID}, code: domainerror.ErrCodeInvalidMovementID},
		{name: "unknown movement", input: TriggerReconciliationInput{OrganizationID: orgID, MovementID: &unknown}, code: domainerror.ErrCodeMovementNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.trigger.Execute(context.Background(), tt.input)
			require.Error(t, err)
			requireCode(t, err, tt.code)
		})
	}

	f.store.failWith = errStoreDown
	_, err := f.trigger.Execute(context.Background(), TriggerReconciliationInput{OrganizationID: orgID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))
}
