package reconciliation

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

// addStray stores an unlinked movement that scores zero against every fixture document.
func (f *fixture) addStray() *entity.Movement {
	stray := entity.NewMovement(orgID, uuid.New(), entity.MovementTypeExpense,
		decimal.RequireFromString("-7.00"), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "comision", entity.CurrencyARS)
	f.store.addMovement(stray)
	return stray
}

func TestGetPending_AttachesBestCandidate(t *testing.T) {
	f := newFixture()
	stray := f.addStray()

	output, err := f.pending.Execute(context.Background(), GetPendingInput{OrganizationID: orgID})

	require.NoError(t, err)
	require.Len(t, output.PendingMovements, 2)

	// Oldest issue date first.
	assert.Equal(t, stray.ID, output.PendingMovements[0].Movement.ID)
	assert.Nil(t, output.PendingMovements[0].BestCandidate)
	assert.Zero(t, output.PendingMovements[0].CandidateCount)

	top := output.PendingMovements[1]
	assert.Equal(t, f.movement.ID, top.Movement.ID)
	require.NotNil(t, top.BestCandidate)
	assert.Equal(t, f.invoice.ID, top.BestCandidate.Document.ID)
	assert.Equal(t, valueobject.SuggestionLevelHigh, top.BestCandidate.Level)
	assert.Equal(t, 2, top.CandidateCount)

	assert.Equal(t, int64(2), output.Summary.UnlinkedMovements)
	assert.Equal(t, int64(2), output.Summary.UnlinkedDocuments)
}

func TestGetPending_PagesAndSkipsLinked(t *testing.T) {
	f := newFixture()
	stray := f.addStray()

	page, err := f.pending.Execute(context.Background(), GetPendingInput{OrganizationID: orgID, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.PendingMovements, 1)
	assert.Equal(t, f.movement.ID, page.PendingMovements[0].Movement.ID)

	_, err = f.link.Execute(context.Background(), LinkInput{OrganizationID: orgID, MovementID: f.movement.ID, DocumentID: f.invoice.ID})
	require.NoError(t, err)

	output, err := f.pending.Execute(context.Background(), GetPendingInput{OrganizationID: orgID})
	require.NoError(t, err)
	require.Len(t, output.PendingMovements, 1)
	assert.Equal(t, stray.ID, output.PendingMovements[0].Movement.ID)
	assert.Equal(t, int64(1), output.Summary.LinkedMovements)
}

func TestGetPending_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.pending.Execute(context.Background(), GetPendingInput{})
	require.Error(t, err)
	requireCode(t, err, domainerror.ErrCodeMissingOrganization)

	f.store.failWith = errStoreDown
	_, err = f.pending.Execute(context.Background(), GetPendingInput{OrganizationID: orgID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))
}

func TestGetLinked_FlagsAmountMismatch(t *testing.T) {
	f := newFixture()
	short := entity.NewMovement(orgID, uuid.New(), entity.MovementTypeIncome,
		decimal.RequireFromString("500.00"), issued, "pago parcial", entity.CurrencyARS)
	f.store.addMovement(short)

	_, err := f.link.Execute(context.Background(), LinkInput{OrganizationID: orgID, MovementID: f.movement.ID, DocumentID: f.invoice.ID})
	require.NoError(t, err)
	_, err = f.link.Execute(context.Background(), LinkInput{OrganizationID: orgID, MovementID: short.ID, DocumentID: f.secondDoc.ID})
	require.NoError(t, err)

	output, err := f.linked.Execute(context.Background(), GetLinkedInput{OrganizationID: orgID})

	require.NoError(t, err)
	require.Len(t, output.LinkedPairs, 2)
	byMovement := make(map[uuid.UUID]LinkedPairOutput)
	for _, pair := range output.LinkedPairs {
		byMovement[pair.Movement.ID] = pair
	}

	exact := byMovement[f.movement.ID]
	assert.Equal(t, f.invoice.ID, exact.Document.ID)
	assert.True(t, exact.AmountDifference.IsZero())
	assert.False(t, exact.HasMismatch)

	partial := byMovement[short.ID]
	assert.Equal(t, f.secondDoc.ID, partial.Document.ID)
	assert.Equal(t, "-490", partial.AmountDifference.String())
	assert.True(t, partial.HasMismatch)

	assert.Equal(t, int64(2), output.Summary.LinkedMovements)
	assert.Zero(t, output.Summary.UnlinkedDocuments)

	page, err := f.linked.Execute(context.Background(), GetLinkedInput{OrganizationID: orgID, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.LinkedPairs, 1)
}

func TestGetLinked_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.linked.Execute(context.Background(), GetLinkedInput{})
	require.Error(t, err)
	requireCode(t, err, domainerror.ErrCodeMissingOrganization)

	f.store.failWith = errStoreDown
	_, err = f.linked.Execute(context.Background(), GetLinkedInput{OrganizationID: orgID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{limit: 0, offset: 0, wantLimit: defaultPageSize, wantOffset: 0},
		{limit: 5, offset: 10, wantLimit: 5, wantOffset: 10},
		{limit: 1000, offset: -3, wantLimit: maxPageSize, wantOffset: 0},
	}

	for _, tt := range tests {
		limit, offset := pageBounds(tt.limit, tt.offset)
		assert.Equal(t, tt.wantLimit, limit)
		assert.Equal(t, tt.wantOffset, offset)
	}
}
