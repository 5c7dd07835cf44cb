package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycfo/backend/internal/application/adapter"
)

var orgID = uuid.MustParse("d3b07384-0000-4000-8000-000000000001")

type fakeIndex struct {
	ids     map[string]bool
	lookups [][]string
	saveErr error
}

func (f *fakeIndex) FindExisting(_ context.Context, _ uuid.UUID, _ string, externalIDs []string) (map[string]bool, error) {
	f.lookups = append(f.lookups, externalIDs)
	found := make(map[string]bool)
	for _, id := range externalIDs {
		if f.ids[id] {
			found[id] = true
		}
	}
	return found, nil
}

func (f *fakeIndex) SaveImport(_ context.Context, batch adapter.ImportBatch) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, p := range batch.Payments {
		f.ids[p.ExternalPaymentID] = true
	}
	return nil
}

func newCache(t *testing.T, next *fakeIndex) (adapter.ImportedPaymentRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewImportedPaymentCache(next, client, time.Hour), server
}

func TestImportedPaymentCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	next := &fakeIndex{ids: map[string]bool{"mp-1": true}}
	repo, server := newCache(t, next)

	found, err := repo.FindExisting(ctx, orgID, "mercadopago", []string{"mp-1", "mp-2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"mp-1": true}, found)

	key := importedPaymentKey(orgID, "mercadopago")
	isMember, err := server.SIsMember(key, "mp-1")
	require.NoError(t, err)
	assert.True(t, isMember)
	assert.Greater(t, server.TTL(key), time.Duration(0))

	// Second lookup only asks the store about the id Redis has not seen.
	found, err = repo.FindExisting(ctx, orgID, "mercadopago", []string{"mp-1", "mp-2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"mp-1": true}, found)
	require.Len(t, next.lookups, 2)
	assert.Equal(t, []string{"mp-2"}, next.lookups[1])
}

func TestImportedPaymentCache_SaveWritesThrough(t *testing.T) {
	ctx := context.Background()
	next := &fakeIndex{ids: map[string]bool{}}
	repo, _ := newCache(t, next)

	err := repo.SaveImport(ctx, adapter.ImportBatch{
		OrganizationID: orgID,
		Provider:       "mercadopago",
		Payments:       []adapter.ImportedPaymentEntry{{ExternalPaymentID: "mp-9", MovementID: uuid.New()}},
	})
	require.NoError(t, err)
	assert.True(t, next.ids["mp-9"])

	found, err := repo.FindExisting(ctx, orgID, "mercadopago", []string{"mp-9"})
	require.NoError(t, err)
	assert.True(t, found["mp-9"])
	assert.Empty(t, next.lookups)

	// Scoped per organization and provider.
	found, err = repo.FindExisting(ctx, uuid.New(), "mercadopago", []string{"mp-9"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestImportedPaymentCache_FailedSaveCachesNothing(t *testing.T) {
	ctx := context.Background()
	next := &fakeIndex{ids: map[string]bool{}, saveErr: errors.New("tx aborted")}
	repo, server := newCache(t, next)

	err := repo.SaveImport(ctx, adapter.ImportBatch{
		OrganizationID: orgID,
		Provider:       "mercadopago",
		Payments:       []adapter.ImportedPaymentEntry{{ExternalPaymentID: "mp-9", MovementID: uuid.New()}},
	})

	require.Error(t, err)
	assert.False(t, server.Exists(importedPaymentKey(orgID, "mercadopago")))
}

func TestImportedPaymentCache_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	next := &fakeIndex{ids: map[string]bool{"mp-1": true}}
	repo, server := newCache(t, next)
	server.Close()

	found, err := repo.FindExisting(ctx, orgID, "mercadopago", []string{"mp-1"})

	require.NoError(t, err)
	assert.True(t, found["mp-1"])
	require.Len(t, next.lookups, 1)
}
