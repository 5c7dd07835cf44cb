// Package cache implements Redis-backed decorators for repository interfaces.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mycfo/backend/internal/application/adapter"
)

const importedPaymentKeyPrefix = "imported_payments"

// importedPaymentCache is a read-through cache in front of the imported payment index.
// Only positive lookups are cached: an id seen once stays imported.
type importedPaymentCache struct {
	next   adapter.ImportedPaymentRepository
	client *redis.Client
	ttl    time.Duration
}

// NewImportedPaymentCache wraps next with a Redis set per organization and provider.
func NewImportedPaymentCache(next adapter.ImportedPaymentRepository, client *redis.Client, ttl time.Duration) adapter.ImportedPaymentRepository {
	return &importedPaymentCache{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func importedPaymentKey(organizationID uuid.UUID, provider string) string {
	return fmt.Sprintf("%s:%s:%s", importedPaymentKeyPrefix, organizationID, provider)
}

// FindExisting answers from Redis and asks the store only for the ids Redis does not hold.
// A Redis failure degrades to the store.
func (c *importedPaymentCache) FindExisting(
	ctx context.Context,
	organizationID uuid.UUID,
	provider string,
	externalIDs []string,
) (map[string]bool, error) {
	if len(externalIDs) == 0 {
		return c.next.FindExisting(ctx, organizationID, provider, externalIDs)
	}

	key := importedPaymentKey(organizationID, provider)
	hits, err := c.client.SMIsMember(ctx, key, toMembers(externalIDs)...).Result()
	if err != nil {
		slog.Warn("imported payment cache unavailable, using database",
			"organization_id", organizationID,
			"provider", provider,
			"error", err,
		)
		return c.next.FindExisting(ctx, organizationID, provider, externalIDs)
	}

	found := make(map[string]bool, len(externalIDs))
	misses := make([]string, 0, len(externalIDs))
	for i, id := range externalIDs {
		if hits[i] {
			found[id] = true
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return found, nil
	}

	stored, err := c.next.FindExisting(ctx, organizationID, provider, misses)
	if err != nil {
		return nil, err
	}

	warm := make([]string, 0, len(stored))
	for id, ok := range stored {
		if ok {
			found[id] = true
			warm = append(warm, id)
		}
	}
	c.remember(ctx, key, warm)

	return found, nil
}

// SaveImport writes through to the store, then records the new ids in Redis.
func (c *importedPaymentCache) SaveImport(ctx context.Context, batch adapter.ImportBatch) error {
	if err := c.next.SaveImport(ctx, batch); err != nil {
		return err
	}

	ids := make([]string, len(batch.Payments))
	for i, payment := range batch.Payments {
		ids[i] = payment.ExternalPaymentID
	}
	c.remember(ctx, importedPaymentKey(batch.OrganizationID, batch.Provider), ids)
	return nil
}

func (c *importedPaymentCache) remember(ctx context.Context, key string, ids []string) {
	if len(ids) == 0 {
		return
	}

	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, key, toMembers(ids)...)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("failed to cache imported payment ids", "key", key, "error", err)
	}
}

func toMembers(ids []string) []interface{} {
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	return members
}
