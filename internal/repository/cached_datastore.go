package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// CacheKeyPrefix namespaces datastore responses in the shared cache.
const CacheKeyPrefix = "datastore:"

type responseCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// CachedDatastore answers repeated queries from an in-process LRU, then from the
// shared cache, before reaching the datastore. Both layers expire entries after ttl.
type CachedDatastore struct {
	next   RecordFetcher
	memory *expirable.LRU[string, []json.RawMessage]
	remote responseCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDatastore wraps next. remote may be nil; a non-positive ttl never expires.
func NewCachedDatastore(next RecordFetcher, memorySize int, remote responseCache, ttl time.Duration, logger *zap.Logger) *CachedDatastore {
	if memorySize <= 0 {
		memorySize = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDatastore{
		next:   next,
		memory: expirable.NewLRU[string, []json.RawMessage](memorySize, nil, ttl),
		remote: remote,
		ttl:    ttl,
		logger: logger,
	}
}

// Purge drops every cached datastore response, in memory and in the shared cache.
func (c *CachedDatastore) Purge(ctx context.Context) error {
	dropped := c.memory.Len()
	c.memory.Purge()
	c.logger.Info("datastore cache purged", zap.Int("memory_entries", dropped))
	if c.remote == nil {
		return nil
	}
	return c.remote.Invalidate(ctx, CacheKeyPrefix+"*")
}

// FetchRecords implements RecordFetcher.
func (c *CachedDatastore) FetchRecords(ctx context.Context, resource string, filters map[string]any, fields []string, limit int) ([]json.RawMessage, error) {
	key, err := cacheKey(resource, filters, fields, limit)
	if err != nil {
		return c.next.FetchRecords(ctx, resource, filters, fields, limit)
	}

	if records, ok := c.memory.Get(key); ok {
		return records, nil
	}

	if c.remote != nil {
		var records []json.RawMessage
		hit, err := c.remote.Get(ctx, key, &records)
		if err == nil && hit {
			c.memory.Add(key, records)
			return records, nil
		}
	}

	records, err := c.next.FetchRecords(ctx, resource, filters, fields, limit)
	if err != nil {
		return nil, err
	}
	c.memory.Add(key, records)
	if c.remote != nil && len(records) > 0 {
		if err := c.remote.Set(ctx, key, records, c.ttl); err != nil {
			c.logger.Debug("datastore response not cached", zap.String("resource", resource), zap.Error(err))
		}
	}
	return records, nil
}

// encoding/json sorts map keys, so equal queries share a key.
func cacheKey(resource string, filters map[string]any, fields []string, limit int) (string, error) {
	payload, err := json.Marshal(datastoreRequest{ResourceID: resource, Limit: limit, Filters: filters, Fields: fields})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return CacheKeyPrefix + resource + ":" + hex.EncodeToString(sum[:]), nil
}
