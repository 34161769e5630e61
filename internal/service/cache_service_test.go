package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

type memoryCacheRepo struct {
	values map[string][]byte
	ttls   map[string]time.Duration
	err    error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (r *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if r.err != nil {
		return r.err
	}
	raw, ok := r.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.values[key] = raw
	r.ttls[key] = ttl
	return nil
}

func (r *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	for k := range r.values {
		if matched, _ := filepath.Match(pattern, k); matched {
			delete(r.values, k)
		}
	}
	return nil
}

func TestCacheServiceHitMissAndTTL(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, NewMetricsService(), time.Hour, nil, true)
	ctx := context.Background()

	var got []string
	hit, err := svc.Get(ctx, "datastore:rooms:1", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "datastore:rooms:1", []string{"A", "B"}, 0))
	assert.Equal(t, time.Hour, repo.ttls["datastore:rooms:1"])

	hit, err = svc.Get(ctx, "datastore:rooms:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"A", "B"}, got)

	require.NoError(t, svc.Invalidate(ctx, "datastore:*"))
	hit, err = svc.Get(ctx, "datastore:rooms:1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceDisabledAndFailing(t *testing.T) {
	var nilService *CacheService
	assert.False(t, nilService.Enabled())
	hit, err := nilService.Get(context.Background(), "k", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)

	disabled := NewCacheService(newMemoryCacheRepo(), nil, 0, nil, false)
	require.NoError(t, disabled.Set(context.Background(), "k", 1, 0))

	repo := newMemoryCacheRepo()
	repo.err = errors.New("connection refused")
	failing := NewCacheService(repo, nil, 0, nil, true)
	_, err = failing.Get(context.Background(), "k", &struct{}{})
	assert.Error(t, err)
}

func TestMetricsServiceWriteTextfile(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveDatastoreRequest("orari_latest", "ok", 150*time.Millisecond)
	metrics.AddLectures(12)
	metrics.IncExport("ics")

	path := filepath.Join(t.TempDir(), "calendar_builder.prom")
	require.NoError(t, metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `datastore_requests_total{outcome="ok",resource="orari_latest"} 1`)
	assert.Contains(t, string(data), "lectures_resolved_total 12")
	assert.Contains(t, string(data), `calendar_exports_total{format="ics"} 1`)

	var nilMetrics *MetricsService
	require.NoError(t, nilMetrics.WriteTextfile(path))
}
