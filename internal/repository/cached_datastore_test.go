package repository

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type remoteCacheStub struct {
	entries     map[string][]json.RawMessage
	sets        int
	invalidated []string
}

func (r *remoteCacheStub) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	entry, ok := r.entries[key]
	if !ok {
		return false, nil
	}
	*(dest.(*[]json.RawMessage)) = entry
	return true, nil
}

func (r *remoteCacheStub) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	r.sets++
	r.entries[key] = value.([]json.RawMessage)
	return nil
}

func (r *remoteCacheStub) Invalidate(_ context.Context, pattern string) error {
	r.invalidated = append(r.invalidated, pattern)
	for key := range r.entries {
		if strings.HasPrefix(key, strings.TrimSuffix(pattern, "*")) {
			delete(r.entries, key)
		}
	}
	return nil
}

func TestCachedDatastoreServesRepeatsFromMemory(t *testing.T) {
	inner := &fetcherStub{records: map[string][]json.RawMessage{ResourceRooms: raw(t, `{"aula_codice":"A"}`)}}
	remote := &remoteCacheStub{entries: map[string][]json.RawMessage{}}
	cached := NewCachedDatastore(inner, 8, remote, time.Minute, nil)

	filters := map[string]any{"aula_codice": []string{"A"}}
	for i := 0; i < 3; i++ {
		records, err := cached.FetchRecords(context.Background(), ResourceRooms, filters, nil, 1)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	}
	assert.Len(t, inner.calls, 1)
	assert.Equal(t, 1, remote.sets)

	_, err := cached.FetchRecords(context.Background(), ResourceRooms, filters, nil, 2)
	require.NoError(t, err)
	assert.Len(t, inner.calls, 2, "a different limit is a different query")
}

func TestCachedDatastoreFallsBackToRemote(t *testing.T) {
	key, err := cacheKey(ResourceRooms, nil, nil, 5)
	require.NoError(t, err)
	remote := &remoteCacheStub{entries: map[string][]json.RawMessage{key: raw(t, `{"aula_codice":"Z"}`)}}
	inner := &fetcherStub{}
	cached := NewCachedDatastore(inner, 0, remote, time.Minute, nil)

	records, err := cached.FetchRecords(context.Background(), ResourceRooms, nil, nil, 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, inner.calls)
}

func TestCachedDatastoreDoesNotCacheErrors(t *testing.T) {
	inner := &fetcherStub{err: assert.AnError}
	cached := NewCachedDatastore(inner, 4, nil, time.Minute, nil)

	_, err := cached.FetchRecords(context.Background(), ResourceRooms, nil, nil, 5)
	require.Error(t, err)
	_, err = cached.FetchRecords(context.Background(), ResourceRooms, nil, nil, 5)
	require.Error(t, err)
	assert.Len(t, inner.calls, 2)
}

func TestCacheKeyIgnoresMapOrder(t *testing.T) {
	a, err := cacheKey(ResourceTeachings, map[string]any{"x": 1, "y": 2}, nil, 10)
	require.NoError(t, err)
	b, err := cacheKey(ResourceTeachings, map[string]any{"y": 2, "x": 1}, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, a, CacheKeyPrefix+ResourceTeachings)
}

func TestCachedDatastoreExpiresMemoryEntries(t *testing.T) {
	inner := &fetcherStub{records: map[string][]json.RawMessage{ResourceTimetables: raw(t, `{"componente_id":1}`)}}
	cached := NewCachedDatastore(inner, 8, nil, 50*time.Millisecond, nil)

	_, err := cached.FetchRecords(context.Background(), ResourceTimetables, nil, nil, 1)
	require.NoError(t, err)
	_, err = cached.FetchRecords(context.Background(), ResourceTimetables, nil, nil, 1)
	require.NoError(t, err)
	require.Len(t, inner.calls, 1)

	time.Sleep(120 * time.Millisecond)

	_, err = cached.FetchRecords(context.Background(), ResourceTimetables, nil, nil, 1)
	require.NoError(t, err)
	assert.Len(t, inner.calls, 2, "an expired timetable is fetched again")
}

func TestCachedDatastorePurge(t *testing.T) {
	inner := &fetcherStub{records: map[string][]json.RawMessage{ResourceRooms: raw(t, `{"aula_codice":"A"}`)}}
	remote := &remoteCacheStub{entries: map[string][]json.RawMessage{}}
	cached := NewCachedDatastore(inner, 8, remote, time.Hour, nil)

	_, err := cached.FetchRecords(context.Background(), ResourceRooms, nil, nil, 1)
	require.NoError(t, err)
	require.Len(t, remote.entries, 1)

	require.NoError(t, cached.Purge(context.Background()))
	assert.Equal(t, []string{CacheKeyPrefix + "*"}, remote.invalidated)
	assert.Empty(t, remote.entries)

	_, err = cached.FetchRecords(context.Background(), ResourceRooms, nil, nil, 1)
	require.NoError(t, err)
	assert.Len(t, inner.calls, 2)
}
