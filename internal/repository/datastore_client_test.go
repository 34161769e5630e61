package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

type observedRequest struct {
	resource string
	outcome  string
}

type observerStub struct {
	calls []observedRequest
}

func (o *observerStub) ObserveDatastoreRequest(resource, outcome string, _ time.Duration) {
	o.calls = append(o.calls, observedRequest{resource: resource, outcome: outcome})
}

func TestDatastoreClientFetchRecords(t *testing.T) {
	var received datastoreRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"success":true,"result":{"total":2,"records":[{"componente_id":1},{"componente_id":2}]}}`))
	}))
	defer server.Close()

	observer := &observerStub{}
	client := NewDatastoreClient(server.URL, server.Client(), 0, observer, nil)

	records, err := client.FetchRecords(context.Background(), ResourceTimetables,
		map[string]any{"componente_id": []string{"1", "2"}}, []string{"inizio"}, 50)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	assert.Equal(t, ResourceTimetables, received.ResourceID)
	assert.Equal(t, 50, received.Limit)
	assert.Equal(t, []string{"inizio"}, received.Fields)
	assert.Contains(t, received.Filters, "componente_id")
	require.Len(t, observer.calls, 1)
	assert.Equal(t, "ok", observer.calls[0].outcome)
}

func TestDatastoreClientReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":{"message":"resource not found"}}`))
	}))
	defer server.Close()

	observer := &observerStub{}
	client := NewDatastoreClient(server.URL, server.Client(), 0, observer, nil)

	_, err := client.FetchRecords(context.Background(), "missing", nil, nil, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstream))
	assert.Contains(t, err.Error(), "resource not found")
	assert.Equal(t, "error", observer.calls[0].outcome)
}

func TestDatastoreClientBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"error":{"message":"invalid filters"}}`))
	}))
	defer server.Close()

	client := NewDatastoreClient(server.URL, server.Client(), 0, nil, nil)
	_, err := client.FetchRecords(context.Background(), ResourceRooms, nil, nil, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstream))
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "invalid filters")
}

func TestDatastoreClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client := NewDatastoreClient(server.URL, server.Client(), 0, nil, nil)
	_, err := client.FetchRecords(context.Background(), ResourceRooms, nil, nil, 10)
	assert.True(t, errors.Is(err, appErrors.ErrMalformedData))
}

func TestDatastoreClientEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"result":{"total":0,"records":[]}}`))
	}))
	defer server.Close()

	observer := &observerStub{}
	client := NewDatastoreClient(server.URL, server.Client(), 0, observer, nil)
	records, err := client.FetchRecords(context.Background(), ResourceRooms, nil, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "empty", observer.calls[0].outcome)
}
