package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

// RecordFetcher retrieves raw records of a datastore resource.
type RecordFetcher interface {
	FetchRecords(ctx context.Context, resource string, filters map[string]any, fields []string, limit int) ([]json.RawMessage, error)
}

type datastoreObserver interface {
	ObserveDatastoreRequest(resource, outcome string, duration time.Duration)
}

// DatastoreClient queries a CKAN datastore_search endpoint.
type DatastoreClient struct {
	url        string
	httpClient *http.Client
	metrics    datastoreObserver
	logger     *zap.Logger
}

// NewDatastoreClient constructs the client. A nil httpClient gets a client with the given timeout.
func NewDatastoreClient(url string, httpClient *http.Client, timeout time.Duration, metrics datastoreObserver, logger *zap.Logger) *DatastoreClient {
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatastoreClient{
		url:        strings.TrimSpace(url),
		httpClient: httpClient,
		metrics:    metrics,
		logger:     logger,
	}
}

type datastoreRequest struct {
	ResourceID string         `json:"resource_id"`
	Limit      int            `json:"limit"`
	Filters    map[string]any `json:"filters,omitempty"`
	Fields     []string       `json:"fields,omitempty"`
}

type datastoreResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Records []json.RawMessage `json:"records"`
		Total   int               `json:"total"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// FetchRecords posts a datastore_search query and returns the raw records.
func (c *DatastoreClient) FetchRecords(ctx context.Context, resource string, filters map[string]any, fields []string, limit int) ([]json.RawMessage, error) {
	start := time.Now()
	records, err := c.fetch(ctx, resource, filters, fields, limit)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		c.logger.Warn("datastore request failed", zap.String("resource", resource), zap.Error(err))
	} else if len(records) == 0 {
		outcome = "empty"
	}
	if c.metrics != nil {
		c.metrics.ObserveDatastoreRequest(resource, outcome, time.Since(start))
	}
	return records, err
}

func (c *DatastoreClient) fetch(ctx context.Context, resource string, filters map[string]any, fields []string, limit int) ([]json.RawMessage, error) {
	if c.url == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "datastore url missing")
	}
	payload, err := json.Marshal(datastoreRequest{ResourceID: resource, Limit: limit, Filters: filters, Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("marshal datastore query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build datastore request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("datastore request", zap.String("resource", resource), zap.ByteString("payload", payload))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "datastore request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	var body datastoreResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("bad response code: %d", resp.StatusCode)
		if decodeErr == nil && body.Error != nil && body.Error.Message != "" {
			msg = fmt.Sprintf("%s (%s)", msg, body.Error.Message)
		}
		return nil, appErrors.Clone(appErrors.ErrUpstream, msg)
	}
	if decodeErr != nil {
		return nil, appErrors.Wrap(decodeErr, appErrors.ErrMalformedData.Code, appErrors.ErrMalformedData.Status, "decode datastore response")
	}
	if !body.Success {
		msg := "datastore reported a failure"
		if body.Error != nil && body.Error.Message != "" {
			msg = "an error occurred: " + body.Error.Message
		}
		return nil, appErrors.Clone(appErrors.ErrUpstream, msg)
	}
	return body.Result.Records, nil
}
