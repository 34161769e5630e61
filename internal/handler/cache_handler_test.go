package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purgerStub struct {
	calls int
	err   error
}

func (p *purgerStub) Purge(ctx context.Context) error {
	p.calls++
	return p.err
}

func TestCacheHandlerPurge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ok := &purgerStub{}
	broken := &purgerStub{err: errors.New("redis: connection refused")}

	r := gin.New()
	r.DELETE("/cache", NewCacheHandler(ok).Purge)
	r.DELETE("/broken", NewCacheHandler(broken).Purge)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cache", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"purged":true`)
	assert.Equal(t, 1, ok.calls)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/broken", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, broken.calls)
}
