package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/finedust/calendar-builder/pkg/errors"
	"github.com/finedust/calendar-builder/pkg/response"
)

type cachePurger interface {
	Purge(ctx context.Context) error
}

// CacheHandler manages the datastore response cache.
type CacheHandler struct {
	purger cachePurger
}

func NewCacheHandler(purger cachePurger) *CacheHandler {
	return &CacheHandler{purger: purger}
}

// Purge godoc
// @Summary Drop every cached datastore response
// @Tags Cache
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /cache [delete]
func (h *CacheHandler) Purge(c *gin.Context) {
	if err := h.purger.Purge(c.Request.Context()); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to purge the datastore cache"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"purged": true})
}
