package response

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/finedust/calendar-builder/pkg/errors"
	"github.com/finedust/calendar-builder/pkg/middleware/requestid"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends data with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error converts err to the typed error contract. The request id, when known,
// is echoed in meta so failures can be matched with the server log.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	envelope := Envelope{Error: appErr}
	if id := requestid.Value(c); id != "" {
		envelope.Meta = map[string]interface{}{"request_id": id}
	}
	c.JSON(appErr.Status, envelope)
}

// Attachment sends payload as a downloadable file.
func Attachment(c *gin.Context, fileName, contentType string, payload []byte) {
	noStore(c)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, contentType, payload)
}

// Stream sends the content of r as a downloadable file of unknown length.
func Stream(c *gin.Context, fileName, contentType string, r io.Reader) {
	noStore(c)
	c.DataFromReader(http.StatusOK, -1, contentType, r, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", fileName),
	})
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
