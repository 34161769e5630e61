package handler

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finedust/calendar-builder/internal/dto"
	"github.com/finedust/calendar-builder/internal/models"
	"github.com/finedust/calendar-builder/internal/service"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
	"github.com/finedust/calendar-builder/pkg/export"
	"github.com/finedust/calendar-builder/pkg/response"
)

type calendarBuilder interface {
	ListCurricula(ctx context.Context, courseCode string) ([]models.Curriculum, error)
	BuildLectures(ctx context.Context, req dto.CalendarRequest, in service.Interaction) (*service.CalendarBuild, error)
}

type calendarExporter interface {
	Render(format export.Format, events []models.LectureEvent) ([]byte, error)
	Publish(ctx context.Context, format export.Format, fileName string, events []models.LectureEvent) (*service.ExportResult, error)
	Open(ctx context.Context, token string) (io.ReadCloser, string, error)
}

// CalendarHandler exposes lecture calendars over HTTP. It never prompts:
// ambiguous forks and curricula are reported as errors.
type CalendarHandler struct {
	builder  calendarBuilder
	exporter calendarExporter
	location *time.Location
	logger   *zap.Logger
}

// NewCalendarHandler constructs the handler. Dates are interpreted in loc.
func NewCalendarHandler(builder calendarBuilder, exporter calendarExporter, loc *time.Location, logger *zap.Logger) *CalendarHandler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarHandler{builder: builder, exporter: exporter, location: loc, logger: logger}
}

// ListCurricula godoc
// @Summary List the curricula of a degree course
// @Tags Calendars
// @Produce json
// @Param course query string true "Degree course code"
// @Success 200 {object} response.Envelope
// @Router /curricula [get]
func (h *CalendarHandler) ListCurricula(c *gin.Context) {
	course := strings.TrimSpace(c.Query("course"))
	if course == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "course is required"))
		return
	}
	curricula, err := h.builder.ListCurricula(c.Request.Context(), course)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CurriculumResponse{Curricula: curricula}, map[string]interface{}{"count": len(curricula)})
}

// ListLectures godoc
// @Summary List the lectures of the selected teachings
// @Tags Calendars
// @Produce json
// @Param curriculum query string false "Curriculum code"
// @Param course query string false "Degree course code"
// @Param year query int false "Academic year"
// @Param teaching query []string false "Teaching id or name"
// @Param fork query string false "Fork hint"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /lectures [get]
func (h *CalendarHandler) ListLectures(c *gin.Context) {
	build, _, ok := h.build(c, h.bindQuery)
	if !ok {
		return
	}
	lectures := make([]dto.LectureResponse, 0, len(build.Events))
	for _, ev := range build.Events {
		item := dto.LectureResponse{
			TeachingID:  ev.Teaching.ID,
			Title:       service.EventTitle(ev.Teaching.SubjectDescription),
			Description: service.EventDescription(ev.Teaching.TeacherName),
			Start:       ev.Lecture.Start,
			End:         ev.Lecture.End,
			Location:    ev.Lecture.Location,
			URL:         ev.Teaching.URL,
			Notes:       ev.Lecture.Notes,
		}
		lectures = append(lectures, item)
	}
	response.JSON(c, http.StatusOK, lectures, map[string]interface{}{
		"curriculum": build.CurriculumCode,
		"courses":    len(build.Courses),
		"count":      len(lectures),
	})
}

// Calendar godoc
// @Summary Download the calendar of the selected teachings
// @Tags Calendars
// @Produce octet-stream
// @Param format query string false "ics, csv or pdf"
// @Success 200 {file} binary
// @Router /calendar [get]
func (h *CalendarHandler) Calendar(c *gin.Context) {
	build, req, ok := h.build(c, h.bindQuery)
	if !ok {
		return
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	payload, err := h.exporter.Render(format, build.Events)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "lectures"+format.Extension(), format.ContentType(), payload)
}

// CreateExport godoc
// @Summary Store a calendar and return a signed download link
// @Tags Calendars
// @Accept json
// @Produce json
// @Param payload body dto.CalendarQuery true "Calendar request"
// @Success 201 {object} response.Envelope
// @Router /exports [post]
func (h *CalendarHandler) CreateExport(c *gin.Context) {
	build, req, ok := h.build(c, h.bindJSON)
	if !ok {
		return
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	result, err := h.exporter.Publish(c.Request.Context(), format, req.FileName, build.Events)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("calendar published", zap.String("export_id", result.ID), zap.Int("lectures", result.Lectures))
	response.Created(c, dto.ExportResponse{
		ID:        result.ID,
		FileName:  result.Name,
		Format:    string(result.Format),
		Lectures:  result.Lectures,
		URL:       result.URL,
		ExpiresAt: result.ExpiresAt,
	})
}

// DownloadExport godoc
// @Summary Download a stored calendar via signed token
// @Tags Calendars
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Router /exports/download [get]
func (h *CalendarHandler) DownloadExport(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	rc, name, err := h.exporter.Open(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close() //nolint:errcheck
	format, err := export.ParseFormat(path.Ext(name))
	if err != nil {
		format = export.FormatICS
	}
	response.Stream(c, name, format.ContentType(), rc)
}

func (h *CalendarHandler) bindQuery(c *gin.Context, q *dto.CalendarQuery) error {
	return c.ShouldBindQuery(q)
}

func (h *CalendarHandler) bindJSON(c *gin.Context, q *dto.CalendarQuery) error {
	return c.ShouldBindJSON(q)
}

// build binds the request and runs the pipeline, writing the error response on failure.
func (h *CalendarHandler) build(c *gin.Context, bind func(*gin.Context, *dto.CalendarQuery) error) (*service.CalendarBuild, dto.CalendarRequest, bool) {
	var q dto.CalendarQuery
	if err := bind(c, &q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar request"))
		return nil, dto.CalendarRequest{}, false
	}
	req, err := q.ToRequest(h.location, time.Now())
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return nil, dto.CalendarRequest{}, false
	}
	build, err := h.builder.BuildLectures(c.Request.Context(), req, nil)
	if err != nil {
		response.Error(c, err)
		return nil, dto.CalendarRequest{}, false
	}
	return build, req, true
}
