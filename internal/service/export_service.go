package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finedust/calendar-builder/internal/models"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
	"github.com/finedust/calendar-builder/pkg/export"
	"github.com/finedust/calendar-builder/pkg/storage"
)

// subjectCode matches the short code suffix of a subject, e.g. "(CDS-1)".
var subjectCode = regexp.MustCompile(`\([\p{L}\p{N}_-]*\)`)

// DefaultFileName is where calendars are written when no name is given.
const DefaultFileName = "lectures.ics"

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix    string
	ResultTTL    time.Duration
	Directory    string
	CalendarName string
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	ID        string
	Name      string
	Token     string
	URL       string
	Format    export.Format
	Lectures  int
	ExpiresAt time.Time
}

type expiringStore interface {
	CleanupOlderThan(dir string, ttl time.Duration) ([]string, error)
}

// ExportService renders lecture events and persists the resulting calendars.
type ExportService struct {
	storage   storage.Store
	renderers map[export.Format]export.Renderer
	signer    *storage.SignedURLSigner
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService with the ICS, CSV and PDF renderers.
func NewExportService(store storage.Store, signer *storage.SignedURLSigner, cfg ExportConfig, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Directory == "" {
		cfg.Directory = "exports"
	}
	return &ExportService{
		storage: store,
		renderers: map[export.Format]export.Renderer{
			export.FormatICS: export.NewICSExporter(),
			export.FormatCSV: export.NewCSVExporter(),
			export.FormatPDF: export.NewPDFExporter(),
		},
		signer:  signer,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// LectureCalendar turns lecture events into calendar entries.
func (s *ExportService) LectureCalendar(events []models.LectureEvent) export.Calendar {
	created := s.now()
	cal := export.Calendar{Name: s.cfg.CalendarName, Events: make([]export.Event, 0, len(events))}
	for _, ev := range events {
		entry := export.Event{
			UID:         lectureUID(ev),
			Summary:     EventTitle(ev.Teaching.SubjectDescription),
			Description: EventDescription(ev.Teaching.TeacherName),
			Location:    ev.Lecture.Location,
			URL:         ev.Teaching.URL,
			Start:       ev.Lecture.Start,
			End:         ev.Lecture.End,
			Created:     created,
		}
		cal.Events = append(cal.Events, entry)
	}
	return cal
}

// EventTitle strips the code suffix from a subject description and capitalizes the rest.
func EventTitle(description string) string {
	return capitalize(strings.TrimSpace(subjectCode.ReplaceAllString(description, "")))
}

// EventDescription names the teacher, if any.
func EventDescription(teacherName string) string {
	if strings.TrimSpace(teacherName) == "" {
		return ""
	}
	return "Tenuto da " + titleCase(teacherName)
}

// lectureUID is stable across exports, so re-imported calendars update in place.
func lectureUID(ev models.LectureEvent) string {
	name := fmt.Sprintf("%d/%s", ev.Lecture.TeachingID, ev.Lecture.Start.UTC().Format(time.RFC3339))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// Render encodes events in the requested format.
func (s *ExportService) Render(format export.Format, events []models.LectureEvent) ([]byte, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	start := time.Now()
	payload, err := renderer.Render(s.LectureCalendar(events))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExport.Code, appErrors.ErrExport.Status, "unable to export the calendar")
	}
	s.metrics.ObserveStage("export", time.Since(start))
	s.metrics.IncExport(string(format))
	return payload, nil
}

// Write renders events and stores them under name, returning the stored name.
func (s *ExportService) Write(ctx context.Context, format export.Format, name string, events []models.LectureEvent) (string, error) {
	payload, err := s.Render(format, events)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		name = DefaultFileName
	}
	stored, err := s.storage.Save(ctx, name, payload, format.ContentType())
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrExport.Code, appErrors.ErrExport.Status,
			fmt.Sprintf("unable to export the calendar to file %s", name))
	}
	s.logger.Info("calendar exported", zap.String("file", stored), zap.String("format", string(format)), zap.Int("lectures", len(events)))
	return stored, nil
}

// Publish stores the calendar under a fresh export id and signs a download link for it.
func (s *ExportService) Publish(ctx context.Context, format export.Format, fileName string, events []models.LectureEvent) (*ExportResult, error) {
	id := uuid.NewString()
	name := path.Join(s.cfg.Directory, id, exportFileName(fileName, format))
	stored, err := s.Write(ctx, format, name, events)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(id, stored)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExport.Code, appErrors.ErrExport.Status, "unable to sign the download link")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		ID:        id,
		Name:      stored,
		Token:     token,
		URL:       fmt.Sprintf("%s/exports/download?token=%s", prefix, token),
		Format:    format,
		Lectures:  len(events),
		ExpiresAt: expiresAt,
	}, nil
}

// Open validates a download token and returns the stored calendar with its name.
func (s *ExportService) Open(ctx context.Context, token string) (io.ReadCloser, string, error) {
	_, name, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid download token")
	}
	rc, err := s.storage.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrExport.Code, appErrors.ErrExport.Status, "unable to open the export")
	}
	return rc, path.Base(name), nil
}

// Cleanup removes published exports older than ttl (defaults to ResultTTL when ttl <= 0).
// Stores without expiry support rely on their own retention.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	store, ok := s.storage.(expiringStore)
	if !ok {
		return nil, nil
	}
	return store.CleanupOlderThan(s.cfg.Directory, ttl)
}

const maxFileNameRunes = 100

// exportFileName sanitises a client supplied name and forces the format extension.
func exportFileName(raw string, format export.Format) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer(" ", "_", ":", "-", "..", ".").Replace(base)
	if base == "" || base == "." || base == "/" {
		base = strings.TrimSuffix(DefaultFileName, path.Ext(DefaultFileName))
	}
	if runes := []rune(base); len(runes) > maxFileNameRunes {
		base = string(runes[:maxFileNameRunes])
	}
	return base + format.Extension()
}
