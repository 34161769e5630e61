package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/finedust/calendar-builder/internal/dto"
	"github.com/finedust/calendar-builder/internal/models"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

type curriculumLister interface {
	ListByCourse(ctx context.Context, courseCode string) ([]models.Curriculum, error)
}

type teachingTreeReader interface {
	ListByRoots(ctx context.Context, rootIDs []int) ([]models.Teaching, error)
}

type timetableReader interface {
	ListByTeachings(ctx context.Context, teachingIDs []int) ([]models.TimetableSlot, error)
}

type roomReader interface {
	ListByCodes(ctx context.Context, codes []string) ([]models.Room, error)
}

// Interaction supplies the decisions a build cannot take on its own.
// A nil Interaction never prompts: ambiguity becomes an error and every step is confirmed.
type Interaction interface {
	ChooseCurriculum(ctx context.Context, curricula []models.Curriculum) (models.Curriculum, error)
	ChooseFork(ctx context.Context, candidates []models.Teaching) (models.Teaching, error)
	Confirm(ctx context.Context, question string) (bool, error)
}

// CalendarBuild is the outcome of a build: the resolved courses and their lectures.
type CalendarBuild struct {
	CurriculumCode string
	Courses        []models.Teaching
	Events         []models.LectureEvent
}

// CalendarRepositories groups the datastore readers used by CalendarService.
type CalendarRepositories struct {
	Curricula  curriculumLister
	Plans      curriculumTeachingReader
	Teachings  teachingTreeReader
	Timetables timetableReader
	Rooms      roomReader
}

// CalendarService runs the selection, resolution and assembly pipeline.
type CalendarService struct {
	repos     CalendarRepositories
	selector  *TeachingSelector
	resolver  *HierarchyResolver
	assembler *TimetableAssembler
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewCalendarService wires the pipeline stages.
func NewCalendarService(repos CalendarRepositories, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		repos:     repos,
		selector:  NewTeachingSelector(repos.Plans, logger),
		resolver:  NewHierarchyResolver(logger),
		assembler: NewTimetableAssembler(logger),
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// ListCurricula returns the curricula offered by a degree course.
func (s *CalendarService) ListCurricula(ctx context.Context, courseCode string) ([]models.Curriculum, error) {
	courseCode = strings.TrimSpace(courseCode)
	if courseCode == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course code is required")
	}
	curricula, err := s.repos.Curricula.ListByCourse(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	if len(curricula) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no curriculum found for course %s", courseCode))
	}
	return curricula, nil
}

// ResolveCurriculum picks the curriculum of a degree course, asking in when several exist.
func (s *CalendarService) ResolveCurriculum(ctx context.Context, courseCode string, in Interaction) (string, error) {
	curricula, err := s.ListCurricula(ctx, courseCode)
	if err != nil {
		return "", err
	}
	if len(curricula) == 1 {
		return curricula[0].Code, nil
	}
	if in == nil {
		codes := make([]string, 0, len(curricula))
		for _, c := range curricula {
			codes = append(codes, c.Code)
		}
		return "", appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("course %s has several curricula, choose one of: %s", courseCode, strings.Join(codes, ", ")))
	}
	chosen, err := in.ChooseCurriculum(ctx, curricula)
	if err != nil {
		return "", err
	}
	return chosen.Code, nil
}

// BuildLectures selects, resolves and assembles the lectures described by req.
func (s *CalendarService) BuildLectures(ctx context.Context, req dto.CalendarRequest, in Interaction) (*CalendarBuild, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar request")
	}

	curriculum := strings.TrimSpace(req.CurriculumCode)
	if curriculum == "" {
		code, err := s.ResolveCurriculum(ctx, req.CourseCode, in)
		if err != nil {
			return nil, err
		}
		curriculum = code
	}

	start := time.Now()
	selected, err := s.selector.Select(ctx, curriculum, req.Year, req.Hints(), req.IncludeInactive)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveStage("select", time.Since(start))
	s.logger.Debug("teachings selected", zap.String("curriculum", curriculum), zap.Int("count", len(selected)))
	for _, t := range selected {
		s.logger.Debug("selected teaching",
			zap.Intp("teaching_id", t.TeachingID), zap.Int("year", t.Year), zap.String("description", t.SubjectDescription))
	}
	if err := confirm(ctx, in, fmt.Sprintf("I found %d teaching(s). Do you confirm the teachings list?", len(selected))); err != nil {
		return nil, err
	}

	start = time.Now()
	roots := make([]int, 0, len(selected))
	for _, t := range selected {
		roots = append(roots, *t.TeachingID)
	}
	pool, err := s.repos.Teachings.ListByRoots(ctx, roots)
	if err != nil {
		return nil, err
	}
	var chooser ForkChooser
	if in != nil {
		chooser = in.ChooseFork
	}
	courses, err := s.resolver.ResolveAll(ctx, pool, req.ForkHint, chooser)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveStage("resolve", time.Since(start))
	for _, c := range courses {
		s.logger.Debug("resolved course",
			zap.Int("id", c.ID), zap.String("description", c.SubjectDescription), zap.String("teacher", c.TeacherName))
	}
	if err := confirm(ctx, in, fmt.Sprintf("So this is the list of your %d course(s). Do you confirm the courses?", len(courses))); err != nil {
		return nil, err
	}

	start = time.Now()
	ids := make([]int, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	slots, err := s.repos.Timetables.ListByTeachings(ctx, ids)
	if err != nil {
		return nil, err
	}
	rooms, err := s.repos.Rooms.ListByCodes(ctx, roomCodes(slots))
	if err != nil {
		return nil, err
	}
	lectures, err := s.assembler.Assemble(courses, slots, req.From, req.To, models.NewRoomIndex(rooms), req.Coordinates)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveStage("assemble", time.Since(start))

	events, err := pairLectures(courses, lectures)
	if err != nil {
		return nil, err
	}
	s.metrics.AddLectures(len(events))
	s.logger.Debug("lectures assembled", zap.Int("count", len(events)))

	return &CalendarBuild{CurriculumCode: curriculum, Courses: courses, Events: events}, nil
}

// confirm asks in, turning a refusal into ErrAborted.
func confirm(ctx context.Context, in Interaction, question string) error {
	if in == nil {
		return nil
	}
	ok, err := in.Confirm(ctx, question)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrAborted, "ok, I quit")
	}
	return nil
}

// roomCodes returns the distinct room codes referenced by slots, in first-seen order.
func roomCodes(slots []models.TimetableSlot) []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, slot := range slots {
		for _, code := range slot.Rooms() {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	return codes
}

func pairLectures(courses []models.Teaching, lectures []models.ResolvedLecture) ([]models.LectureEvent, error) {
	byID := make(map[int]models.Teaching, len(courses))
	for _, c := range courses {
		if _, ok := byID[c.ID]; !ok {
			byID[c.ID] = c
		}
	}
	events := make([]models.LectureEvent, 0, len(lectures))
	for _, l := range lectures {
		course, ok := byID[l.TeachingID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrMalformedData,
				fmt.Sprintf("something went wrong, no course with id %d", l.TeachingID))
		}
		events = append(events, models.LectureEvent{Teaching: course, Lecture: l})
	}
	return events, nil
}
