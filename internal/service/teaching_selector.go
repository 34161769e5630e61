package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/finedust/calendar-builder/internal/models"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

type curriculumTeachingReader interface {
	ListTeachings(ctx context.Context, curriculumCode string, year int) ([]models.CurriculumTeaching, error)
}

// TeachingSelector narrows a curriculum plan down to the teachings a student asked for.
type TeachingSelector struct {
	repo   curriculumTeachingReader
	logger *zap.Logger
}

// NewTeachingSelector constructs the selector.
func NewTeachingSelector(repo curriculumTeachingReader, logger *zap.Logger) *TeachingSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeachingSelector{repo: repo, logger: logger}
}

// Select returns the curriculum rows matching year and hints.
//
// Without hints the year is filtered by the datastore. With hints the whole
// plan is fetched and matched locally, see MatchTeachings. Inactive rows are
// dropped unless includeInactive is set; an empty outcome is ErrNoMatch.
func (s *TeachingSelector) Select(ctx context.Context, curriculumCode string, year int, hints []models.Hint, includeInactive bool) ([]models.CurriculumTeaching, error) {
	if strings.TrimSpace(curriculumCode) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "curriculum code is required")
	}
	if len(hints) == 0 && year <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "select an academic year or at least a single teaching")
	}

	var selected []models.CurriculumTeaching
	if len(hints) == 0 {
		records, err := s.repo.ListTeachings(ctx, curriculumCode, year)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if r.Selectable() && r.Year == year {
				selected = append(selected, r)
			}
		}
	} else {
		records, err := s.repo.ListTeachings(ctx, curriculumCode, 0)
		if err != nil {
			return nil, err
		}
		selected = MatchTeachings(records, year, hints)
	}

	if !includeInactive {
		selected = activeOnly(selected)
	}
	if len(selected) == 0 {
		s.logger.Debug("no teaching selected",
			zap.String("curriculum", curriculumCode), zap.Int("year", year), zap.Int("hints", len(hints)))
		return nil, appErrors.Clone(appErrors.ErrNoMatch,
			fmt.Sprintf("no teaching of curriculum %s matches your filters, please check your request", curriculumCode))
	}
	return selected, nil
}

// MatchTeachings applies the exact tier and, only when it matches nothing, the token tier.
//
// Exact tier: the row's year equals year (ignored when year <= 0), or an id hint
// equals the row's teaching id, or a text hint is a case-insensitive substring
// of the description. Token tier: every whitespace-separated word of a text
// hint occurs in the description, in any order. Rows without a teaching id never match.
func MatchTeachings(records []models.CurriculumTeaching, year int, hints []models.Hint) []models.CurriculumTeaching {
	var matched []models.CurriculumTeaching
	for _, r := range records {
		if r.Selectable() && matchesExactly(r, year, hints) {
			matched = append(matched, r)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	for _, r := range records {
		if r.Selectable() && matchesAllTokens(r, hints) {
			matched = append(matched, r)
		}
	}
	return matched
}

func matchesExactly(r models.CurriculumTeaching, year int, hints []models.Hint) bool {
	if year > 0 && r.Year == year {
		return true
	}
	description := strings.ToLower(r.SubjectDescription)
	for _, h := range hints {
		if h.ByID {
			if *r.TeachingID == h.ID {
				return true
			}
			continue
		}
		text := strings.ToLower(strings.TrimSpace(h.Text))
		if text != "" && strings.Contains(description, text) {
			return true
		}
	}
	return false
}

func matchesAllTokens(r models.CurriculumTeaching, hints []models.Hint) bool {
	description := strings.ToLower(r.SubjectDescription)
	for _, h := range hints {
		if h.ByID {
			continue
		}
		tokens := strings.Fields(strings.ToLower(h.Text))
		if len(tokens) == 0 {
			continue
		}
		all := true
		for _, tok := range tokens {
			if !strings.Contains(description, tok) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func activeOnly(records []models.CurriculumTeaching) []models.CurriculumTeaching {
	active := make([]models.CurriculumTeaching, 0, len(records))
	for _, r := range records {
		if r.Active {
			active = append(active, r)
		}
	}
	return active
}
