package models

import (
	"strconv"
	"strings"
)

// Curriculum is a course-of-study variant offered by a degree course.
type Curriculum struct {
	CourseCode        string `json:"course_code"`
	CourseDescription string `json:"course_description"`
	Code              string `json:"code"`
	Description       string `json:"description"`
	Notes             string `json:"notes,omitempty"`
	URL               string `json:"url,omitempty"`
}

// CurriculumTeaching is one row of a curriculum plan. TeachingID is nil for
// placeholder rows (free-choice groups) which can never be selected.
type CurriculumTeaching struct {
	CurriculumCode     string `json:"curriculum_code"`
	Year               int    `json:"year"`
	SubjectCode        string `json:"subject_code"`
	SubjectDescription string `json:"subject_description"`
	TeachingNotes      string `json:"teaching_notes,omitempty"`
	Period             string `json:"period,omitempty"`
	Credits            *int   `json:"credits,omitempty"`
	TeachingID         *int   `json:"teaching_id,omitempty"`
	Active             bool   `json:"active"`
}

// Selectable reports whether the row references a teaching.
func (c CurriculumTeaching) Selectable() bool {
	return c.TeachingID != nil
}

// Hint narrows a curriculum selection either by teaching id or by free text.
type Hint struct {
	ID   int
	Text string
	ByID bool
}

// ParseHint turns user input into a Hint: integers are teaching ids, anything else is text.
func ParseHint(raw string) Hint {
	trimmed := strings.TrimSpace(raw)
	if id, err := strconv.Atoi(trimmed); err == nil {
		return Hint{ID: id, ByID: true}
	}
	return Hint{Text: raw}
}

// ParseHints applies ParseHint to every entry, keeping order.
func ParseHints(raw []string) []Hint {
	hints := make([]Hint, 0, len(raw))
	for _, r := range raw {
		hints = append(hints, ParseHint(r))
	}
	return hints
}

func (h Hint) String() string {
	if h.ByID {
		return strconv.Itoa(h.ID)
	}
	return h.Text
}
