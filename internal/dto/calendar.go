package dto

import (
	"time"

	"github.com/finedust/calendar-builder/internal/models"
)

// CalendarRequest describes one calendar build, from the command line or the API.
type CalendarRequest struct {
	CourseCode      string    `json:"course_code" validate:"required_without=CurriculumCode"`
	CurriculumCode  string    `json:"curriculum_code" validate:"required_without=CourseCode"`
	Year            int       `json:"year" validate:"required_without=Teachings,gte=0,lte=10"`
	Teachings       []string  `json:"teachings" validate:"required_without=Year,dive,required"`
	ForkHint        string    `json:"fork_hint"`
	IncludeInactive bool      `json:"include_inactive"`
	From            time.Time `json:"from" validate:"required"`
	To              time.Time `json:"to" validate:"required,gtefield=From"`
	Coordinates     bool      `json:"coordinates"`
	Format          string    `json:"format" validate:"omitempty,oneof=ics csv pdf"`
	FileName        string    `json:"file_name" validate:"omitempty,max=255"`
}

// Hints parses the teaching filters.
func (r CalendarRequest) Hints() []models.Hint {
	return models.ParseHints(r.Teachings)
}

// CalendarQuery is the wire form accepted by the API, in query strings or JSON bodies.
// Dates use the YYYY-MM-DD layout.
type CalendarQuery struct {
	Course      string   `form:"course" json:"course"`
	Curriculum  string   `form:"curriculum" json:"curriculum"`
	Year        int      `form:"year" json:"year"`
	Teachings   []string `form:"teaching" json:"teachings"`
	Fork        string   `form:"fork" json:"fork"`
	Inactive    bool     `form:"inactive" json:"inactive"`
	From        string   `form:"from" json:"from"`
	To          string   `form:"to" json:"to"`
	Coordinates bool     `form:"coordinates" json:"coordinates"`
	Format      string   `form:"format" json:"format"`
	FileName    string   `form:"file" json:"file_name"`
}

// APIDateLayout is the date layout of CalendarQuery.
const APIDateLayout = "2006-01-02"

// ToRequest converts the query, defaulting the window as ParseWindow does.
func (q CalendarQuery) ToRequest(loc *time.Location, now time.Time) (CalendarRequest, error) {
	from, to, err := ParseWindow(q.From, q.To, APIDateLayout, loc, now)
	if err != nil {
		return CalendarRequest{}, err
	}
	return CalendarRequest{
		CourseCode:      q.Course,
		CurriculumCode:  q.Curriculum,
		Year:            q.Year,
		Teachings:       q.Teachings,
		ForkHint:        q.Fork,
		IncludeInactive: q.Inactive,
		From:            from,
		To:              to,
		Coordinates:     q.Coordinates,
		Format:          q.Format,
		FileName:        q.FileName,
	}, nil
}

// CurriculumResponse lists the curricula of a degree course.
type CurriculumResponse struct {
	Curricula []models.Curriculum `json:"curricula"`
}

// LectureResponse is one calendar entry as exposed by the API.
type LectureResponse struct {
	TeachingID  int       `json:"teaching_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Location    string    `json:"location,omitempty"`
	URL         string    `json:"url,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// ExportResponse is returned after storing a calendar.
type ExportResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Format    string    `json:"format"`
	Lectures  int       `json:"lectures"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
