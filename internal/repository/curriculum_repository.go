package repository

import (
	"context"

	"github.com/finedust/calendar-builder/internal/models"
)

type curriculumRow struct {
	CourseCode        flexString `json:"corso_codice"`
	CourseDescription flexString `json:"corso_descrizione"`
	Code              flexString `json:"curriculum_codice"`
	Description       flexString `json:"curriculum_descrizione"`
	Notes             flexString `json:"curriculum_note"`
	URL               flexString `json:"url"`
}

type curriculumTeachingRow struct {
	CurriculumCode     flexString `json:"curriculum_codice"`
	Year               flexInt    `json:"anno"`
	SubjectCode        flexString `json:"materia_codice"`
	SubjectDescription flexString `json:"materia_descrizione"`
	TeachingNotes      flexString `json:"insegnamento_note"`
	Period             flexString `json:"insegnamento_periodo"`
	Credits            flexInt    `json:"insegnamento_crediti"`
	TeachingID         flexInt    `json:"componente_id"`
	Active             flexBool   `json:"attivo"`
}

// CurriculumRepository reads curricula and their teaching plans.
type CurriculumRepository struct {
	fetcher RecordFetcher
}

// NewCurriculumRepository creates a curriculum repository.
func NewCurriculumRepository(fetcher RecordFetcher) *CurriculumRepository {
	return &CurriculumRepository{fetcher: fetcher}
}

// ListByCourse returns the curricula offered by a degree course.
func (r *CurriculumRepository) ListByCourse(ctx context.Context, courseCode string) ([]models.Curriculum, error) {
	records, err := r.fetcher.FetchRecords(ctx, ResourceCurricula,
		map[string]any{fieldCurriculumCourseCode: courseCode}, nil, NoLimit)
	if err != nil {
		return nil, err
	}
	rows, err := decodeRecords[curriculumRow](ResourceCurricula, records)
	if err != nil {
		return nil, err
	}
	curricula := make([]models.Curriculum, 0, len(rows))
	for _, row := range rows {
		curricula = append(curricula, models.Curriculum{
			CourseCode:        string(row.CourseCode),
			CourseDescription: string(row.CourseDescription),
			Code:              string(row.Code),
			Description:       string(row.Description),
			Notes:             string(row.Notes),
			URL:               string(row.URL),
		})
	}
	return curricula, nil
}

// ListTeachings returns every plan row of a curriculum. A positive year is filtered server-side.
func (r *CurriculumRepository) ListTeachings(ctx context.Context, curriculumCode string, year int) ([]models.CurriculumTeaching, error) {
	filters := map[string]any{fieldCurriculumCode: curriculumCode}
	if year > 0 {
		filters[fieldCurriculumYear] = year
	}
	records, err := r.fetcher.FetchRecords(ctx, ResourceCurriculumTeaching, filters, nil, NoLimit)
	if err != nil {
		return nil, err
	}
	rows, err := decodeRecords[curriculumTeachingRow](ResourceCurriculumTeaching, records)
	if err != nil {
		return nil, err
	}
	teachings := make([]models.CurriculumTeaching, 0, len(rows))
	for _, row := range rows {
		teachings = append(teachings, models.CurriculumTeaching{
			CurriculumCode:     string(row.CurriculumCode),
			Year:               row.Year.Value,
			SubjectCode:        string(row.SubjectCode),
			SubjectDescription: string(row.SubjectDescription),
			TeachingNotes:      string(row.TeachingNotes),
			Period:             string(row.Period),
			Credits:            row.Credits.Ptr(),
			TeachingID:         row.TeachingID.Ptr(),
			Active:             bool(row.Active),
		})
	}
	return teachings, nil
}
