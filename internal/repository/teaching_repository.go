package repository

import (
	"context"
	"strconv"

	"github.com/finedust/calendar-builder/internal/models"
)

type teachingRow struct {
	CourseCode         flexString `json:"corso_codice"`
	SubjectCode        flexString `json:"materia_codice"`
	SubjectDescription flexString `json:"materia_descrizione"`
	URL                flexString `json:"url"`
	Type               flexString `json:"tipo"`
	TeacherCode        flexString `json:"docente_codice"`
	TeacherName        flexString `json:"docente_nome"`
	Language           flexString `json:"lingua"`
	ID                 flexInt    `json:"componente_id"`
	FatherID           flexInt    `json:"componente_padre"`
	RootID             flexInt    `json:"componente_radice"`
}

// TeachingRepository reads teaching hierarchies.
type TeachingRepository struct {
	fetcher RecordFetcher
}

// NewTeachingRepository creates a teaching repository.
func NewTeachingRepository(fetcher RecordFetcher) *TeachingRepository {
	return &TeachingRepository{fetcher: fetcher}
}

// ListByRoots returns every node of the hierarchies rooted at the given ids.
func (r *TeachingRepository) ListByRoots(ctx context.Context, rootIDs []int) ([]models.Teaching, error) {
	if len(rootIDs) == 0 {
		return nil, nil
	}
	records, err := r.fetcher.FetchRecords(ctx, ResourceTeachings,
		map[string]any{fieldTeachingRootID: idStrings(rootIDs)}, nil, NoLimit)
	if err != nil {
		return nil, err
	}
	rows, err := decodeRecords[teachingRow](ResourceTeachings, records)
	if err != nil {
		return nil, err
	}
	teachings := make([]models.Teaching, 0, len(rows))
	for _, row := range rows {
		teachings = append(teachings, models.Teaching{
			ID:                 row.ID.Value,
			CourseCode:         string(row.CourseCode),
			SubjectCode:        string(row.SubjectCode),
			SubjectDescription: string(row.SubjectDescription),
			URL:                string(row.URL),
			Type:               models.ParseTeachingType(string(row.Type)),
			TeacherCode:        string(row.TeacherCode),
			TeacherName:        string(row.TeacherName),
			Language:           string(row.Language),
			FatherID:           row.FatherID.Ptr(),
			RootID:             row.RootID.Value,
		})
	}
	return teachings, nil
}

func idStrings(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.Itoa(id))
	}
	return out
}
