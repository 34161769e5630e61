package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/finedust/calendar-builder/internal/models"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

type timetableRow struct {
	TeachingID flexInt    `json:"componente_id"`
	Start      flexString `json:"inizio"`
	End        flexString `json:"fine"`
	RoomCodes  flexString `json:"aula_codici"`
	Notes      flexString `json:"note"`
}

// TimetableRepository reads lecture slots. Timestamps carry no zone and are
// interpreted in the configured location.
type TimetableRepository struct {
	fetcher  RecordFetcher
	location *time.Location
}

// NewTimetableRepository creates a timetable repository. A nil location means local time.
func NewTimetableRepository(fetcher RecordFetcher, location *time.Location) *TimetableRepository {
	if location == nil {
		location = time.Local
	}
	return &TimetableRepository{fetcher: fetcher, location: location}
}

// ListByTeachings returns the slots of the given teachings in datastore order.
func (r *TimetableRepository) ListByTeachings(ctx context.Context, teachingIDs []int) ([]models.TimetableSlot, error) {
	if len(teachingIDs) == 0 {
		return nil, nil
	}
	records, err := r.fetcher.FetchRecords(ctx, ResourceTimetables,
		map[string]any{fieldTimetableTeachingID: idStrings(teachingIDs)}, nil, NoLimit)
	if err != nil {
		return nil, err
	}
	rows, err := decodeRecords[timetableRow](ResourceTimetables, records)
	if err != nil {
		return nil, err
	}
	slots := make([]models.TimetableSlot, 0, len(rows))
	for i, row := range rows {
		start, err := r.parse(string(row.Start))
		if err != nil {
			return nil, malformedSlot(i, err)
		}
		end, err := r.parse(string(row.End))
		if err != nil {
			return nil, malformedSlot(i, err)
		}
		slots = append(slots, models.TimetableSlot{
			TeachingID: row.TeachingID.Value,
			Start:      start,
			End:        end,
			RoomCodes:  string(row.RoomCodes),
			Notes:      string(row.Notes),
		})
	}
	return slots, nil
}

func (r *TimetableRepository) parse(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation(timetableLayout, raw, r.location); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func malformedSlot(i int, err error) error {
	return appErrors.Wrap(err, appErrors.ErrMalformedData.Code, appErrors.ErrMalformedData.Status,
		fmt.Sprintf("malformed %s record #%d", ResourceTimetables, i))
}
