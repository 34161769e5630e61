package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/finedust/calendar-builder/internal/models"
)

// TimetableAssembler turns raw slots of resolved teachings into lectures within a window.
type TimetableAssembler struct {
	logger *zap.Logger
}

// NewTimetableAssembler constructs the assembler.
func NewTimetableAssembler(logger *zap.Logger) *TimetableAssembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableAssembler{logger: logger}
}

// Assemble keeps the slots of the given teachings whose start lies in
// [windowStart, windowEnd], both inclusive, in input order. The end of a slot is
// not checked. Locations are rendered for every slot of a resolved teaching, so a
// missing room fails the run even when its slot falls outside the window.
func (a *TimetableAssembler) Assemble(teachings []models.Teaching, slots []models.TimetableSlot, windowStart, windowEnd time.Time, rooms models.RoomLookup, useCoordinates bool) ([]models.ResolvedLecture, error) {
	wanted := make(map[int]struct{}, len(teachings))
	for _, t := range teachings {
		wanted[t.ID] = struct{}{}
	}

	lectures := make([]models.ResolvedLecture, 0, len(slots))
	skipped := 0
	for _, slot := range slots {
		if _, ok := wanted[slot.TeachingID]; !ok {
			continue
		}
		location, err := LocateRooms(slot.RoomCodes, rooms, useCoordinates)
		if err != nil {
			return nil, err
		}
		if slot.Start.Before(windowStart) || slot.Start.After(windowEnd) {
			skipped++
			continue
		}
		lectures = append(lectures, models.ResolvedLecture{
			TeachingID: slot.TeachingID,
			Start:      slot.Start,
			End:        slot.End,
			Notes:      slot.Notes,
			Location:   location,
		})
	}
	a.logger.Debug("timetable assembled", zap.Int("kept", len(lectures)), zap.Int("outside_window", skipped))
	return lectures, nil
}
