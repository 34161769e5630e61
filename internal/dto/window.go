package dto

import (
	"fmt"
	"strings"
	"time"
)

// DefaultWindowDays is how far the window reaches when no end date is given.
const DefaultWindowDays = 3650

// ParseWindow turns optional from/to dates into an inclusive time window in loc.
// from defaults to today, to to today plus DefaultWindowDays; the end covers its whole day.
func ParseWindow(from, to, layout string, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	today := now.In(loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	start := today
	if strings.TrimSpace(from) != "" {
		parsed, err := time.ParseInLocation(layout, strings.TrimSpace(from), loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q, expected %s", from, layout)
		}
		start = parsed
	}

	endDay := today.AddDate(0, 0, DefaultWindowDays)
	if strings.TrimSpace(to) != "" {
		parsed, err := time.ParseInLocation(layout, strings.TrimSpace(to), loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q, expected %s", to, layout)
		}
		endDay = parsed
	}
	end := endDay.AddDate(0, 0, 1).Add(-time.Nanosecond)

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s precedes start date %s", endDay.Format(layout), start.Format(layout))
	}
	return start, end, nil
}
