package export

import (
	"bytes"
	"fmt"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// ProductID identifies the producer of the calendars.
const ProductID = "Lecture Scraper"

// ICSExporter renders calendars as iCalendar documents.
type ICSExporter struct{}

// NewICSExporter builds an iCalendar exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{}
}

// Render produces one VEVENT per event. Empty optional fields are omitted.
func (e *ICSExporter) Render(cal Calendar) ([]byte, error) {
	doc := ics.NewCalendar()
	doc.SetProductId(ProductID)
	doc.SetMethod(ics.MethodPublish)
	if cal.Name != "" {
		doc.SetXWRCalName(cal.Name)
	}

	for _, ev := range cal.Events {
		uid := ev.UID
		if uid == "" {
			uid = uuid.NewString()
		}
		event := doc.AddEvent(uid)
		event.SetCreatedTime(ev.Created)
		event.SetDtStampTime(ev.Created)
		event.SetStartAt(ev.Start)
		event.SetEndAt(ev.End)
		event.SetSummary(ev.Summary)
		if ev.Description != "" {
			event.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			event.SetLocation(ev.Location)
		}
		if ev.URL != "" {
			event.SetURL(ev.URL)
		}
	}

	buf := &bytes.Buffer{}
	if err := doc.SerializeTo(buf); err != nil {
		return nil, fmt.Errorf("render ics: %w", err)
	}
	return buf.Bytes(), nil
}
