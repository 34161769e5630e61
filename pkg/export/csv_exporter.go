package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// csvHeaders follow the spreadsheet layout accepted by common calendar importers.
var csvHeaders = []string{"Subject", "Start Date", "Start Time", "End Date", "End Time", "Description", "Location", "URL"}

const (
	csvDateLayout = "02/01/2006"
	csvTimeLayout = "15:04"
)

// CSVExporter renders calendars into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the calendar, one row per event.
func (e *CSVExporter) Render(cal Calendar) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, ev := range cal.Events {
		record := []string{
			ev.Summary,
			ev.Start.Format(csvDateLayout),
			ev.Start.Format(csvTimeLayout),
			ev.End.Format(csvDateLayout),
			ev.End.Format(csvTimeLayout),
			ev.Description,
			ev.Location,
			ev.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
