package export

import (
	"fmt"
	"strings"
	"time"
)

// Format names an export encoding.
type Format string

const (
	FormatICS Format = "ics"
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts a format name or a file extension, defaulting to ICS.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "."))); f {
	case "":
		return FormatICS, nil
	case FormatICS, FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType is the MIME type of the rendered document.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/calendar; charset=utf-8"
	}
}

// Extension is the file extension, dot included.
func (f Format) Extension() string {
	return "." + string(f)
}

// Event is one calendar entry.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	URL         string
	Start       time.Time
	End         time.Time
	Created     time.Time
}

// Calendar is the document handed to an exporter.
type Calendar struct {
	Name   string
	Events []Event
}

// Renderer encodes a calendar.
type Renderer interface {
	Render(cal Calendar) ([]byte, error)
}
