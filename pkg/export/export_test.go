package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCalendar() Calendar {
	rome, _ := time.LoadLocation("Europe/Rome")
	start := time.Date(2024, 9, 16, 9, 0, 0, 0, rome)
	created := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	return Calendar{
		Name: "Lezioni",
		Events: []Event{
			{
				UID:         "lecture-1",
				Summary:     "Analisi matematica",
				Description: "Tenuto da Mario Rossi",
				Location:    "Aula A OPPURE Aula B",
				URL:         "https://www.unibo.it/course/1",
				Start:       start,
				End:         start.Add(2 * time.Hour),
				Created:     created,
			},
			{
				Summary: "Fisica",
				Start:   start.Add(24 * time.Hour),
				End:     start.Add(26 * time.Hour),
				Created: created,
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatICS, "ICS": FormatICS, ".csv": FormatCSV, " pdf ": FormatPDF} {
		got, err := ParseFormat(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseFormat("xlsx")
	assert.Error(t, err)

	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, ".ics", FormatICS.Extension())
}

func TestICSExporterRender(t *testing.T) {
	data, err := NewICSExporter().Render(sampleCalendar())
	require.NoError(t, err)
	assert.Contains(t, string(data), "PRODID:"+ProductID)

	parsed, err := ics.ParseCalendar(bytes.NewReader(data))
	require.NoError(t, err)
	events := parsed.Events()
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "lecture-1", first.Id())
	assert.Equal(t, "Analisi matematica", first.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "Tenuto da Mario Rossi", first.GetProperty(ics.ComponentPropertyDescription).Value)
	assert.Equal(t, "https://www.unibo.it/course/1", first.GetProperty(ics.ComponentPropertyUrl).Value)
	start, err := first.GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(sampleCalendar().Events[0].Start))

	second := events[1]
	assert.NotEmpty(t, second.Id())
	assert.Nil(t, second.GetProperty(ics.ComponentPropertyDescription))
	assert.Nil(t, second.GetProperty(ics.ComponentPropertyLocation))
}

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(sampleCalendar())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeaders, records[0])
	assert.Equal(t, []string{"Analisi matematica", "16/09/2024", "09:00", "16/09/2024", "11:00", "Tenuto da Mario Rossi", "Aula A OPPURE Aula B", "https://www.unibo.it/course/1"}, records[1])
}

func TestPDFExporterRender(t *testing.T) {
	cal := sampleCalendar()
	cal.Events[0].Location = "Aula Magna - Piano terra in Via Zamboni 33 Bologna OPPURE Aula Prodi - Primo piano in Piazza Scaravilli 2 Bologna"
	data, err := NewPDFExporter().Render(cal)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
