package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finedust/calendar-builder/internal/models"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

func TestConfirmAnswers(t *testing.T) {
	cases := map[string]bool{"\n": true, "y\n": true, "YES\n": true, " yes \n": true, "n\n": false, "nope\n": false, "y": true}
	for input, want := range cases {
		out := &bytes.Buffer{}
		got, err := New(strings.NewReader(input), out, false).Confirm(context.Background(), "Proceed?")
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
		assert.Equal(t, "Proceed? (Y/n)  ", out.String())
	}
}

func TestConfirmQuietNeverReads(t *testing.T) {
	out := &bytes.Buffer{}
	ok, err := New(strings.NewReader(""), out, true).Confirm(context.Background(), "Proceed?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out.String())
}

func TestConfirmClosedInputAborts(t *testing.T) {
	_, err := New(strings.NewReader(""), io.Discard, false).Confirm(context.Background(), "Proceed?")
	assert.True(t, errors.Is(err, appErrors.ErrAborted))
}

func TestChooseForkRetriesUntilValid(t *testing.T) {
	out := &bytes.Buffer{}
	p := New(strings.NewReader("abc\n0\n3\n2\n"), out, true)
	candidates := []models.Teaching{
		{ID: 21, SubjectDescription: "ANALISI Sezione A-K", TeacherName: "MARIO ROSSI", Language: "ita"},
		{ID: 22, SubjectDescription: "ANALISI Sezione L-Z"},
	}

	chosen, err := p.ChooseFork(context.Background(), candidates)
	require.NoError(t, err)
	assert.Equal(t, 22, chosen.ID)
	assert.Contains(t, out.String(), "1. Description: ANALISI Sezione A-K lectured by MARIO ROSSI in ita.")
	assert.Contains(t, out.String(), "2. Description: ANALISI Sezione L-Z.")
	assert.Equal(t, 4, strings.Count(out.String(), "Insert the teaching number: "))
}

func TestChooseCurriculum(t *testing.T) {
	out := &bytes.Buffer{}
	curricula := []models.Curriculum{
		{Code: "000-000", Description: "GENERALE"},
		{Code: "B69-000", Description: "INTERNATIONAL", Notes: "in inglese"},
	}

	chosen, err := New(strings.NewReader("2\n"), out, false).ChooseCurriculum(context.Background(), curricula)
	require.NoError(t, err)
	assert.Equal(t, "B69-000", chosen.Code)
	assert.Contains(t, out.String(), "2. Code: 'B69-000'. Description: INTERNATIONAL. Notes: in inglese.")
}

func TestReadLineHonoursCancellation(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(reader, io.Discard, false).Confirm(ctx, "Proceed?")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCancelledQuestionLeavesLineForNextOne(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	p := New(reader, io.Discard, false)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Confirm(ctx, "Proceed?")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() {
		_, _ = writer.Write([]byte("n\n"))
	}()
	ok, err := p.Confirm(context.Background(), "Really?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadLineAfterClosedInput(t *testing.T) {
	p := New(strings.NewReader("y\n"), io.Discard, false)

	ok, err := p.Confirm(context.Background(), "Proceed?")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = p.Confirm(context.Background(), "Again?")
	assert.True(t, errors.Is(err, appErrors.ErrAborted))
	_, err = p.Confirm(context.Background(), "And again?")
	assert.True(t, errors.Is(err, appErrors.ErrAborted))
}
