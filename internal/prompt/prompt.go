// Package prompt asks the user of the command line tool to take the decisions
// a calendar build cannot take alone.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/finedust/calendar-builder/internal/models"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

// Prompter reads answers line by line. In quiet mode confirmations are implied,
// choices are still asked. A single goroutine owns the input, so a line typed
// after a cancelled question answers the next one.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	quiet bool

	once  sync.Once
	lines chan line
}

// New builds a Prompter reading from in and writing questions to out.
func New(in io.Reader, out io.Writer, quiet bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, quiet: quiet}
}

// Confirm asks a yes/no question; an empty answer means yes.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if p.quiet {
		return true, nil
	}
	fmt.Fprintf(p.out, "%s (Y/n)  ", question)
	answer, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ChooseCurriculum lists the curricula and reads the number of the chosen one.
func (p *Prompter) ChooseCurriculum(ctx context.Context, curricula []models.Curriculum) (models.Curriculum, error) {
	fmt.Fprintln(p.out, "Choose a curriculum from these:")
	for i, c := range curricula {
		notes := ""
		if c.Notes != "" {
			notes = " Notes: " + c.Notes + "."
		}
		fmt.Fprintf(p.out, "%d. Code: '%s'. Description: %s.%s\n", i+1, c.Code, c.Description, notes)
	}
	n, err := p.choose(ctx, "Insert the curriculum number: ", len(curricula))
	if err != nil {
		return models.Curriculum{}, err
	}
	return curricula[n], nil
}

// ChooseFork lists the alternative sections and reads the number of the chosen one.
func (p *Prompter) ChooseFork(ctx context.Context, candidates []models.Teaching) (models.Teaching, error) {
	fmt.Fprintln(p.out, "Choose a teaching from these:")
	for i, t := range candidates {
		line := fmt.Sprintf("%d. Description: %s", i+1, t.SubjectDescription)
		if t.TeacherName != "" {
			line += " lectured by " + t.TeacherName
		}
		if t.Language != "" {
			line += " in " + t.Language
		}
		fmt.Fprintln(p.out, line+".")
	}
	n, err := p.choose(ctx, "Insert the teaching number: ", len(candidates))
	if err != nil {
		return models.Teaching{}, err
	}
	return candidates[n], nil
}

// choose asks until a number in [1, count] is given and returns it zero based.
func (p *Prompter) choose(ctx context.Context, question string, count int) (int, error) {
	if count == 0 {
		return 0, appErrors.Clone(appErrors.ErrNoMatch, "nothing to choose from")
	}
	for {
		fmt.Fprint(p.out, question)
		answer, err := p.readLine(ctx)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= count {
			return n - 1, nil
		}
	}
}

type line struct {
	text string
	err  error
}

// readLine returns the next trimmed line, or ctx's error if it is cancelled first.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	p.once.Do(func() {
		p.lines = make(chan line, 1)
		go p.pump()
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", appErrors.Clone(appErrors.ErrAborted, "input closed before an answer was given")
		}
		if l.err != nil && !(errors.Is(l.err, io.EOF) && l.text != "") {
			if errors.Is(l.err, io.EOF) {
				return "", appErrors.Clone(appErrors.ErrAborted, "input closed before an answer was given")
			}
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

// pump forwards input lines until the first read error, then closes lines.
func (p *Prompter) pump() {
	defer close(p.lines)
	for {
		text, err := p.in.ReadString('\n')
		p.lines <- line{text: text, err: err}
		if err != nil {
			return
		}
	}
}
