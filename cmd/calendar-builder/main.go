// Command calendar-builder exports the lectures of a university curriculum as a calendar file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/finedust/calendar-builder/internal/bootstrap"
	"github.com/finedust/calendar-builder/internal/dto"
	"github.com/finedust/calendar-builder/internal/prompt"
	"github.com/finedust/calendar-builder/pkg/config"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
	"github.com/finedust/calendar-builder/pkg/export"
	"github.com/finedust/calendar-builder/pkg/logger"
	"github.com/finedust/calendar-builder/pkg/storage"
)

// cliDateLayout is dd-mm-yy.
const cliDateLayout = "02-01-06"

type options struct {
	courseCode     string
	curriculumCode string
	year           int
	teachings      []string
	file           string
	inactive       bool
	forkHint       string
	from           string
	to             string
	format         string
	coordinates    bool
	refresh        bool
	verbose        bool
	quiet          bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	switch {
	case opts.verbose:
		cfg.Log.Level = "debug"
	case opts.quiet:
		cfg.Log.Level = "warn"
	}
	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "failed to init logger: %v\n", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = buildCalendar(ctx, cfg, opts, stdin, stdout, logr)
	if err != nil {
		logr.Error("calendar build failed", zap.Error(err))
		fmt.Fprintln(stderr, err)
	}
	return appErrors.ExitCode(err)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("calendar-builder", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.courseCode, "code", "c", "", "degree course code, the curriculum is chosen among the available ones")
	fs.StringVar(&opts.curriculumCode, "curriculum", "", "curriculum code")
	fs.IntVarP(&opts.year, "year", "y", 0, "academic year of the teachings")
	fs.StringArrayVarP(&opts.teachings, "teaching", "t", nil, "teaching id or part of its name (repeatable)")
	fs.StringVarP(&opts.file, "file", "f", "lectures.ics", "output file")
	fs.BoolVar(&opts.inactive, "inactive", false, "include inactive teachings")
	fs.StringVar(&opts.forkHint, "fork-regex", "", "text picking the section of forked teachings")
	fs.StringVar(&opts.from, "from", "", "first day of the window (dd-mm-yy), default today")
	fs.StringVar(&opts.to, "to", "", "last day of the window (dd-mm-yy), default ten years from today")
	fs.StringVar(&opts.format, "format", "", "ics, csv or pdf, default from the file extension")
	fs.BoolVar(&opts.coordinates, "coordinates", false, "locate rooms by coordinates instead of address")
	fs.BoolVar(&opts.refresh, "refresh", false, "drop cached datastore responses before querying")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "never ask, confirm everything")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if (opts.courseCode == "") == (opts.curriculumCode == "") {
		return opts, errors.New("specify exactly one of --code or --curriculum")
	}
	if opts.year <= 0 && len(opts.teachings) == 0 {
		return opts, errors.New("select an academic year or at least a single teaching")
	}
	return opts, nil
}

func buildCalendar(ctx context.Context, cfg *config.Config, opts options, stdin io.Reader, stdout io.Writer, logr *zap.Logger) error {
	format, err := outputFormat(opts.format, opts.file)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	store, name, err := openStore(cfg, opts.file)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrExport.Code, appErrors.ErrExport.Status,
			fmt.Sprintf("unable to export the calendar to file %s", opts.file))
	}

	app, err := bootstrap.New(ctx, cfg, store, logr)
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck
	defer func() {
		if err := app.Metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logr.Warn("unable to write metrics", zap.Error(err))
		}
	}()

	if opts.refresh {
		if err := app.Datastore.Purge(ctx); err != nil {
			logr.Warn("unable to purge the shared cache", zap.Error(err))
		}
	}

	from, to, err := dto.ParseWindow(opts.from, opts.to, cliDateLayout, app.Location, time.Now())
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	req := dto.CalendarRequest{
		CourseCode:      opts.courseCode,
		CurriculumCode:  opts.curriculumCode,
		Year:            opts.year,
		Teachings:       opts.teachings,
		ForkHint:        opts.forkHint,
		IncludeInactive: opts.inactive,
		From:            from,
		To:              to,
		Coordinates:     opts.coordinates,
		Format:          string(format),
		FileName:        opts.file,
	}

	prompter := prompt.New(stdin, stdout, opts.quiet)
	build, err := app.Calendar.BuildLectures(ctx, req, prompter)
	if err != nil {
		return err
	}

	ok, err := prompter.Confirm(ctx, fmt.Sprintf("I got %d lessons. Should I proceed and export the lessons?", len(build.Events)))
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrAborted, "ok, I quit")
	}

	if _, err := app.Exports.Write(ctx, format, name, build.Events); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Done, exported to %s.\n", opts.file)
	return nil
}

// outputFormat honours an explicit format; otherwise a known file extension wins over ICS.
func outputFormat(explicit, file string) (export.Format, error) {
	if explicit != "" {
		return export.ParseFormat(explicit)
	}
	if format, err := export.ParseFormat(filepath.Ext(file)); err == nil {
		return format, nil
	}
	return export.FormatICS, nil
}

// openStore picks the storage for file. The local driver writes next to the
// requested path; object storage keeps the file name as the object key.
func openStore(cfg *config.Config, file string) (storage.Store, string, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", config.StorageDriverLocal:
		store, err := storage.NewLocalStorage(filepath.Dir(file))
		if err != nil {
			return nil, "", err
		}
		return store, filepath.Base(file), nil
	default:
		store, err := bootstrap.NewStore(cfg.Storage)
		if err != nil {
			return nil, "", err
		}
		return store, filepath.ToSlash(filepath.Base(file)), nil
	}
}
