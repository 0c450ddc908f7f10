package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quidome/exif2mtime-go/pkg/apply"
	"github.com/quidome/exif2mtime-go/pkg/capturedate"
	"github.com/quidome/exif2mtime-go/pkg/config"
	"github.com/quidome/exif2mtime-go/pkg/extract"
	"github.com/quidome/exif2mtime-go/pkg/metadata"
	"github.com/quidome/exif2mtime-go/pkg/newtags"
	"github.com/quidome/exif2mtime-go/pkg/plan"
	"github.com/quidome/exif2mtime-go/pkg/scan"
	"github.com/quidome/exif2mtime-go/pkg/sidecar"
)

type summary struct {
	processed int
	updated   int
	unchanged int
	dryRun    int
	skipped   int
	failed    int
}

func newLogger(cmd *cobra.Command, opts config.Options) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(cmd.OutOrStdout())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func newReader(opts config.Options, log logrus.FieldLogger) (metadata.Reader, func() error, error) {
	noop := func() error { return nil }

	switch opts.Reader {
	case config.ReaderGoExif:
		return metadata.EXIF{}, noop, nil
	case config.ReaderExifTool:
		if !metadata.ExifToolAvailable() {
			return nil, nil, fmt.Errorf("%w: exiftool not found in PATH", metadata.ErrExtraction)
		}
	default:
		if !metadata.ExifToolAvailable() {
			log.Debug("exiftool not found, using the built-in EXIF reader")
			return metadata.EXIF{}, noop, nil
		}
	}

	et := metadata.NewExifTool(log)
	return et, et.Close, nil
}

func scanOptions(opts config.Options) scan.Options {
	scanOpts := scan.DefaultOptions()
	scanOpts.MaxDepth = opts.MaxDepth()
	scanOpts.AnyDate = opts.AnyDate
	return scanOpts
}

// collectTargets expands the command arguments into targets. A missing
// argument ends the run.
func collectTargets(args []string, scanOpts scan.Options) ([]scan.Target, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var targets []scan.Target
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			kind, ok := scan.Classify(arg, scanOpts)
			if ok && scanOpts.Wanted(info.ModTime()) {
				targets = append(targets, scan.Target{Path: arg, Kind: kind, ModTime: info.ModTime()})
			}
			continue
		}

		found, err := scan.Scan(os.DirFS(arg), ".", scanOpts)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
		for _, t := range found {
			t.Path = filepath.Join(arg, filepath.FromSlash(t.Path))
			targets = append(targets, t)
		}
	}
	return targets, nil
}

type pipeline struct {
	planner *plan.Planner
	applier *apply.Applier
	close   func()
}

func newPipeline(opts config.Options, loc *time.Location, log logrus.FieldLogger, tags extract.TagSink) (*pipeline, error) {
	reader, closeReader, err := newReader(opts, log)
	if err != nil {
		return nil, err
	}

	ex := &extract.Extractor{
		Reader:  reader,
		Parser:  capturedate.Parser{Location: loc},
		NewTags: tags,
		Log:     log,
	}
	resolver := &sidecar.Resolver{
		MediaExtensions:  scan.DefaultMediaExtensions(),
		Dates:            ex,
		CompanionModTime: opts.CompanionModTime,
		Location:         loc,
		Log:              log,
	}

	return &pipeline{
		planner: &plan.Planner{Media: ex, Sidecars: resolver, Log: log},
		applier: &apply.Applier{Options: apply.Options{DryRun: opts.DryRun, Location: loc}, Log: log},
		close: func() {
			if err := closeReader(); err != nil {
				log.WithError(err).Warn("closing metadata reader")
			}
		},
	}, nil
}

func run(cmd *cobra.Command, opts config.Options, args []string) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	loc, err := opts.Location()
	if err != nil {
		return err
	}
	log := newLogger(cmd, opts)

	targets, err := collectTargets(args, scanOptions(opts))
	if err != nil {
		return err
	}

	tags, err := newtags.Open(opts.NewTagsPath)
	if err != nil {
		return err
	}
	defer tags.Close()

	p, err := newPipeline(opts, loc, log, tags)
	if err != nil {
		return err
	}
	defer p.close()

	var sum summary
	for _, t := range targets {
		sum.processed++
		log.Infof("Processing file: %s", t.Path)

		op, ok := p.planner.Plan(t)
		if !ok {
			sum.skipped++
			continue
		}

		res, err := p.applier.Apply(op.Path, op.Timestamp)
		if err != nil {
			log.WithField("path", op.Path).WithError(err).Warn("error applying date")
			sum.failed++
			continue
		}
		switch res.Action {
		case apply.ActionUpdated:
			sum.updated++
		case apply.ActionUnchanged:
			sum.unchanged++
		case apply.ActionDryRun:
			sum.dryRun++
		}
	}

	log.Infof("processed %d files: %d updated, %d unchanged, %d dry run, %d skipped, %d failed",
		sum.processed, sum.updated, sum.unchanged, sum.dryRun, sum.skipped, sum.failed)
	return nil
}

func runScan(cmd *cobra.Command, opts config.Options, args []string, dates bool) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	targets, err := collectTargets(args, scanOptions(opts))
	if err != nil {
		return err
	}

	if !dates {
		for _, t := range targets {
			cmd.Printf("%s\t%s\n", t.Kind, t.Path)
		}
		if opts.Verbose {
			cmd.PrintErrf("found %d files\n", len(targets))
		}
		return nil
	}

	loc, err := opts.Location()
	if err != nil {
		return err
	}
	log := newLogger(cmd, opts)
	log.SetOutput(cmd.ErrOrStderr())

	p, err := newPipeline(opts, loc, log, nil)
	if err != nil {
		return err
	}
	defer p.close()

	for _, op := range p.planner.PlanAll(targets) {
		cmd.Printf("%s\t%s\t%s\n", op.Kind, op.Path, op.Timestamp)
	}
	return nil
}
