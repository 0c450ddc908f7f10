// Package extract resolves the capture date of a single file from its
// embedded metadata.
package extract

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/quidome/exif2mtime-go/pkg/capturedate"
	"github.com/quidome/exif2mtime-go/pkg/metadata"
)

// ErrNoDate is returned when a file's metadata has no date tag at all.
var ErrNoDate = errors.New("no date tag found")

// TagSink receives date-like tags that are not canonical capture date fields.
type TagSink interface {
	Append(tags ...metadata.Tag) error
}

// Result is a successfully resolved capture date.
type Result struct {
	Path      string
	Candidate capturedate.Candidate
	Resolved  capturedate.Resolved
}

// Timestamp returns the normalized "YYYYMMDDHHMMSS±hhmm" form.
func (r Result) Timestamp() string {
	return r.Resolved.Format()
}

// Extractor reads a file's metadata, selects the capture date tag and parses
// it.
type Extractor struct {
	Reader metadata.Reader
	Parser capturedate.Parser

	// NewTags, if set, receives unrecognized date tags of every record read.
	NewTags TagSink

	Log logrus.FieldLogger
}

func (e *Extractor) log() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

// Lookup returns the capture date of path.
//
// Errors wrap metadata.ErrExtraction, ErrNoDate or
// capturedate.ErrUnparseableDate. On a parse failure the returned Result still
// carries the offending Candidate.
func (e *Extractor) Lookup(path string) (Result, error) {
	rec, err := e.Reader.Read(path)
	if err != nil {
		return Result{Path: path}, err
	}
	e.recordNewTags(path, rec)

	c, ok := capturedate.Select(rec)
	if !ok {
		return Result{Path: path}, ErrNoDate
	}

	r, err := e.Parser.Parse(c.Value)
	if err != nil {
		return Result{Path: path, Candidate: c}, fmt.Errorf("%s: %w", c.Tag, err)
	}
	return Result{Path: path, Candidate: c, Resolved: r}, nil
}

// Extract returns the normalized capture date of path, or ok=false when none
// could be resolved. Failures are logged, never returned.
func (e *Extractor) Extract(path string) (timestamp string, ok bool) {
	log := e.log().WithField("path", path)

	res, err := e.Lookup(path)
	switch {
	case err == nil:
	case errors.Is(err, capturedate.ErrUnparseableDate):
		log.WithFields(logrus.Fields{
			"tag":   res.Candidate.Tag,
			"value": res.Candidate.Value,
		}).Warn("invalid date format")
		return "", false
	case errors.Is(err, ErrNoDate):
		log.Debug("no date tag in metadata")
		return "", false
	default:
		log.WithError(err).Warn("error extracting metadata date")
		return "", false
	}

	if y := res.Resolved.Time.Year(); y == e.Parser.CurrentYear() {
		log.Warnf("found a date in %d", y)
	}
	log.WithField("tag", res.Candidate.Tag).Debugf("capture date %s", res.Timestamp())
	return res.Timestamp(), true
}

func (e *Extractor) recordNewTags(path string, rec metadata.Record) {
	if e.NewTags == nil {
		return
	}
	if err := e.NewTags.Append(capturedate.UnrecognizedDateTags(rec)...); err != nil {
		e.log().WithField("path", path).WithError(err).Warn("could not record new tags")
	}
}
