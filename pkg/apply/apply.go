// Package apply sets file modification times to resolved capture dates.
package apply

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/djherbis/times.v1"

	"github.com/quidome/exif2mtime-go/pkg/capturedate"
)

// ErrApply is returned when a timestamp is malformed or cannot be written.
var ErrApply = errors.New("apply timestamp failed")

// Action describes what Apply did to a file.
type Action string

const (
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionDryRun    Action = "dry_run"
)

// Result is the outcome of applying a timestamp to one file.
type Result struct {
	Path   string
	Action Action

	// Old is the modification time before Apply, New the requested one.
	Old time.Time
	New time.Time

	// Changed is the status change time before Apply, zero where the
	// platform does not report one.
	Changed time.Time
}

// Options configures an Applier.
type Options struct {
	// DryRun reports the change without touching the file.
	DryRun bool

	// Location is used for timestamps without an offset and for reporting.
	// If nil, time.Local is used.
	Location *time.Location
}

// Applier writes modification times.
type Applier struct {
	Options
	Log logrus.FieldLogger
}

func (a *Applier) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}

func (a *Applier) log() logrus.FieldLogger {
	if a.Log == nil {
		return logrus.StandardLogger()
	}
	return a.Log
}

// ParseTimestamp parses a normalized "YYYYMMDDHHMMSS±hhmm" timestamp. The
// offset may be omitted, in which case loc applies.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(capturedate.TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("20060102150405", s, loc)
}

// Apply sets the access and modification times of path to timestamp.
//
// The status change time cannot be set directly; the kernel updates it on
// every write. A file that already carries the timestamp is left alone.
func (a *Applier) Apply(path, timestamp string) (Result, error) {
	loc := a.location()

	t, err := ParseTimestamp(timestamp, loc)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("%w: %s: malformed timestamp %q", ErrApply, path, timestamp)
	}
	t = t.In(loc)

	ts, err := times.Stat(path)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("%w: %v", ErrApply, err)
	}

	res := Result{Path: path, Old: ts.ModTime(), New: t}
	if ts.HasChangeTime() {
		res.Changed = ts.ChangeTime()
	}

	if a.DryRun {
		res.Action = ActionDryRun
		a.log().Infof("Dry run: %s %s -> %s", path, res.Old.In(loc).Format("20060102"), t.Format("20060102"))
		return res, nil
	}

	if res.Old.Equal(t) {
		res.Action = ActionUnchanged
		a.log().WithField("path", path).Debug("timestamp already set")
		return res, nil
	}

	if err := os.Chtimes(path, t, t); err != nil {
		return res, fmt.Errorf("%w: %v", ErrApply, err)
	}

	res.Action = ActionUpdated
	a.log().WithFields(logrus.Fields{
		"path": path,
		"old":  res.Old.In(loc).Format(capturedate.TimestampLayout),
		"new":  t.Format(capturedate.TimestampLayout),
	}).Debug("modification time updated")
	return res, nil
}
