// Package config holds the run options shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	// Embedded zone data so --timezone works on hosts without tzdata.
	_ "time/tzdata"

	"github.com/quidome/exif2mtime-go/pkg/newtags"
)

// EnvTimezone supplies the default for Options.Timezone.
const EnvTimezone = "EXIF2MTIME_TIMEZONE"

// Metadata readers.
const (
	ReaderAuto     = "auto"
	ReaderExifTool = "exiftool"
	ReaderGoExif   = "goexif"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

type Options struct {
	Recurse bool
	DryRun  bool
	// AnyDate processes files regardless of the year they were last modified.
	AnyDate bool
	Verbose bool

	// Timezone is an IANA zone name. Empty means the system local zone.
	Timezone string

	Reader      string
	NewTagsPath string

	// CompanionModTime lets sidecars fall back to their companion's
	// modification time when the companion has no metadata date.
	CompanionModTime bool
}

// Default returns the options used when no flags are given.
func Default() Options {
	return Options{
		Timezone:    os.Getenv(EnvTimezone),
		Reader:      ReaderAuto,
		NewTagsPath: newtags.DefaultPath,
	}
}

func (o Options) Validate() error {
	switch o.Reader {
	case ReaderAuto, ReaderExifTool, ReaderGoExif:
	default:
		return fmt.Errorf("%w: unknown reader %q (want %s, %s or %s)", ErrInvalid, o.Reader, ReaderAuto, ReaderExifTool, ReaderGoExif)
	}
	if o.NewTagsPath == "" {
		return fmt.Errorf("%w: empty new tags path", ErrInvalid)
	}
	if _, err := o.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (o Options) Location() (*time.Location, error) {
	if o.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalid, o.Timezone, err)
	}
	return loc, nil
}

// MaxDepth is the discovery depth: unlimited when recursing, top level
// otherwise.
func (o Options) MaxDepth() int {
	if o.Recurse {
		return -1
	}
	return 0
}
