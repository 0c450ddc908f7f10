// Package sidecar finds the media file a metadata sidecar belongs to and
// borrows its capture date.
package sidecar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quidome/exif2mtime-go/pkg/capturedate"
)

// ErrNoCompanion is returned when no media file matches a sidecar.
var ErrNoCompanion = errors.New("no companion media file found")

// DateSource resolves the capture date of a media file.
type DateSource interface {
	Extract(path string) (timestamp string, ok bool)
}

// Resolver locates companion media files for sidecars.
type Resolver struct {
	// MediaExtensions are tried in order, all lowercase first, then all
	// uppercase.
	MediaExtensions []string

	Dates DateSource

	// CompanionModTime uses the companion's file modification time when its
	// metadata has no date. Location is used to format that time; nil means
	// time.Local.
	CompanionModTime bool
	Location         *time.Location

	Log logrus.FieldLogger
}

func (r *Resolver) log() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

// Companion returns the media file that belongs to the sidecar at path.
//
// Lookups, first match wins:
//  1. the sidecar's extension replaced by a lowercase media extension
//  2. the sidecar's stem with an uppercase media extension appended
//  3. any media file in the same directory whose name starts with the
//     sidecar's stem
//
// The stem is the name minus its last extension only, so "trip.2019.xmp"
// never matches "trip.jpg".
func (r *Resolver) Companion(path string) (string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	for _, ext := range r.MediaExtensions {
		if c := filepath.Join(dir, stem+strings.ToLower(ext)); c != path && isFile(c) {
			r.log().WithFields(logrus.Fields{"path": path, "companion": c, "strategy": "substitute"}).Debug("companion found")
			return c, nil
		}
	}

	for _, ext := range r.MediaExtensions {
		if c := filepath.Join(dir, stem+strings.ToUpper(ext)); c != path && isFile(c) {
			r.log().WithFields(logrus.Fields{"path": path, "companion": c, "strategy": "stem"}).Debug("companion found")
			return c, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNoCompanion, path, err)
	}
	for _, ext := range r.MediaExtensions {
		for _, e := range entries {
			name := e.Name()
			if name == base || !e.Type().IsRegular() || !strings.HasPrefix(name, stem) {
				continue
			}
			if strings.EqualFold(filepath.Ext(name), ext) {
				c := filepath.Join(dir, name)
				r.log().WithFields(logrus.Fields{"path": path, "companion": c, "strategy": "prefix"}).Debug("companion found")
				return c, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoCompanion, path)
}

// Resolve returns the capture date for the sidecar at path, taken from its
// companion media file. Failures are logged and reported as ok=false.
func (r *Resolver) Resolve(path string) (timestamp string, ok bool) {
	log := r.log().WithField("path", path)

	companion, err := r.Companion(path)
	if err != nil {
		log.Warn("no image found for sidecar")
		return "", false
	}

	if ts, ok := r.Dates.Extract(companion); ok {
		return ts, true
	}

	if !r.CompanionModTime {
		log.WithField("companion", companion).Warn("companion has no date")
		return "", false
	}

	info, err := os.Stat(companion)
	if err != nil {
		log.WithField("companion", companion).WithError(err).Warn("stat companion")
		return "", false
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	log.WithField("companion", companion).Info("using companion modification time")
	return info.ModTime().In(loc).Format(capturedate.TimestampLayout), true
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
