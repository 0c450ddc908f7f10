// Package scan discovers media and sidecar files whose timestamps should be
// normalized.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind tells how a file's capture date is found.
type Kind string

const (
	// KindMedia files carry their own embedded date.
	KindMedia Kind = "media"
	// KindSidecar files borrow the date of a companion media file.
	KindSidecar Kind = "sidecar"
)

type Options struct {
	MaxDepth int

	MediaExtensions   []string
	SidecarExtensions []string

	// AnyDate disables the year filter. Otherwise only files last modified
	// in Year are returned.
	AnyDate bool
	Year    int
}

func DefaultMediaExtensions() []string {
	return []string{
		".3gp", ".avi", ".cr2", ".exr", ".gif", ".jpeg", ".jpg", ".mov", ".mp4", ".png", ".tif",
		".heic", ".tiff", ".webp", ".bmp", ".m4v", ".mkv", ".webm", ".mts",
	}
}

func DefaultSidecarExtensions() []string {
	return []string{".xmp", ".xcf"}
}

func DefaultOptions() Options {
	return Options{
		MaxDepth:          0,
		MediaExtensions:   DefaultMediaExtensions(),
		SidecarExtensions: DefaultSidecarExtensions(),
		Year:              time.Now().Year(),
	}
}

// Target is a file to process.
type Target struct {
	Path    string    `json:"path"`
	Kind    Kind      `json:"kind"`
	ModTime time.Time `json:"mod_time"`
}

// Classify returns the kind of path from its extension. ok is false for
// files that are neither media nor sidecars.
func Classify(path string, opts Options) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if normalizeExts(opts.SidecarExtensions)[ext] {
		return KindSidecar, true
	}
	if normalizeExts(opts.MediaExtensions)[ext] {
		return KindMedia, true
	}
	return "", false
}

// Wanted reports whether a file modified at modTime passes the year filter.
func (o Options) Wanted(modTime time.Time) bool {
	return o.AnyDate || modTime.Year() == o.Year
}

// Scan walks root in fsys and returns the matching targets sorted by path.
// Paths are slash-separated and relative to root.
func Scan(fsys fs.FS, root string, opts Options) ([]Target, error) {
	if opts.MaxDepth < -1 {
		return nil, fs.ErrInvalid
	}

	mediaExts := normalizeExts(opts.MediaExtensions)
	sidecarExts := normalizeExts(opts.SidecarExtensions)

	var matches []Target

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if opts.MaxDepth >= 0 {
				rel, relErr := filepath.Rel(root, path)
				if relErr != nil {
					return relErr
				}
				if rel == "." {
					return nil
				}
				if depth(rel) > opts.MaxDepth {
					return fs.SkipDir
				}
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		if opts.MaxDepth >= 0 && depth(rel) > opts.MaxDepth {
			return nil
		}

		var kind Kind
		ext := strings.ToLower(filepath.Ext(rel))
		switch {
		case sidecarExts[ext]:
			kind = KindSidecar
		case mediaExts[ext]:
			kind = KindMedia
		default:
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		if !info.Mode().IsRegular() || !opts.Wanted(info.ModTime()) {
			return nil
		}

		matches = append(matches, Target{
			Path:    filepath.ToSlash(rel),
			Kind:    kind,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Path < matches[j].Path
	})
	return matches, nil
}

func normalizeExts(exts []string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, ext := range exts {
		e := strings.TrimSpace(strings.ToLower(ext))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		m[e] = true
	}
	return m
}

func depth(rel string) int {
	rel = filepath.Clean(rel)
	if rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/")
}
