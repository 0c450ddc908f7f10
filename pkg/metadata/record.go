// Package metadata reads embedded metadata tags from media files.
//
// A Reader turns a file path into a Record: the ordered list of tag name/value
// pairs reported by the underlying extraction tool. Tag names are namespaced
// with their group, for example "EXIF:DateTimeOriginal" or "XMP:ModifyDate".
package metadata

import (
	"errors"
	"strings"
)

// ErrExtraction is returned when the metadata tool is unavailable or produced
// unusable output for a file.
var ErrExtraction = errors.New("metadata extraction failed")

// Tag is a single metadata field with its raw string value.
type Tag struct {
	Name  string
	Value string
}

// Record is the ordered set of tags extracted from one file.
//
// Order is defined by the Reader that produced it and is only significant as a
// tie-break between tags that are otherwise equally ranked.
type Record []Tag

// Reader extracts a Record for a file.
//
// Implementations wrap failures in ErrExtraction.
type Reader interface {
	Read(path string) (Record, error)
}

// Get returns the value of the first tag whose name equals name
// (case-insensitive).
func (r Record) Get(name string) (string, bool) {
	for _, t := range r {
		if strings.EqualFold(t.Name, name) {
			return t.Value, true
		}
	}
	return "", false
}

// TagName strips the group prefix from a namespaced tag name.
//
//	TagName("EXIF:DateTimeOriginal") == "DateTimeOriginal"
func TagName(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		return name[i+1:]
	}
	return name
}
