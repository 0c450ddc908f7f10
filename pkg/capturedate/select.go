package capturedate

import (
	"strings"

	"github.com/quidome/exif2mtime-go/pkg/metadata"
)

// CanonicalFields are the tag names treated as authoritative for the capture
// date, highest priority first.
//
// The order is load-bearing: a tag such as "SubSecDateTimeOriginal" also
// contains "DateTimeOriginal" and "DateTime", so it only wins its own tier when
// no earlier tier matched anything.
var CanonicalFields = []string{
	"MetadataDate",
	"ModifyDate",
	"CreateDate",
	"DateCreated",
	"DateTimeCreated",
	"DateTime",
	"DateTimeOriginal",
	"GPSDateStamp",
	"GPSDateTime",
	"DateTimeDigitized",
	"SubSecCreateDate",
	"SubSecDateTimeOriginal",
	"SubSecModifyDate",
}

// Candidate is the tag selected as the capture date.
type Candidate struct {
	Tag   string
	Value string

	// Field is the canonical field that matched, or "" when the candidate is
	// the first-seen fallback.
	Field string
}

type tier struct {
	field string
	match func(tag string) bool
}

// tiers matches namespaced tags ("EXIF:DateTimeOriginal") by case-insensitive
// substring, one tier per canonical field.
var tiers = func() []tier {
	ts := make([]tier, 0, len(CanonicalFields))
	for _, f := range CanonicalFields {
		needle := strings.ToLower(f)
		ts = append(ts, tier{
			field: f,
			match: func(tag string) bool { return strings.Contains(strings.ToLower(tag), needle) },
		})
	}
	return ts
}()

// isDateTag reports whether a tag is a capture date candidate at all. Tags
// mentioning "file" describe the file system, not the content.
func isDateTag(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "date") && !strings.Contains(lower, "file")
}

// Select picks the capture date tag from rec.
//
// The first tier with any matching date tag wins, and within a tier the first
// tag in record order wins. When no tier matches, the first date tag in record
// order is used. ok is false when rec has no date tags.
//
// Record order is whatever the metadata.Reader produced; both readers in this
// module sort tags by name.
func Select(rec metadata.Record) (c Candidate, ok bool) {
	dates := make(metadata.Record, 0, len(rec))
	for _, t := range rec {
		if isDateTag(t.Name) {
			dates = append(dates, t)
		}
	}
	if len(dates) == 0 {
		return Candidate{}, false
	}

	for _, tr := range tiers {
		for _, t := range dates {
			if tr.match(t.Name) {
				return Candidate{Tag: t.Name, Value: t.Value, Field: tr.field}, true
			}
		}
	}

	return Candidate{Tag: dates[0].Name, Value: dates[0].Value}, true
}

// UnrecognizedDateTags returns the tags of rec that look like dates but are not
// one of the CanonicalFields, with the group prefix stripped. File system tags
// are skipped.
func UnrecognizedDateTags(rec metadata.Record) []metadata.Tag {
	var out []metadata.Tag
	for _, t := range rec {
		if strings.Contains(strings.ToUpper(t.Name), "FILE:") {
			continue
		}
		name := metadata.TagName(t.Name)
		if !strings.Contains(name, "Date") || isCanonical(name) {
			continue
		}
		out = append(out, metadata.Tag{Name: name, Value: t.Value})
	}
	return out
}

func isCanonical(name string) bool {
	for _, f := range CanonicalFields {
		if f == name {
			return true
		}
	}
	return false
}
