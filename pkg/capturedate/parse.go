package capturedate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TimestampLayout is the normalized form produced by Resolved.Format.
const TimestampLayout = "20060102150405-0700"

// MinYear is the earliest year accepted as a capture date. The latest is the
// current year.
const MinYear = 1900

// ErrUnparseableDate is returned when no strategy can parse a value, or the
// parsed year is out of range.
var ErrUnparseableDate = errors.New("unparseable date")

// ParseError describes a value that could not be parsed.
type ParseError struct {
	Value string
	// Year is set when the value parsed but fell outside the accepted range.
	Year int
}

func (e *ParseError) Error() string {
	if e.Year != 0 {
		return fmt.Sprintf("%v: %q (year %d out of range)", ErrUnparseableDate, e.Value, e.Year)
	}
	return fmt.Sprintf("%v: %q", ErrUnparseableDate, e.Value)
}

func (e *ParseError) Unwrap() error { return ErrUnparseableDate }

// Resolved is a parsed capture date.
type Resolved struct {
	// Time is expressed in Location.
	Time     time.Time
	Location *time.Location

	// HadOffset is true when the raw value carried its own UTC offset.
	HadOffset bool
}

// Format returns the normalized "YYYYMMDDHHMMSS±hhmm" form.
func (r Resolved) Format() string {
	return r.Time.Format(TimestampLayout)
}

// Parser parses raw metadata date values.
type Parser struct {
	// Location is the target timezone. Values with an offset are converted to
	// it, values without one are taken to already be in it. If nil, time.Local
	// is used.
	Location *time.Location

	// Now returns the current time and bounds the accepted year. If nil,
	// time.Now is used.
	Now func() time.Time
}

type layout struct {
	value string
	zoned bool
}

var zones = []string{"Z07:00", "Z0700", ""}

func withZones(bases ...string) []layout {
	out := make([]layout, 0, len(bases)*len(zones))
	for _, b := range bases {
		for _, z := range zones {
			out = append(out, layout{value: b + z, zoned: z != ""})
		}
	}
	return out
}

// exifLike matches the colon-delimited metadata convention
// "YYYY:MM:DD HH:MM[:SS][offset]".
var exifLike = regexp.MustCompile(`^\d{4}:\d{2}:\d{2} \d{2}:\d{2}`)

var allDigits = regexp.MustCompile(`^\d+$`)

var exifLayouts = withZones(
	"2006:01:02 15:04:05",
	"2006:01:02 15:04",
)

var explicitLayouts = append(withZones(
	"2006:01:02 15:04:05",
	"2006:01:02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"20060102 15:04:05",
	"20060102 15:04",
	"20060102T150405",
	"20060102T1504",
),
	layout{value: "2006:01:02"},
	layout{value: "2006-01-02"},
	layout{value: "2006/01/02"},
	layout{value: "20060102"},
)

func (p Parser) location() *time.Location {
	if p.Location != nil {
		return p.Location
	}
	return time.Local
}

func (p Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// CurrentYear is the latest year Parse accepts.
func (p Parser) CurrentYear() int {
	return p.now().Year()
}

// Parse resolves raw into a point in time.
//
// Strategies are tried in order and the first in-range result wins: the
// colon-delimited metadata form, a general-purpose parse (skipped for digit
// only values), then a fixed list of explicit layouts. The year is checked
// after conversion to the target zone. Failures are *ParseError values wrapping
// ErrUnparseableDate.
func (p Parser) Parse(raw string) (Resolved, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Resolved{}, &ParseError{Value: raw}
	}

	loc := p.location()
	maxYear := p.CurrentYear()
	badYear := 0

	// The range applies to the date as reported in loc, not in the value's
	// own offset.
	accept := func(t time.Time, zoned bool) (Resolved, bool) {
		t = t.In(loc)
		if y := t.Year(); y < MinYear || y > maxYear {
			badYear = y
			return Resolved{}, false
		}
		return Resolved{Time: t, Location: loc, HadOffset: zoned}, true
	}

	if exifLike.MatchString(s) {
		for _, l := range exifLayouts {
			t, err := time.ParseInLocation(l.value, s, loc)
			if err != nil {
				continue
			}
			if r, ok := accept(t, l.zoned); ok {
				return r, nil
			}
			break
		}
	}

	// dateparse reads bare digit runs as unix timestamps. Compact dates are
	// left to the explicit layouts.
	if !allDigits.MatchString(s) {
		if t, err := naturalParse(s, loc); err == nil {
			if r, ok := accept(t, t.Location() != loc); ok {
				return r, nil
			}
		}
	}

	for _, l := range explicitLayouts {
		t, err := time.ParseInLocation(l.value, s, loc)
		if err != nil {
			continue
		}
		if r, ok := accept(t, l.zoned); ok {
			return r, nil
		}
	}

	return Resolved{}, &ParseError{Value: raw, Year: badYear}
}

// naturalParse wraps dateparse, which can panic on some malformed inputs.
func naturalParse(s string, loc *time.Location) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dateparse: %v", r)
		}
	}()
	return dateparse.ParseIn(s, loc)
}
