package capturedate

import (
	"errors"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	plusOne := time.FixedZone("TEST", 60*60)
	minusFive := time.FixedZone("TEST", -5*60*60)

	testCases := []struct {
		name       string
		raw        string
		loc        *time.Location
		want       time.Time
		wantFormat string
		wantOffset bool
	}{
		{
			name:       "colon form with offset",
			raw:        "2023:07:15 10:30:00+0200",
			loc:        time.UTC,
			want:       time.Date(2023, 7, 15, 8, 30, 0, 0, time.UTC),
			wantFormat: "20230715083000+0000",
			wantOffset: true,
		},
		{
			name:       "colon form with colon offset",
			raw:        "2023:07:15 10:30:00+02:00",
			loc:        plusOne,
			want:       time.Date(2023, 7, 15, 8, 30, 0, 0, time.UTC),
			wantFormat: "20230715093000+0100",
			wantOffset: true,
		},
		{
			name:       "naive colon form is in target zone",
			raw:        "2019:03:01 08:15:00",
			loc:        plusOne,
			want:       time.Date(2019, 3, 1, 8, 15, 0, 0, plusOne),
			wantFormat: "20190301081500+0100",
		},
		{
			name:       "colon form without seconds",
			raw:        "2019:03:01 08:15",
			loc:        time.UTC,
			want:       time.Date(2019, 3, 1, 8, 15, 0, 0, time.UTC),
			wantFormat: "20190301081500+0000",
		},
		{
			name:       "colon form with subseconds",
			raw:        "2019:03:01 08:15:00.25",
			loc:        time.UTC,
			want:       time.Date(2019, 3, 1, 8, 15, 0, 250000000, time.UTC),
			wantFormat: "20190301081500+0000",
		},
		{
			name:       "RFC 3339 UTC is converted",
			raw:        "2020-01-01T00:00:00Z",
			loc:        minusFive,
			want:       time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			wantFormat: "20191231190000-0500",
			wantOffset: true,
		},
		{
			name:       "slash form",
			raw:        "2019/03/01 08:15:00",
			loc:        time.UTC,
			want:       time.Date(2019, 3, 1, 8, 15, 0, 0, time.UTC),
			wantFormat: "20190301081500+0000",
		},
		{
			name:       "compact date only",
			raw:        "20190301",
			loc:        time.UTC,
			want:       time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC),
			wantFormat: "20190301000000+0000",
		},
		{
			name:       "ISO basic with offset",
			raw:        "20190301T081500+0200",
			loc:        time.UTC,
			want:       time.Date(2019, 3, 1, 6, 15, 0, 0, time.UTC),
			wantFormat: "20190301061500+0000",
			wantOffset: true,
		},
		{
			name:       "compact date with time",
			raw:        "20190301 08:15:00",
			loc:        time.UTC,
			want:       time.Date(2019, 3, 1, 8, 15, 0, 0, time.UTC),
			wantFormat: "20190301081500+0000",
		},
		{
			name:       "dash form with offset",
			raw:        "2019-03-01 08:15:00+0200",
			loc:        time.UTC,
			want:       time.Date(2019, 3, 1, 6, 15, 0, 0, time.UTC),
			wantFormat: "20190301061500+0000",
			wantOffset: true,
		},
		{
			name:       "colon date only",
			raw:        "2019:03:01",
			loc:        time.UTC,
			want:       time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC),
			wantFormat: "20190301000000+0000",
		},
		{
			name:       "current year is in range",
			raw:        "2024:01:01 00:00:00",
			loc:        time.UTC,
			want:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantFormat: "20240101000000+0000",
		},
		{
			name:       "lower bound is in range",
			raw:        "1900:01:01 00:00:00",
			loc:        time.UTC,
			want:       time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
			wantFormat: "19000101000000+0000",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := Parser{Location: tc.loc, Now: fixedNow}

			got, err := p.Parse(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Time.Equal(tc.want) {
				t.Fatalf("unexpected time\n got: %v\nwant: %v", got.Time, tc.want)
			}
			if got.Time.Location() != tc.loc {
				t.Fatalf("expected time in %v, got %v", tc.loc, got.Time.Location())
			}
			if got.Format() != tc.wantFormat {
				t.Fatalf("Format() = %q, want %q", got.Format(), tc.wantFormat)
			}
			if got.HadOffset != tc.wantOffset {
				t.Fatalf("HadOffset = %v, want %v", got.HadOffset, tc.wantOffset)
			}
		})
	}
}

func TestParse_FormatRoundTripsInstant(t *testing.T) {
	p := Parser{Location: time.FixedZone("TEST", -3*60*60), Now: fixedNow}

	got, err := p.Parse("2023:07:15 10:30:00+0200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	back, err := time.Parse(TimestampLayout, got.Format())
	if err != nil {
		t.Fatalf("reparse %q: %v", got.Format(), err)
	}
	want := time.Date(2023, 7, 15, 10, 30, 0, 0, time.FixedZone("", 2*60*60))
	if !back.Equal(want) {
		t.Fatalf("round trip changed instant\n got: %v\nwant: %v", back, want)
	}
}

func TestParse_Unparseable(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		wantYear int
	}{
		{name: "free text", raw: "not a date"},
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "   "},
		{name: "future year", raw: "2999-01-01 00:00:00", wantYear: 2999},
		{name: "before 1900", raw: "1850-06-01 10:00:00", wantYear: 1850},
		{name: "next year", raw: "2025-01-01 00:00:00", wantYear: 2025},
		{name: "offset pushes into next year", raw: "2024:12:31 23:30:00-0500", wantYear: 2025},
		{name: "offset pulls before 1900", raw: "1900:01:01 00:30:00+0100", wantYear: 1899},
		{name: "unix seconds", raw: "1577836800"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := Parser{Location: time.UTC, Now: fixedNow}

			_, err := p.Parse(tc.raw)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !errors.Is(err, ErrUnparseableDate) {
				t.Fatalf("expected ErrUnparseableDate, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Value != tc.raw {
				t.Fatalf("ParseError.Value = %q, want %q", pe.Value, tc.raw)
			}
			if pe.Year != tc.wantYear {
				t.Fatalf("ParseError.Year = %d, want %d", pe.Year, tc.wantYear)
			}
		})
	}
}

func TestParser_Defaults(t *testing.T) {
	got, err := Parser{}.Parse("2019:03:01 08:15:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location != time.Local {
		t.Fatalf("expected time.Local, got %v", got.Location)
	}
	if want := time.Date(2019, 3, 1, 8, 15, 0, 0, time.Local); !got.Time.Equal(want) {
		t.Fatalf("unexpected time\n got: %v\nwant: %v", got.Time, want)
	}
}
