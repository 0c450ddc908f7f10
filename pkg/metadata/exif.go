package metadata

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// EXIF reads ASCII EXIF tags natively, without an external tool.
//
// It only understands JPEG and TIFF based containers, so it is a fallback for
// hosts without exiftool. Tags are reported in the "EXIF" group.
type EXIF struct{}

func (EXIF) Read(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// Non-critical errors still come with the tags that could be read.
		if x == nil || exif.IsCriticalError(err) {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrExtraction, path, err)
		}
	}

	w := &tagCollector{}
	if err := x.Walk(w); err != nil {
		return nil, fmt.Errorf("%w: walk %s: %v", ErrExtraction, path, err)
	}
	sort.Slice(w.rec, func(i, j int) bool {
		return w.rec[i].Name < w.rec[j].Name
	})
	return w.rec, nil
}

type tagCollector struct {
	rec Record
}

func (c *tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	s, err := tag.StringVal()
	if err != nil {
		// Only ASCII fields can carry a date.
		return nil
	}
	c.rec = append(c.rec, Tag{
		Name:  "EXIF:" + string(name),
		Value: strings.TrimRight(s, "\x00 "),
	})
	return nil
}
