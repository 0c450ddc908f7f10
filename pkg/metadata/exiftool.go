package metadata

import (
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"sync"

	"github.com/barasher/go-exiftool"
	"github.com/sirupsen/logrus"
)

// ExifTool reads metadata through a stay-open exiftool process.
//
// The process is started on first use and reused for later files until Close
// is called. ExifTool is safe for concurrent use.
type ExifTool struct {
	Log logrus.FieldLogger

	mu sync.Mutex
	et *exiftool.Exiftool
}

// ExifToolAvailable reports whether the exiftool binary is on PATH.
func ExifToolAvailable() bool {
	_, err := exec.LookPath("exiftool")
	return err == nil
}

// NewExifTool returns a reader backed by exiftool. The process is not started
// until the first Read.
func NewExifTool(log logrus.FieldLogger) *ExifTool {
	return &ExifTool{Log: log}
}

func (s *ExifTool) ensure() (*exiftool.Exiftool, error) {
	if s.et != nil {
		return s.et, nil
	}
	// -G0 prefixes every tag with its family 0 group, e.g. "EXIF:DateTimeOriginal".
	et, err := exiftool.NewExiftool(exiftool.PrintGroupNames("0"))
	if err != nil {
		return nil, fmt.Errorf("%w: start exiftool: %v", ErrExtraction, err)
	}
	s.et = et
	return et, nil
}

// Read returns the tags exiftool reports for path.
//
// exiftool results come back as an unordered map, so the Record is sorted by
// tag name to keep selection deterministic.
func (s *ExifTool) Read(path string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	et, err := s.ensure()
	if err != nil {
		return nil, err
	}

	infos := et.ExtractMetadata(path)
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: no output for %s", ErrExtraction, path)
	}
	if len(infos) > 1 && s.Log != nil {
		s.Log.WithField("path", path).Warnf("multiple metadata dictionaries found, using the first")
	}

	fi := infos[0]
	if fi.Err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExtraction, path, fi.Err)
	}

	rec := make(Record, 0, len(fi.Fields))
	for name, v := range fi.Fields {
		if name == "SourceFile" {
			continue
		}
		rec = append(rec, Tag{Name: name, Value: stringValue(v)})
	}
	sort.Slice(rec, func(i, j int) bool {
		return rec[i].Name < rec[j].Name
	})
	return rec, nil
}

// Close stops the exiftool process if it was started.
func (s *ExifTool) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.et == nil {
		return nil
	}
	err := s.et.Close()
	s.et = nil
	return err
}

func stringValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
