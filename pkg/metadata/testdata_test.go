package metadata

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// jpegWithDateTimeOriginal builds a minimal JPEG whose APP1 segment holds a
// single EXIF DateTimeOriginal field.
func jpegWithDateTimeOriginal(value string) []byte {
	le := binary.LittleEndian
	val := append([]byte(value), 0)

	tiff := new(bytes.Buffer)
	tiff.WriteString("II")
	_ = binary.Write(tiff, le, uint16(42))
	_ = binary.Write(tiff, le, uint32(8))

	// IFD0 at offset 8: one entry pointing at the Exif sub-IFD.
	_ = binary.Write(tiff, le, uint16(1))
	_ = binary.Write(tiff, le, uint16(0x8769))
	_ = binary.Write(tiff, le, uint16(4))
	_ = binary.Write(tiff, le, uint32(1))
	_ = binary.Write(tiff, le, uint32(26))
	_ = binary.Write(tiff, le, uint32(0))

	// Exif IFD at offset 26: DateTimeOriginal, ASCII, value stored at 44.
	_ = binary.Write(tiff, le, uint16(1))
	_ = binary.Write(tiff, le, uint16(0x9003))
	_ = binary.Write(tiff, le, uint16(2))
	_ = binary.Write(tiff, le, uint32(len(val)))
	_ = binary.Write(tiff, le, uint32(44))
	_ = binary.Write(tiff, le, uint32(0))
	tiff.Write(val)

	app1 := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	out := new(bytes.Buffer)
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	_ = binary.Write(out, binary.BigEndian, uint16(len(app1)+2))
	out.Write(app1)
	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}

func writeFixture(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
