// Package capturedate picks and parses the capture date of a media file.
//
// Select chooses the single most authoritative date tag from a metadata
// Record using a fixed priority list with a first-seen fallback. Parser turns
// that tag's raw value into a point in time in the configured timezone.
package capturedate
