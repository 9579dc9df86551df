package ffmpeg

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// FilterBuilder helps construct complex ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]string, 0),
	}
}

// Scale adds a scale filter
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		// Return self without adding filter - allows chaining to continue
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("scale=%d:%d", width, height))
	return fb
}

// ScaleToFill scales so the frame is fully covered, ready for a crop
func (fb *FilterBuilder) ScaleToFill(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase", width, height))
	return fb
}

// ScaleToFit scales so the frame contains the whole image, ready for padding
func (fb *FilterBuilder) ScaleToFit(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height))
	return fb
}

// Crop adds a centered crop filter
func (fb *FilterBuilder) Crop(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("crop=%d:%d", width, height))
	return fb
}

// Pad letterboxes the image to the target frame with a fill color
func (fb *FilterBuilder) Pad(width, height int, color string) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2:%s", width, height, color))
	return fb
}

// AudioVolume adjusts audio volume
func (fb *FilterBuilder) AudioVolume(volumeDB float64) *FilterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf("volume=%gdB", volumeDB))
	return fb
}

// Custom adds a custom filter string
func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	if filter == "" {
		return fb
	}
	fb.filters = append(fb.filters, filter)
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	return strings.Join(fb.filters, ",")
}

// EscapeFilterPath escapes a file path for use inside a filter expression
// (drawtext fontfile/textfile, subtitles, etc.)
func EscapeFilterPath(path string) string {
	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	// Windows: Convert backslashes to forward slashes
	if runtime.GOOS == "windows" {
		absPath = strings.ReplaceAll(absPath, "\\", "/")
	}

	// Escape special characters for ffmpeg filter
	escaped := strings.ReplaceAll(absPath, ":", "\\:")
	escaped = strings.ReplaceAll(escaped, "'", "\\'")

	return escaped
}
