package overlay

import (
	"fmt"
	"os"
	"strings"

	"github.com/reelstitch/reelstitch/internal/ffmpeg"
	"github.com/reelstitch/reelstitch/pkg/util"
)

// Text is the overlay for one run: the raw operator input, its wrapped
// form, and the temporary file handed to drawtext.
type Text struct {
	Raw      string
	Wrapped  string
	FilePath string
}

// NewText wraps raw input against the line budget. Returns nil for empty
// input, which means the run carries no overlay.
func NewText(raw string, budget int, filePath string) *Text {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &Text{
		Raw:      raw,
		Wrapped:  Wrap(raw, budget),
		FilePath: filePath,
	}
}

// WriteFile persists the wrapped text for the drawtext textfile parameter.
func (t *Text) WriteFile() error {
	if err := os.WriteFile(t.FilePath, []byte(t.Wrapped), 0644); err != nil {
		return fmt.Errorf("failed to write overlay text file: %w", err)
	}
	return nil
}

// Cleanup removes the temporary text file. Safe to call on every exit path.
func (t *Text) Cleanup() {
	if t == nil {
		return
	}
	util.CleanupFiles(t.FilePath)
}

// Lines returns the wrapped text split for preview output.
func (t *Text) Lines() []string {
	return strings.Split(t.Wrapped, "\n")
}

// DrawtextOptions configures the burn-in filter for the hook segment.
type DrawtextOptions struct {
	TextFile string
	FontFile string // empty selects ffmpeg's built-in font
	FontSize int
	Duration float64 // seconds the overlay stays visible from t=0
}

// Drawtext builds the drawtext filter expression: white fill with a black
// border, horizontally centered, 100 px below vertical center, visible for
// the configured window at the start of the video.
func Drawtext(opts DrawtextOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "drawtext=textfile='%s'", ffmpeg.EscapeFilterPath(opts.TextFile))
	if opts.FontFile != "" {
		fmt.Fprintf(&b, ":fontfile='%s'", ffmpeg.EscapeFilterPath(opts.FontFile))
	}
	fmt.Fprintf(&b, ":fontsize=%d", opts.FontSize)
	b.WriteString(":fontcolor=white")
	b.WriteString(":borderw=4")
	b.WriteString(":bordercolor=black")
	b.WriteString(":x=(w-text_w)/2")
	b.WriteString(":y=(h-text_h)/2+100")
	b.WriteString(":text_align=C")
	fmt.Fprintf(&b, ":enable='between(t,0,%g)'", opts.Duration)
	return b.String()
}
