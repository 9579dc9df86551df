package ffmpeg

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH - install with: brew install ffmpeg")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	exec, err := New(logger, "ffmpeg", "ffprobe", 4)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	if exec.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
	if exec.ffprobePath == "" {
		t.Error("ffprobe path is empty")
	}
}

func TestExecutorCreationMissingBinary(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	if _, err := New(logger, "clearly-not-a-real-binary", "ffprobe", 0); err == nil {
		t.Error("expected error for missing ffmpeg binary")
	}
}

func TestStreamOutputProgress(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	e := &Executor{logger: logger}

	input := strings.Join([]string{
		"frame=42",
		"fps=29.97",
		"bitrate= 210.5kbits/s",
		"time=00:00:01.40",
		"speed=1.25x",
		"progress=continue",
		"frame=84",
		"time=00:00:02.80",
		"progress=end",
	}, "\n")

	var got []*Progress
	e.streamOutput(strings.NewReader(input), func(p *Progress) {
		got = append(got, p)
	}, nil)

	if len(got) != 2 {
		t.Fatalf("expected 2 progress blocks, got %d", len(got))
	}
	if got[0].Frame != 42 {
		t.Errorf("expected frame 42, got %d", got[0].Frame)
	}
	if got[0].Time != "00:00:01.40" {
		t.Errorf("unexpected time: %q", got[0].Time)
	}
	if got[0].Bitrate != "210.5kbits/s" {
		t.Errorf("unexpected bitrate: %q", got[0].Bitrate)
	}
	if got[0].Speed != "1.25x" {
		t.Errorf("unexpected speed: %q", got[0].Speed)
	}
	if got[1].Frame != 84 {
		t.Errorf("expected frame 84, got %d", got[1].Frame)
	}
}

func TestTailBufferKeepsLastLines(t *testing.T) {
	tail := newTailBuffer(3)
	for _, line := range []string{"one", "", "two", "three", "four"} {
		tail.Add(line)
	}

	lines := tail.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "two" || lines[2] != "four" {
		t.Errorf("unexpected tail: %v", lines)
	}
}

func TestRunErrorMentionsAny(t *testing.T) {
	runErr := &RunError{
		Err:        errors.New("exit status 1"),
		StderrTail: []string{"[Parsed_drawtext] Could not load font", "fontfile not found"},
	}

	if !runErr.MentionsAny("fontfile", "textfile") {
		t.Error("expected fontfile mention to match")
	}
	if runErr.MentionsAny("No such filter") {
		t.Error("unexpected match for absent marker")
	}

	var target *RunError
	wrapped := errors.Join(runErr)
	if !errors.As(wrapped, &target) {
		t.Error("RunError should survive wrapping")
	}
}

func TestFilterBuilderVerticalChains(t *testing.T) {
	hook := NewFilterBuilder().
		ScaleToFill(1080, 1920).
		Crop(1080, 1920).
		Build()
	want := "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920"
	if hook != want {
		t.Errorf("expected %q, got %q", want, hook)
	}

	demo := NewFilterBuilder().
		ScaleToFit(1080, 1920).
		Pad(1080, 1920, "black").
		Build()
	want = "scale=1080:1920:force_original_aspect_ratio=decrease,pad=1080:1920:(ow-iw)/2:(oh-ih)/2:black"
	if demo != want {
		t.Errorf("expected %q, got %q", want, demo)
	}
}

func TestFilterBuilderVolume(t *testing.T) {
	got := NewFilterBuilder().AudioVolume(-15).Build()
	if got != "volume=-15dB" {
		t.Errorf("expected volume=-15dB, got %q", got)
	}
}

func TestFilterBuilderEmpty(t *testing.T) {
	if got := NewFilterBuilder().Custom("").Build(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := EscapeFilterPath("/tmp/it's a file.txt")
	if !strings.Contains(got, `\'`) {
		t.Errorf("single quote not escaped: %q", got)
	}
	if strings.ContainsRune(strings.ReplaceAll(got, `\:`, ""), ':') {
		t.Errorf("colon not escaped: %q", got)
	}
}
