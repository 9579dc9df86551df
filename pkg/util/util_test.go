package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHasExtension(t *testing.T) {
	cases := []struct {
		path string
		ext  string
		want bool
	}{
		{"clip.mp4", ".mp4", true},
		{"CLIP.MP4", ".mp4", true},
		{"clip.mov", ".mp4", false},
		{"noext", ".mp4", false},
		{"dir/archive.tar.mp4", ".mp4", true},
	}
	for _, tc := range cases {
		if got := HasExtension(tc.path, tc.ext); got != tc.want {
			t.Errorf("HasExtension(%q, %q) = %v, want %v", tc.path, tc.ext, got, tc.want)
		}
	}
}

func TestParseFrameRate(t *testing.T) {
	if got := ParseFrameRate("30/1"); got != 30 {
		t.Errorf("expected 30, got %g", got)
	}
	if got := ParseFrameRate("30000/1001"); got < 29.9 || got > 30 {
		t.Errorf("expected ~29.97, got %g", got)
	}
	if got := ParseFrameRate("bogus"); got != 0 {
		t.Errorf("expected 0 for invalid input, got %g", got)
	}
	if got := ParseFrameRate("30/0"); got != 0 {
		t.Errorf("expected 0 for zero denominator, got %g", got)
	}
}

func TestCleanupFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scratch.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	CleanupFiles(path, filepath.Join(dir, "never-existed.txt"))

	if FileExists(path) {
		t.Error("file still present after cleanup")
	}
}
