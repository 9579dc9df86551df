package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestFindFirstDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.mp4", "a.mp4", "z.mp4")

	got, err := FindFirst(dir, VideoExtensions)
	if err != nil {
		t.Fatalf("FindFirst failed: %v", err)
	}
	if want := filepath.Join(dir, "a.mp4"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	// Same tree, same answer
	again, err := FindFirst(dir, VideoExtensions)
	if err != nil {
		t.Fatalf("FindFirst failed: %v", err)
	}
	if again != got {
		t.Errorf("discovery not deterministic: %s vs %s", got, again)
	}
}

func TestFindFirstExtensionPriority(t *testing.T) {
	dir := t.TempDir()
	// .mov outranks .webm even though the webm sorts first
	writeFiles(t, dir, "aaa.webm", "zzz.mov")

	got, err := FindFirst(dir, VideoExtensions)
	if err != nil {
		t.Fatalf("FindFirst failed: %v", err)
	}
	if want := filepath.Join(dir, "zzz.mov"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestFindFirstCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "CLIP.MP4")

	got, err := FindFirst(dir, VideoExtensions)
	if err != nil {
		t.Fatalf("FindFirst failed: %v", err)
	}
	if want := filepath.Join(dir, "CLIP.MP4"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestFindFirstIgnoresOtherRoles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "track.mp3", "notes.txt")

	_, err := FindFirst(dir, VideoExtensions)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestFindFirstSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "clips.mp4"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFiles(t, dir, "real.mp4")

	got, err := FindFirst(dir, VideoExtensions)
	if err != nil {
		t.Fatalf("FindFirst failed: %v", err)
	}
	if want := filepath.Join(dir, "real.mp4"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestFindFirstMissingFolder(t *testing.T) {
	_, err := FindFirst(filepath.Join(t.TempDir(), "nope"), VideoExtensions)
	if !errors.Is(err, ErrFolderMissing) {
		t.Fatalf("expected ErrFolderMissing, got %v", err)
	}
}

func TestDiscoverAbortsOnFirstMissingRole(t *testing.T) {
	base := t.TempDir()
	hooks := filepath.Join(base, "hooks")
	demo := filepath.Join(base, "demo")
	audio := filepath.Join(base, "audio")
	for _, dir := range []string{hooks, demo, audio} {
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	writeFiles(t, hooks, "hook.mp4")
	writeFiles(t, audio, "track.mp3")

	_, err := Discover(hooks, demo, audio)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch for empty demo folder, got %v", err)
	}
}

func TestDiscoverAllRoles(t *testing.T) {
	base := t.TempDir()
	hooks := filepath.Join(base, "hooks")
	demo := filepath.Join(base, "demo")
	audio := filepath.Join(base, "audio")
	for _, dir := range []string{hooks, demo, audio} {
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	writeFiles(t, hooks, "hook.mov")
	writeFiles(t, demo, "demo.mp4")
	writeFiles(t, audio, "track.wav")

	inputs, err := Discover(hooks, demo, audio)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if inputs.Hook != filepath.Join(hooks, "hook.mov") {
		t.Errorf("unexpected hook: %s", inputs.Hook)
	}
	if inputs.Demo != filepath.Join(demo, "demo.mp4") {
		t.Errorf("unexpected demo: %s", inputs.Demo)
	}
	if inputs.Audio != filepath.Join(audio, "track.wav") {
		t.Errorf("unexpected audio: %s", inputs.Audio)
	}
}
