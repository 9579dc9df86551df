// Package media locates the input files for a stitch run. Each role (hook
// video, demo video, overlay audio) is served by the first matching file in
// its folder; extensions are tried in priority order and directory entries
// in sorted order, so discovery is deterministic for a given tree.
package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/reelstitch/reelstitch/pkg/util"
)

// Recognized extensions per role, in match-priority order.
var (
	VideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
	AudioExtensions = []string{".mp3", ".wav", ".aac", ".m4a", ".flac"}
)

var (
	// ErrFolderMissing indicates the search directory does not exist.
	ErrFolderMissing = errors.New("folder not found")
	// ErrNoMatch indicates no file with a recognized extension was found.
	ErrNoMatch = errors.New("no matching file found")
)

// Inputs holds the three discovered files for a run.
type Inputs struct {
	Hook  string
	Demo  string
	Audio string
}

// FindFirst returns the first file in dir whose extension matches exts.
func FindFirst(dir string, exts []string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFolderMissing, dir)
		}
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, ext := range exts {
		for _, name := range names {
			if util.HasExtension(name, ext) {
				return filepath.Join(dir, name), nil
			}
		}
	}

	return "", fmt.Errorf("%w: no %v in %s", ErrNoMatch, exts, dir)
}

// Discover locates the hook video, demo video, and overlay audio track.
// The first failure is returned immediately; a run cannot proceed with a
// partial set of inputs.
func Discover(hooksDir, demoDir, audioDir string) (*Inputs, error) {
	hook, err := FindFirst(hooksDir, VideoExtensions)
	if err != nil {
		return nil, fmt.Errorf("hook video: %w", err)
	}

	demo, err := FindFirst(demoDir, VideoExtensions)
	if err != nil {
		return nil, fmt.Errorf("demo video: %w", err)
	}

	audio, err := FindFirst(audioDir, AudioExtensions)
	if err != nil {
		return nil, fmt.Errorf("overlay audio: %w", err)
	}

	return &Inputs{Hook: hook, Demo: demo, Audio: audio}, nil
}
