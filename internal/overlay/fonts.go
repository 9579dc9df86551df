package overlay

import (
	"runtime"

	"github.com/reelstitch/reelstitch/pkg/util"
)

// ResolveFont picks the font file for drawtext: the bundled font when it
// exists, otherwise the first available platform-default font. An empty
// return means ffmpeg should fall back to its built-in font.
func ResolveFont(bundled string) string {
	if bundled != "" && util.FileExists(bundled) {
		return bundled
	}
	for _, candidate := range systemFontCandidates(runtime.GOOS) {
		if util.FileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func systemFontCandidates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/System/Library/Fonts/Helvetica.ttc",
			"/System/Library/Fonts/Avenir.ttc",
			"/Library/Fonts/Arial.ttf",
		}
	case "windows":
		return []string{
			"C:/Windows/Fonts/arial.ttf",
			"C:/Windows/Fonts/Arial.ttf",
			"C:/Windows/Fonts/calibri.ttf",
		}
	default:
		return []string{
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/ubuntu/Ubuntu-R.ttf",
		}
	}
}
