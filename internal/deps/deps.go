// Package deps checks the availability of the external binaries the tool
// shells out to and suggests how to install the ones that are missing.
package deps

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Requirement defines an external binary the tool relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Required returns the requirements for a full stitch run. The ffmpeg and
// ffprobe commands come from configuration so relocated binaries work.
func Required(ffmpegCmd, ffprobeCmd string) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpegCmd, Description: "video and audio processing"},
		{Name: "FFprobe", Command: ffprobeCmd, Description: "media duration and stream probing"},
	}
}

// Check evaluates the provided requirements and reports availability.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing filters statuses down to the required binaries that are absent.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}

// InstallHint returns the platform-appropriate installation suggestion for
// the FFmpeg suite.
func InstallHint() string {
	return installHint(runtime.GOOS)
}

func installHint(goos string) string {
	switch goos {
	case "darwin":
		return "install FFmpeg with: brew install ffmpeg"
	case "linux":
		return "install FFmpeg with: sudo apt-get install ffmpeg"
	case "windows":
		return "download FFmpeg from ffmpeg.org and add it to PATH"
	default:
		return "install FFmpeg from ffmpeg.org"
	}
}
