// Package overlay handles the timed text burned onto the hook segment:
// line wrapping against the frame margins, font resolution, and drawtext
// filter construction. The wrapped text travels to ffmpeg through a
// temporary text file so no shell or filter escaping of user input is
// needed.
package overlay

import "strings"

// FrameWidth is the output frame width the margin math assumes.
const FrameWidth = 1080

// LineBudget estimates how many characters fit on one line given the font
// size and the side margin percentage. There is no feedback from real glyph
// metrics; 0.56 em approximates the average advance width of the fonts in
// play. Defaults (75 pt, 5% margins) come out to 23 characters.
func LineBudget(fontSize, marginPercent int) int {
	if fontSize <= 0 {
		return 0
	}
	usable := float64(FrameWidth) * float64(100-2*marginPercent) / 100
	budget := int(usable / (float64(fontSize) * 0.56))
	if budget < 1 {
		budget = 1
	}
	return budget
}

// Wrap breaks text into lines of at most width characters, splitting only
// at whitespace. A word longer than the budget is never broken; it gets a
// line of its own and overflows the margin.
func Wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) <= width {
			line += " " + word
			continue
		}
		lines = append(lines, line)
		line = word
	}
	lines = append(lines, line)

	return strings.Join(lines, "\n")
}
