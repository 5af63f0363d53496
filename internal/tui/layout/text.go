package layout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// VisibleLength returns the visible length of a string (excluding ANSI codes).
func VisibleLength(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// TruncateText truncates text to maxWidth with ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	ellipsisLen := utf8.RuneCountInString(cfg.Ellipsis)
	if utf8.RuneCountInString(text) <= maxWidth {
		return text, false
	}

	runes := []rune(text)
	if maxWidth <= ellipsisLen {
		return string([]rune(cfg.Ellipsis)[:maxWidth]), true
	}
	return string(runes[:maxWidth-ellipsisLen]) + cfg.Ellipsis, true
}

// SingleLine collapses all whitespace runs, newlines included, to one space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WrapText breaks text into lines of at most width runes, splitting on
// spaces where possible. Existing line breaks are kept and at most maxLines
// lines are returned (0 = no limit); a cut-off last line ends in the ellipsis.
func WrapText(text string, width, maxLines int, cfg TextConfig) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var line []rune
		for _, w := range words {
			word := []rune(w)
			for len(word) > width {
				if len(line) > 0 {
					lines = append(lines, string(line))
					line = nil
				}
				lines = append(lines, string(word[:width]))
				word = word[width:]
			}
			switch {
			case len(line) == 0:
				line = word
			case len(line)+1+len(word) <= width:
				line = append(append(line, ' '), word...)
			default:
				lines = append(lines, string(line))
				line = word
			}
		}
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1], _ = TruncateText(lines[maxLines-1]+cfg.Ellipsis, width, cfg)
	}
	return lines
}
