// internal/util/util.go
package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// TruncateToWidth truncates each line of text to width terminal cells,
// appending an ellipsis to lines that were cut.
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if runewidth.StringWidth(line) > width {
			lines[i] = runewidth.Truncate(line, width+runewidth.StringWidth(Ellipsis), Ellipsis)
		}
	}
	return strings.Join(lines, "\n")
}

// PadRight pads or truncates s to exactly width cells, left aligned.
func PadRight(s string, width int) string {
	return runewidth.FillRight(fit(s, width), width)
}

// PadLeft pads or truncates s to exactly width cells, right aligned.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(fit(s, width), width)
}

func fit(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// Width returns the number of terminal cells s occupies.
func Width(s string) int { return runewidth.StringWidth(s) }

// WrapToWidth wraps text to width cells, breaking words longer than a line.
func WrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var cur strings.Builder
		curWidth := 0
		for _, w := range words {
			wWidth := runewidth.StringWidth(w)
			if curWidth > 0 && curWidth+1+wWidth <= width {
				cur.WriteByte(' ')
				cur.WriteString(w)
				curWidth += 1 + wWidth
				continue
			}
			if curWidth > 0 {
				out = append(out, cur.String())
				cur.Reset()
				curWidth = 0
			}
			for wWidth > width {
				head := runewidth.Truncate(w, width, "")
				if head == "" {
					head = string([]rune(w)[:1])
				}
				out = append(out, head)
				w = w[len(head):]
				wWidth = runewidth.StringWidth(w)
			}
			cur.WriteString(w)
			curWidth = wWidth
		}
		if cur.Len() > 0 {
			out = append(out, cur.String())
		}
	}
	return strings.Join(out, "\n")
}
