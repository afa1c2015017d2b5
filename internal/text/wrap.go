package text

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultWrapWidth is the number of characters per remarks line.
const DefaultWrapWidth = 35

// Wrapper splits a single paragraph (no line separators) into output lines.
type Wrapper interface {
	Wrap(paragraph string) []string
}

// WrapMode selects a Wrapper implementation by name.
type WrapMode string

const (
	// WrapModeChars counts runes
	WrapModeChars WrapMode = "char"
	// WrapModeDisplay counts terminal display columns (full-width = 2)
	WrapModeDisplay WrapMode = "display"
)

// NewWrapper returns the Wrapper for the given mode and width.
// Unknown modes fall back to character counting.
func NewWrapper(mode WrapMode, width int) Wrapper {
	switch mode {
	case WrapModeDisplay:
		return DisplayWidthWrapper{Columns: width}
	default:
		return CharCountWrapper{Width: width}
	}
}

// CharCountWrapper cuts a paragraph into chunks of Width characters,
// ignoring word boundaries. A non-positive Width disables wrapping.
type CharCountWrapper struct {
	Width int
}

// Wrap implements Wrapper
func (w CharCountWrapper) Wrap(paragraph string) []string {
	if paragraph == "" {
		return nil
	}
	runes := []rune(paragraph)
	if w.Width <= 0 || len(runes) <= w.Width {
		return []string{paragraph}
	}

	lines := make([]string, 0, (len(runes)+w.Width-1)/w.Width)
	for start := 0; start < len(runes); start += w.Width {
		end := start + w.Width
		if end > len(runes) {
			end = len(runes)
		}
		lines = append(lines, string(runes[start:end]))
	}
	return lines
}

// DisplayWidthWrapper cuts a paragraph so that no line is wider than Columns
// display cells. East Asian wide runes occupy two cells. A rune wider than
// the whole line still gets a line of its own.
type DisplayWidthWrapper struct {
	Columns int
}

// Wrap implements Wrapper
func (w DisplayWidthWrapper) Wrap(paragraph string) []string {
	if paragraph == "" {
		return nil
	}
	if w.Columns <= 0 {
		return []string{paragraph}
	}

	var lines []string
	var current strings.Builder
	used := 0
	for _, r := range paragraph {
		rw := runewidth.RuneWidth(r)
		if used > 0 && used+rw > w.Columns {
			lines = append(lines, current.String())
			current.Reset()
			used = 0
		}
		current.WriteRune(r)
		used += rw
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
