package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// EmptyLinePolicy decides what an empty paragraph turns into.
type EmptyLinePolicy int

const (
	// CollapseEmpty drops empty paragraphs entirely
	CollapseEmpty EmptyLinePolicy = iota
	// KeepEmpty emits one blank line per empty paragraph
	KeepEmpty
)

// ParseEmptyLinePolicy maps "collapse" / "keep" to a policy.
func ParseEmptyLinePolicy(s string) EmptyLinePolicy {
	if strings.EqualFold(strings.TrimSpace(s), "keep") {
		return KeepEmpty
	}
	return CollapseEmpty
}

func (p EmptyLinePolicy) String() string {
	if p == KeepEmpty {
		return "keep"
	}
	return "collapse"
}

// LineBuffer holds the wrapped remarks lines and hands them out in order.
type LineBuffer struct {
	lines []string
	next  int
}

// NewLineBuffer splits remarks into paragraphs, wraps each one and queues
// the resulting lines.
func NewLineBuffer(remarks string, wrapper Wrapper, policy EmptyLinePolicy) *LineBuffer {
	if wrapper == nil {
		wrapper = CharCountWrapper{Width: DefaultWrapWidth}
	}

	b := &LineBuffer{}
	for _, para := range Paragraphs(remarks) {
		if para == "" {
			if policy == KeepEmpty {
				b.lines = append(b.lines, "")
			}
			continue
		}
		b.lines = append(b.lines, wrapper.Wrap(para)...)
	}
	return b
}

// Next returns the next queued line.
func (b *LineBuffer) Next() (string, bool) {
	if b.next >= len(b.lines) {
		return "", false
	}
	line := b.lines[b.next]
	b.next++
	return line, true
}

// Len returns the total number of lines, consumed or not.
func (b *LineBuffer) Len() int {
	return len(b.lines)
}

// Remaining returns the number of lines not yet consumed.
func (b *LineBuffer) Remaining() int {
	return len(b.lines) - b.next
}

// Lines returns a copy of all wrapped lines.
func (b *LineBuffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Paragraphs splits s on line boundaries: \n, \r\n, \r, \v, \f, the
// separators U+001C to U+001E, NEL (U+0085), U+2028 and U+2029.
// A trailing line break does not start an extra empty paragraph.
func Paragraphs(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	var cur strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			out = append(out, cur.String())
			cur.Reset()
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// Normalize returns s in NFC form with CRLF folded to LF.
// Input from browsers and pasted documents is often decomposed.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return norm.NFC.String(s)
}
