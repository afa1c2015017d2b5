package layout

import (
	"fmt"
	"strings"
)

// DocumentKind labels what sort of note a record is
type DocumentKind string

const (
	// KindMinutes is a meeting-minutes document
	KindMinutes DocumentKind = "議事録"
	// KindMemo is a memorandum
	KindMemo DocumentKind = "備忘録"
)

// Kinds lists every known document kind in display order
var Kinds = []DocumentKind{KindMinutes, KindMemo}

// Valid reports whether k is one of the known kinds
func (k DocumentKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind accepts either the Japanese label or the English alias
func ParseKind(s string) (DocumentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindMinutes), "minutes":
		return KindMinutes, nil
	case string(KindMemo), "memo":
		return KindMemo, nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// Field is one labelled value of a record
type Field struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Record is the input to rendering. Fields are drawn in slice order and
// fields with an empty value are left out.
type Record struct {
	Kind    DocumentKind `json:"kind" yaml:"kind"`
	Fields  []Field      `json:"fields" yaml:"fields"`
	Remarks string       `json:"remarks" yaml:"remarks"`
}

// VisibleFields returns the fields that will be drawn
func (r Record) VisibleFields() []Field {
	out := make([]Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}
