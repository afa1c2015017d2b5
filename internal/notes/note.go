// Package notes stores meeting-note records and maps them to render records.
package notes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gompdf/notepdf/internal/layout"
	"github.com/gompdf/notepdf/internal/parser/html"
	"github.com/gompdf/notepdf/internal/text"
)

// DateLayout is the storage and display format of Note.Date
const DateLayout = "2006/01/02"

var (
	ErrNotFound          = errors.New("note not found")
	ErrEventRequired     = errors.New("event is required")
	ErrInvalidKind       = errors.New("invalid document kind")
	ErrInvalidDate       = errors.New("invalid date")
	ErrBackupUnsupported = errors.New("backup is not supported for this database driver")
)

// Note is one stored meeting note
type Note struct {
	ID           int64               `json:"id" yaml:"id,omitempty"`
	Kind         layout.DocumentKind `json:"kind" yaml:"kind"`
	User         string              `json:"user" yaml:"user"`
	Date         string              `json:"date" yaml:"date"`
	Time         string              `json:"time" yaml:"time"`
	Event        string              `json:"event" yaml:"event"`
	Location     string              `json:"location" yaml:"location"`
	Dress        string              `json:"dress" yaml:"dress"`
	Person       string              `json:"person" yaml:"person"`
	Participants string              `json:"participants" yaml:"participants"`
	Caution      string              `json:"caution" yaml:"caution"`
	// CautionHTML, when set, replaces Caution with its plain-text rendering
	CautionHTML string    `json:"caution_html,omitempty" yaml:"caution_html,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}

// Labels used on the rendered document, in drawing order
const (
	LabelUser         = "入力者"
	LabelDate         = "開催日"
	LabelTime         = "時間"
	LabelEvent        = "行事内容"
	LabelLocation     = "開催場所"
	LabelDress        = "服装・持参物"
	LabelPerson       = "同行者"
	LabelParticipants = "参加者"
)

// Record converts the note into a render record
func (n *Note) Record() layout.Record {
	return layout.Record{
		Kind: n.Kind,
		Fields: []layout.Field{
			{Label: LabelUser, Value: n.User},
			{Label: LabelDate, Value: n.Date},
			{Label: LabelTime, Value: n.Time},
			{Label: LabelEvent, Value: n.Event},
			{Label: LabelLocation, Value: n.Location},
			{Label: LabelDress, Value: n.Dress},
			{Label: LabelPerson, Value: n.Person},
			{Label: LabelParticipants, Value: n.Participants},
		},
		Remarks: n.Caution,
	}
}

// FileName is the suggested download name of the rendered PDF
func (n *Note) FileName() string {
	event := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(n.Event))
	return fmt.Sprintf("PTA_%s.pdf", event)
}

// Prepare normalizes the note in place: the kind is parsed, the date is
// reformatted, HTML remarks are converted and all text is NFC-normalized.
// Prepare does not require Event; Validate does.
func (n *Note) Prepare() error {
	if n.Kind == "" {
		n.Kind = layout.KindMinutes
	}
	kind, err := layout.ParseKind(string(n.Kind))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidKind, n.Kind)
	}
	n.Kind = kind

	if n.Date != "" {
		date, err := parseDate(n.Date)
		if err != nil {
			return err
		}
		n.Date = date
	}

	if n.CautionHTML != "" {
		caution, err := html.ToText(n.CautionHTML)
		if err != nil {
			return fmt.Errorf("failed to convert caution HTML: %w", err)
		}
		n.Caution = caution
		n.CautionHTML = ""
	}

	for _, s := range []*string{&n.User, &n.Time, &n.Event, &n.Location, &n.Dress, &n.Person, &n.Participants, &n.Caution} {
		*s = text.Normalize(*s)
	}
	n.Event = strings.TrimSpace(n.Event)
	return nil
}

// Validate checks what storing a note requires
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Event) == "" {
		return ErrEventRequired
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, n.Kind)
	}
	return nil
}

func parseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, format := range []string{DateLayout, "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(format, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
