package res

import (
	"errors"
	"fmt"
	"log"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/image/font/sfnt"
)

// ErrFontUnavailable is the reason wrapped in every fallback resolution
var ErrFontUnavailable = errors.New("preferred font unavailable")

const (
	// PreferredFamily is the family name the preferred font is registered under
	PreferredFamily = "NoteGothic"
	// FallbackFamily is the built-in core font used when the preferred one is unusable
	FallbackFamily = "Helvetica"
	// DefaultFontFile is the conventional font file name looked up by default
	DefaultFontFile = "ipaexg.ttf"
)

// FontOutcome tells which branch font resolution took
type FontOutcome int

const (
	FontOK FontOutcome = iota
	FontFallbackUsed
)

func (o FontOutcome) String() string {
	if o == FontOK {
		return "ok"
	}
	return "fallback"
}

// FontResolution is the result of resolving the display typeface.
// Data is only set when Outcome is FontOK.
type FontResolution struct {
	Outcome FontOutcome
	Family  string
	Source  string
	Data    []byte
	Reason  error
}

// FallbackUsed reports whether the built-in typeface was substituted
func (f FontResolution) FallbackUsed() bool {
	return f.Outcome == FontFallbackUsed
}

// FontResolver turns a font file name into a FontResolution. It never fails:
// any problem with the preferred font yields a fallback resolution.
type FontResolver struct {
	Loader *Loader
	// ProbeRunes must all have glyphs in the preferred font
	ProbeRunes []rune
	Debug      bool
}

// NewFontResolver creates a resolver that probes for Japanese kana and kanji
func NewFontResolver(loader *Loader) *FontResolver {
	if loader == nil {
		loader = NewLoader("")
	}
	return &FontResolver{
		Loader:     loader,
		ProbeRunes: []rune{'あ', '議'},
	}
}

// Resolve loads and validates the named font
func (r *FontResolver) Resolve(name string) FontResolution {
	if name == "" {
		return r.fallback(name, errors.New("no preferred font configured"))
	}

	resource, err := r.Loader.LoadFont(name)
	if err != nil {
		return r.fallback(name, err)
	}
	if resource.MimeType == "font/collection" {
		return r.fallback(name, errors.New("font collections cannot be embedded"))
	}

	if err := r.validate(resource.Data); err != nil {
		return r.fallback(name, err)
	}

	if r.Debug {
		fmt.Printf("Using font %s from %s\n", PreferredFamily, resource.URL)
	}
	return FontResolution{
		Outcome: FontOK,
		Family:  PreferredFamily,
		Source:  resource.URL,
		Data:    resource.Data,
	}
}

// validate parses the font, checks probe glyphs and makes a trial
// registration with the PDF writer, which is stricter than sfnt.
func (r *FontResolver) validate(data []byte) (err error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}

	var buf sfnt.Buffer
	for _, probe := range r.ProbeRunes {
		idx, err := f.GlyphIndex(&buf, probe)
		if err != nil {
			return fmt.Errorf("failed to look up glyph %q: %w", probe, err)
		}
		if idx == 0 {
			return fmt.Errorf("font has no glyph for %q", probe)
		}
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("font rejected by PDF writer: %v", p)
		}
	}()
	trial := fpdf.New("P", "mm", "A4", "")
	trial.AddUTF8FontFromBytes(PreferredFamily, "", data)
	if trial.Err() {
		return fmt.Errorf("font rejected by PDF writer: %w", trial.Error())
	}
	return nil
}

func (r *FontResolver) fallback(name string, reason error) FontResolution {
	log.Printf("[WARN] font %q unavailable, using %s: %v", name, FallbackFamily, reason)
	return FontResolution{
		Outcome: FontFallbackUsed,
		Family:  FallbackFamily,
		Source:  name,
		Reason:  fmt.Errorf("%w: %w", ErrFontUnavailable, reason),
	}
}
