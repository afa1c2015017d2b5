package api

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gompdf/notepdf/internal/layout"
	"github.com/gompdf/notepdf/internal/pagination"
	"github.com/gompdf/notepdf/internal/render/pdf"
	"github.com/gompdf/notepdf/internal/res"
	"github.com/gompdf/notepdf/internal/text"
)

// Record is the input to rendering
type Record = layout.Record

// Field is one labelled value of a Record
type Field = layout.Field

// DocumentKind labels the note sort shown in the title
type DocumentKind = layout.DocumentKind

// Document is a laid out, not yet serialized, note
type Document = pagination.Document

// FontOutcome tells whether the preferred font was used
type FontOutcome = res.FontOutcome

const (
	KindMinutes = layout.KindMinutes
	KindMemo    = layout.KindMemo

	FontOK           = res.FontOK
	FontFallbackUsed = res.FontFallbackUsed
)

var (
	// ErrSerialization wraps every failure to produce or write PDF bytes
	ErrSerialization = pdf.ErrSerialization
	// ErrFontUnavailable is the reason recorded when the fallback font was used
	ErrFontUnavailable = res.ErrFontUnavailable
)

// Result describes a finished render
type Result struct {
	Pages int
	Font  res.FontResolution
}

// FallbackUsed reports whether the built-in font replaced the preferred one
func (r *Result) FallbackUsed() bool {
	return r.Font.FallbackUsed()
}

// Renderer is the main API for turning note records into PDF. A Renderer
// holds configuration only and is safe for concurrent use.
type Renderer struct {
	options Options
	loader  *res.Loader
	engine  *layout.Engine
	pdf     *pdf.Renderer
}

// New creates a renderer with default options modified by opts
func New(opts ...Option) *Renderer {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options)
}

// NewWithOptions creates a renderer with the specified options
func NewWithOptions(options Options) *Renderer {
	loader := res.NewLoader("")
	for _, dir := range options.FontDirectories {
		loader.AddSearchPath(dir)
	}

	fonts := res.NewFontResolver(loader)
	fonts.Debug = options.Debug

	engine := layout.NewEngine(fonts)
	engine.SetOptions(options.layoutOptions())
	engine.Debug = options.Debug

	renderer := pdf.NewRenderer()
	renderer.Debug = options.Debug
	renderer.CreationDate = options.CreationDate

	return &Renderer{
		options: options,
		loader:  loader,
		engine:  engine,
		pdf:     renderer,
	}
}

func (o Options) layoutOptions() layout.Options {
	lo := layout.DefaultOptions()
	if o.PageWidth > 0 && o.PageHeight > 0 {
		lo.PageWidth = o.PageWidth
		lo.PageHeight = o.PageHeight
		lo.RuleRight = o.PageWidth - lo.RuleLeft
	}
	lo.BodyTop = o.BodyTop
	lo.MarginLeft = o.MarginLeft
	lo.MarginBottom = o.MarginBottom
	lo.RemarksIndent = o.RemarksIndent
	lo.TitlePrefix = o.TitlePrefix
	lo.WrapWidth = o.WrapWidth
	lo.Wrapper = text.NewWrapper(o.WrapMode, o.WrapWidth)
	lo.EmptyLines = o.EmptyLines
	lo.FontName = o.FontPath
	return lo
}

// Options returns a copy of the renderer options
func (r *Renderer) Options() Options {
	return r.options
}

// WithOption returns a new renderer with the specified option set
func (r *Renderer) WithOption(option Option) *Renderer {
	newOptions := r.options
	newOptions.FontDirectories = append([]string(nil), r.options.FontDirectories...)
	option(&newOptions)
	return NewWithOptions(newOptions)
}

// Layout lays rec out without serializing it
func (r *Renderer) Layout(rec Record) *Document {
	return r.engine.Render(rec)
}

// Render lays rec out and writes the PDF to w
func (r *Renderer) Render(rec Record, w io.Writer) (*Result, error) {
	doc := r.engine.Render(rec)
	if err := r.pdf.Render(doc, w, r.renderOptions(rec)); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return &Result{Pages: len(doc.Pages), Font: doc.Font}, nil
}

// RenderToFile lays rec out and writes the PDF to outputPath
func (r *Renderer) RenderToFile(rec Record, outputPath string) (*Result, error) {
	doc := r.engine.Render(rec)
	if err := r.pdf.RenderToFile(doc, outputPath, r.renderOptions(rec)); err != nil {
		return nil, fmt.Errorf("failed to render PDF to %s: %w", filepath.Base(outputPath), err)
	}
	return &Result{Pages: len(doc.Pages), Font: doc.Font}, nil
}

// RenderBytes lays rec out and returns the PDF bytes
func (r *Renderer) RenderBytes(rec Record) ([]byte, *Result, error) {
	var buf bytes.Buffer
	result, err := r.Render(rec, &buf)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), result, nil
}

func (r *Renderer) renderOptions(rec Record) pdf.RenderOptions {
	title := r.options.Title
	if title == "" {
		title = string(rec.Kind)
	}
	return pdf.RenderOptions{
		Title:    title,
		Author:   r.options.Author,
		Subject:  r.options.Subject,
		Keywords: r.options.Keywords,
		Creator:  "notepdf",
		Producer: "notepdf",
	}
}
