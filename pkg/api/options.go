package api

import (
	"time"

	"github.com/gompdf/notepdf/internal/layout"
	"github.com/gompdf/notepdf/internal/res"
	"github.com/gompdf/notepdf/internal/text"
)

// Options represents configuration options for the note renderer.
// Lengths are millimetres measured from the top left corner of the page.
type Options struct {
	// Page dimensions
	PageWidth  float64
	PageHeight float64

	// BodyTop is where fields start, and where remarks resume after a page break
	BodyTop      float64
	MarginLeft   float64
	MarginBottom float64
	// RemarksIndent is the left edge of remarks lines
	RemarksIndent float64

	// Remarks wrapping
	WrapWidth  int
	WrapMode   WrapMode
	EmptyLines EmptyLinePolicy

	// Title drawn on every page as "<prefix> <kind> (<page>)"
	TitlePrefix string

	// Font lookup. FontPath may be a file name, a path or a data: URL;
	// relative names are searched in FontDirectories.
	FontPath        string
	FontDirectories []string

	Debug bool

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string
	// CreationDate pins the PDF timestamp; zero means now
	CreationDate time.Time
}

// Option is a function that modifies Options
type Option func(*Options)

// WrapMode selects how remarks lines are measured
type WrapMode = text.WrapMode

// EmptyLinePolicy decides what blank remarks paragraphs become
type EmptyLinePolicy = text.EmptyLinePolicy

const (
	WrapModeChars   = text.WrapModeChars
	WrapModeDisplay = text.WrapModeDisplay

	CollapseEmpty = text.CollapseEmpty
	KeepEmpty     = text.KeepEmpty
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	geometry := layout.DefaultOptions()
	return Options{
		// A4 portrait
		PageWidth:  geometry.PageWidth,
		PageHeight: geometry.PageHeight,

		BodyTop:       geometry.BodyTop,
		MarginLeft:    geometry.MarginLeft,
		MarginBottom:  geometry.MarginBottom,
		RemarksIndent: geometry.RemarksIndent,

		WrapWidth:  text.DefaultWrapWidth,
		WrapMode:   WrapModeChars,
		EmptyLines: CollapseEmpty,

		TitlePrefix: geometry.TitlePrefix,

		FontPath:        res.DefaultFontFile,
		FontDirectories: []string{},
	}
}

// WithPageSize sets the page size in millimetres
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithBodyTop sets where the body starts on every page
func WithBodyTop(top float64) Option {
	return func(o *Options) {
		o.BodyTop = top
	}
}

// WithMargins sets the left and bottom page margins
func WithMargins(left, bottom float64) Option {
	return func(o *Options) {
		o.MarginLeft = left
		o.MarginBottom = bottom
	}
}

// WithRemarksIndent sets the left edge of remarks lines
func WithRemarksIndent(indent float64) Option {
	return func(o *Options) {
		o.RemarksIndent = indent
	}
}

// WithWrapWidth sets the number of characters (or columns) per remarks line
func WithWrapWidth(width int) Option {
	return func(o *Options) {
		o.WrapWidth = width
	}
}

// WithWrapMode sets how remarks lines are measured
func WithWrapMode(mode WrapMode) Option {
	return func(o *Options) {
		o.WrapMode = mode
	}
}

// WithEmptyLines sets the blank paragraph policy
func WithEmptyLines(policy EmptyLinePolicy) Option {
	return func(o *Options) {
		o.EmptyLines = policy
	}
}

// WithTitlePrefix sets the text in front of the document kind
func WithTitlePrefix(prefix string) Option {
	return func(o *Options) {
		o.TitlePrefix = prefix
	}
}

// WithFontPath sets the preferred font file
func WithFontPath(path string) Option {
	return func(o *Options) {
		o.FontPath = path
	}
}

// WithFontDirectory adds a directory to search for fonts
func WithFontDirectory(dir string) Option {
	return func(o *Options) {
		o.FontDirectories = append(o.FontDirectories, dir)
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithCreationDate pins the document timestamp
func WithCreationDate(t time.Time) Option {
	return func(o *Options) {
		o.CreationDate = t
	}
}

// Standard page sizes in millimetres
const (
	PageSizeA4Width      = 210.0
	PageSizeA4Height     = 297.0
	PageSizeA5Width      = 148.0
	PageSizeA5Height     = 210.0
	PageSizeLetterWidth  = 215.9
	PageSizeLetterHeight = 279.4
)

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeA5 sets the page size to A5
func WithPageSizeA5() Option {
	return WithPageSize(PageSizeA5Width, PageSizeA5Height)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}
