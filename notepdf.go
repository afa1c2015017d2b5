package notepdf

import (
	"github.com/gompdf/notepdf/pkg/api"
)

type Renderer = api.Renderer
type Options = api.Options
type Option = api.Option
type Record = api.Record
type Field = api.Field
type DocumentKind = api.DocumentKind
type Result = api.Result
type WrapMode = api.WrapMode
type EmptyLinePolicy = api.EmptyLinePolicy

func New(opts ...Option) *Renderer             { return api.New(opts...) }
func NewWithOptions(options Options) *Renderer { return api.NewWithOptions(options) }
func DefaultOptions() Options                  { return api.DefaultOptions() }

var (
	WithPageSize       = api.WithPageSize
	WithBodyTop        = api.WithBodyTop
	WithMargins        = api.WithMargins
	WithRemarksIndent  = api.WithRemarksIndent
	WithWrapWidth      = api.WithWrapWidth
	WithWrapMode       = api.WithWrapMode
	WithEmptyLines     = api.WithEmptyLines
	WithTitlePrefix    = api.WithTitlePrefix
	WithFontPath       = api.WithFontPath
	WithFontDirectory  = api.WithFontDirectory
	WithDebug          = api.WithDebug
	WithTitle          = api.WithTitle
	WithAuthor         = api.WithAuthor
	WithSubject        = api.WithSubject
	WithKeywords       = api.WithKeywords
	WithCreationDate   = api.WithCreationDate
	WithPageSizeA4     = api.WithPageSizeA4
	WithPageSizeA5     = api.WithPageSizeA5
	WithPageSizeLetter = api.WithPageSizeLetter

	ErrSerialization   = api.ErrSerialization
	ErrFontUnavailable = api.ErrFontUnavailable
)

const (
	KindMinutes = api.KindMinutes
	KindMemo    = api.KindMemo

	FontOK           = api.FontOK
	FontFallbackUsed = api.FontFallbackUsed

	WrapModeChars   = api.WrapModeChars
	WrapModeDisplay = api.WrapModeDisplay
	CollapseEmpty   = api.CollapseEmpty
	KeepEmpty       = api.KeepEmpty

	PageSizeA4Width      = api.PageSizeA4Width
	PageSizeA4Height     = api.PageSizeA4Height
	PageSizeA5Width      = api.PageSizeA5Width
	PageSizeA5Height     = api.PageSizeA5Height
	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
)
