package pagination

import (
	"github.com/gompdf/notepdf/internal/res"
)

// OpKind is the kind of a drawing operation
type OpKind int

const (
	// OpText draws Text with its baseline at Y
	OpText OpKind = iota
	// OpRule draws a horizontal line from X to X2 at Y
	OpRule
)

// Role tells which part of the report an operation belongs to
type Role int

const (
	RoleTitle Role = iota
	RoleSeparator
	RoleField
	RoleCaption
	RoleRemarks
)

func (r Role) String() string {
	switch r {
	case RoleTitle:
		return "title"
	case RoleSeparator:
		return "separator"
	case RoleField:
		return "field"
	case RoleCaption:
		return "caption"
	case RoleRemarks:
		return "remarks"
	default:
		return "unknown"
	}
}

// Align is the horizontal alignment of a text operation
type Align int

const (
	// AlignLeft anchors the text start at X
	AlignLeft Align = iota
	// AlignCenter centers the text on X
	AlignCenter
)

// Op is a single drawing operation on a page. Coordinates are in the
// document unit with the origin at the top left corner.
type Op struct {
	Kind     OpKind
	Role     Role
	X        float64
	Y        float64
	X2       float64
	Text     string
	FontSize float64
	Align    Align
}

// Page represents a single page in the document
type Page struct {
	Index  int
	Width  float64
	Height float64
	// Cursor is the vertical position where the next line would go
	Cursor float64
	Ops    []Op
}

// Texts returns the text of every operation with the given role, in order
func (p *Page) Texts(role Role) []string {
	var out []string
	for _, op := range p.Ops {
		if op.Kind == OpText && op.Role == role {
			out = append(out, op.Text)
		}
	}
	return out
}

// Document is a finished, ordered sequence of pages ready for serialization
type Document struct {
	Pages []*Page
	Unit  string
	Font  res.FontResolution
}

// Texts returns the text of every operation with the given role across all pages
func (d *Document) Texts(role Role) []string {
	var out []string
	for _, p := range d.Pages {
		out = append(out, p.Texts(role)...)
	}
	return out
}

// PageSize represents a page size in millimetres
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in millimetres
var (
	PageSizeA4     = PageSize{Width: 210, Height: 297, Name: "A4"}
	PageSizeA5     = PageSize{Width: 148, Height: 210, Name: "A5"}
	PageSizeLetter = PageSize{Width: 215.9, Height: 279.4, Name: "Letter"}
)

// Margins represents page margins
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// HeaderFunc draws the repeated header onto a fresh page
type HeaderFunc func(p *Page)

// Paginator owns the page list and the vertical cursor. Content is placed
// at the cursor; a new page is opened, and the header re-drawn, whenever
// the cursor has passed the bottom margin.
type Paginator struct {
	PageSize PageSize
	Margins  Margins

	header  HeaderFunc
	pages   []*Page
	current *Page
	cursor  float64
}

// NewPaginator creates a new paginator. Margins.Top is where the cursor
// restarts on each page, below the header.
func NewPaginator(pageSize PageSize, margins Margins, header HeaderFunc) *Paginator {
	return &Paginator{
		PageSize: pageSize,
		Margins:  margins,
		header:   header,
	}
}

// Start opens the first page
func (p *Paginator) Start() *Page {
	return p.newPage()
}

func (p *Paginator) newPage() *Page {
	if p.current != nil {
		p.current.Cursor = p.cursor
	}
	page := &Page{
		Index:  len(p.pages) + 1,
		Width:  p.PageSize.Width,
		Height: p.PageSize.Height,
	}
	p.pages = append(p.pages, page)
	p.current = page
	if p.header != nil {
		p.header(page)
	}
	p.cursor = p.Margins.Top
	return page
}

// BottomLimit is the lowest cursor position content may start at
func (p *Paginator) BottomLimit() float64 {
	return p.PageSize.Height - p.Margins.Bottom
}

// EnsureRoom starts a new page if the cursor has crossed the bottom margin.
// It reports whether a page break happened.
func (p *Paginator) EnsureRoom() bool {
	if p.current == nil {
		p.newPage()
		return false
	}
	if p.cursor <= p.BottomLimit() {
		return false
	}
	p.newPage()
	return true
}

// Place records op at the current cursor position
func (p *Paginator) Place(op Op) {
	if p.current == nil {
		p.newPage()
	}
	op.Y = p.cursor
	p.current.Ops = append(p.current.Ops, op)
}

// Advance moves the cursor down by dy
func (p *Paginator) Advance(dy float64) {
	p.cursor += dy
}

// Cursor returns the current vertical position
func (p *Paginator) Cursor() float64 {
	return p.cursor
}

// Current returns the page being filled
func (p *Paginator) Current() *Page {
	return p.current
}

// Finalize closes the current page and returns all pages in order
func (p *Paginator) Finalize() []*Page {
	if p.current == nil {
		p.newPage()
	}
	p.current.Cursor = p.cursor
	pages := p.pages
	p.pages = nil
	p.current = nil
	return pages
}
