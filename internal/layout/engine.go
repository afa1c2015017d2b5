package layout

import (
	"fmt"
	"strings"

	"github.com/gompdf/notepdf/internal/pagination"
	"github.com/gompdf/notepdf/internal/res"
	"github.com/gompdf/notepdf/internal/text"
)

// pointsToMM converts typographic points to millimetres
const pointsToMM = 25.4 / 72

// Options holds the report geometry. Lengths are in millimetres measured
// from the top left corner of the page; font sizes are in points.
type Options struct {
	PageWidth  float64
	PageHeight float64

	// Title baseline and the separator rule beneath it
	TitleY    float64
	RuleY     float64
	RuleLeft  float64
	RuleRight float64

	// BodyTop is where the cursor restarts on every page
	BodyTop      float64
	MarginLeft   float64
	MarginBottom float64
	// RemarksIndent is the left edge of wrapped remarks lines
	RemarksIndent float64

	TitleFontSize   float64
	BodyFontSize    float64
	RemarksFontSize float64

	FieldLineHeight   float64
	CaptionAdvance    float64
	RemarksLineHeight float64

	TitlePrefix string
	Caption     string

	// Wrapper splits remarks paragraphs; nil means CharCountWrapper{WrapWidth}
	Wrapper    text.Wrapper
	WrapWidth  int
	EmptyLines text.EmptyLinePolicy

	// FontName is the preferred font file, resolved once per render
	FontName string
}

// DefaultOptions returns A4 portrait geometry
func DefaultOptions() Options {
	return Options{
		PageWidth:  pagination.PageSizeA4.Width,
		PageHeight: pagination.PageSizeA4.Height,

		TitleY:    17,
		RuleY:     22,
		RuleLeft:  20,
		RuleRight: 190,

		BodyTop:       32,
		MarginLeft:    25,
		MarginBottom:  20,
		RemarksIndent: 30,

		TitleFontSize:   18,
		BodyFontSize:    11,
		RemarksFontSize: 10,

		FieldLineHeight:   10,
		CaptionAdvance:    8,
		RemarksLineHeight: 15 * pointsToMM,

		TitlePrefix: "PTA",
		Caption:     "【内容・注意事項・申し送り】:",

		WrapWidth:  text.DefaultWrapWidth,
		EmptyLines: text.CollapseEmpty,

		FontName: res.DefaultFontFile,
	}
}

// State is a step of a single render call
type State int

const (
	StateStart State = iota
	StateHeaderDrawn
	StateFieldsDrawn
	StateRemarksCaptioned
	StateStreamingLine
	StatePageBreak
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateHeaderDrawn:
		return "HeaderDrawn"
	case StateFieldsDrawn:
		return "FieldsDrawn"
	case StateRemarksCaptioned:
		return "RemarksCaptioned"
	case StateStreamingLine:
		return "StreamingLine"
	case StatePageBreak:
		return "PageBreak"
	case StateFinalized:
		return "Finalized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine lays a Record out onto pages. An Engine holds configuration only;
// every Render call builds its own state, so one Engine may be shared by
// concurrent callers.
type Engine struct {
	options Options
	fonts   *res.FontResolver

	// Debug enables verbose logging to stdout
	Debug bool
	// Observer, when set, sees every state transition of a render call
	Observer func(State)
}

// NewEngine creates a layout engine with default options
func NewEngine(fonts *res.FontResolver) *Engine {
	if fonts == nil {
		fonts = res.NewFontResolver(nil)
	}
	return &Engine{
		options: DefaultOptions(),
		fonts:   fonts,
	}
}

// SetOptions sets the geometry and wrapping options
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// Options returns the current options
func (e *Engine) Options() Options {
	return e.options
}

// Render lays out rec and returns the finished document. It never fails:
// an unusable preferred font is replaced by the fallback typeface.
func (e *Engine) Render(rec Record) *pagination.Document {
	r := &renderRun{engine: e, opts: e.options, record: rec}
	return r.render()
}

// renderRun is the per-call state of Render
type renderRun struct {
	engine *Engine
	opts   Options
	record Record
	state  State
	pager  *pagination.Paginator
}

func (r *renderRun) transition(to State) {
	r.state = to
	if r.engine.Debug {
		fmt.Printf("layout: -> %s\n", to)
	}
	if r.engine.Observer != nil {
		r.engine.Observer(to)
	}
}

func (r *renderRun) render() *pagination.Document {
	r.transition(StateStart)
	font := r.engine.fonts.Resolve(r.opts.FontName)

	pg := pagination.NewEngine()
	pg.SetOptions(pagination.Options{
		PageWidth:    r.opts.PageWidth,
		PageHeight:   r.opts.PageHeight,
		MarginTop:    r.opts.BodyTop,
		MarginBottom: r.opts.MarginBottom,
		MarginLeft:   r.opts.MarginLeft,
	})
	r.pager = pg.NewPaginator(r.drawHeader)

	r.pager.Start()
	r.transition(StateHeaderDrawn)

	r.drawFields()
	r.transition(StateFieldsDrawn)

	r.breakIfNeeded()
	r.pager.Place(pagination.Op{
		Kind:     pagination.OpText,
		Role:     pagination.RoleCaption,
		X:        r.opts.MarginLeft,
		Text:     r.opts.Caption,
		FontSize: r.opts.BodyFontSize,
	})
	r.pager.Advance(r.opts.CaptionAdvance)
	r.transition(StateRemarksCaptioned)

	r.streamRemarks()

	pages := r.pager.Finalize()
	r.transition(StateFinalized)

	if r.engine.Debug {
		fmt.Printf("layout: %d page(s), font %s (%s)\n", len(pages), font.Family, font.Outcome)
	}

	return &pagination.Document{
		Pages: pages,
		Unit:  "mm",
		Font:  font,
	}
}

// drawHeader is called by the paginator for every new page
func (r *renderRun) drawHeader(p *pagination.Page) {
	p.Ops = append(p.Ops,
		pagination.Op{
			Kind:     pagination.OpText,
			Role:     pagination.RoleTitle,
			X:        r.opts.PageWidth / 2,
			Y:        r.opts.TitleY,
			Text:     r.title(p.Index),
			FontSize: r.opts.TitleFontSize,
			Align:    pagination.AlignCenter,
		},
		pagination.Op{
			Kind: pagination.OpRule,
			Role: pagination.RoleSeparator,
			X:    r.opts.RuleLeft,
			Y:    r.opts.RuleY,
			X2:   r.opts.RuleRight,
		},
	)
}

func (r *renderRun) title(index int) string {
	parts := make([]string, 0, 3)
	if r.opts.TitlePrefix != "" {
		parts = append(parts, r.opts.TitlePrefix)
	}
	if r.record.Kind != "" {
		parts = append(parts, string(r.record.Kind))
	}
	parts = append(parts, fmt.Sprintf("(%d)", index))
	return strings.Join(parts, " ")
}

func (r *renderRun) drawFields() {
	for _, f := range r.record.Fields {
		if f.Value == "" {
			continue
		}
		r.breakIfNeeded()
		r.pager.Place(pagination.Op{
			Kind:     pagination.OpText,
			Role:     pagination.RoleField,
			X:        r.opts.MarginLeft,
			Text:     fmt.Sprintf("【%s】: %s", f.Label, f.Value),
			FontSize: r.opts.BodyFontSize,
		})
		r.pager.Advance(r.opts.FieldLineHeight)
	}
}

func (r *renderRun) streamRemarks() {
	wrapper := r.opts.Wrapper
	if wrapper == nil {
		wrapper = text.CharCountWrapper{Width: r.opts.WrapWidth}
	}
	lines := text.NewLineBuffer(r.record.Remarks, wrapper, r.opts.EmptyLines)

	for {
		line, ok := lines.Next()
		if !ok {
			return
		}
		r.breakIfNeeded()
		r.transition(StateStreamingLine)
		r.pager.Place(pagination.Op{
			Kind:     pagination.OpText,
			Role:     pagination.RoleRemarks,
			X:        r.opts.RemarksIndent,
			Text:     line,
			FontSize: r.opts.RemarksFontSize,
		})
		r.pager.Advance(r.opts.RemarksLineHeight)
	}
}

// breakIfNeeded moves to a fresh page when the cursor is past the bottom
// margin. Breaks among the fields or before the caption belong to the
// FieldsDrawn step; once the caption is down every break is a PageBreak.
func (r *renderRun) breakIfNeeded() {
	if r.pager.EnsureRoom() {
		if r.state >= StateRemarksCaptioned {
			r.transition(StatePageBreak)
		}
		if r.engine.Debug {
			fmt.Printf("layout: page break, now on page %d\n", r.pager.Current().Index)
		}
	}
}
