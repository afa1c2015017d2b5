package pagination

// Options represents options for the pagination engine
type Options struct {
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
}

// Engine creates paginators from a fixed page geometry
type Engine struct {
	options Options
}

// NewEngine creates a new pagination engine
func NewEngine() *Engine {
	return &Engine{
		options: Options{
			PageWidth:    PageSizeA4.Width,
			PageHeight:   PageSizeA4.Height,
			MarginTop:    32,
			MarginRight:  20,
			MarginBottom: 20,
			MarginLeft:   25,
		},
	}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// Options returns the current options
func (e *Engine) Options() Options {
	return e.options
}

// NewPaginator returns a paginator that draws header on every new page
func (e *Engine) NewPaginator(header HeaderFunc) *Paginator {
	return NewPaginator(
		PageSize{
			Width:  e.options.PageWidth,
			Height: e.options.PageHeight,
			Name:   "Custom",
		},
		Margins{
			Top:    e.options.MarginTop,
			Right:  e.options.MarginRight,
			Bottom: e.options.MarginBottom,
			Left:   e.options.MarginLeft,
		},
		header,
	)
}
