package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gompdf/notepdf/internal/pagination"
	"github.com/gompdf/notepdf/internal/res"
)

// ErrSerialization is wrapped by every error returned from Render
var ErrSerialization = errors.New("failed to serialize document")

// Error reports the serialization step that failed
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pdf.%s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrSerialization and the underlying cause
func (e *Error) Unwrap() []error {
	return []error{ErrSerialization, e.Err}
}

// Renderer serializes laid out documents to PDF
type Renderer struct {
	// Debug enables verbose logging to stdout
	Debug bool
	// Compress toggles stream compression
	Compress bool
	// RuleWidth is the stroke width of separator rules in document units
	RuleWidth float64
	// CreationDate pins the document timestamp; zero means now
	CreationDate time.Time
}

// RenderOptions contains document metadata
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// NewRenderer creates a new PDF renderer
func NewRenderer() *Renderer {
	return &Renderer{
		Compress:  true,
		RuleWidth: 0.3,
	}
}

// Render writes doc as PDF to w
func (r *Renderer) Render(doc *pagination.Document, w io.Writer, options RenderOptions) error {
	if doc == nil {
		return &Error{Op: "Render", Err: errors.New("nil document")}
	}

	pdf := r.newPDF(doc, options)

	family := doc.Font.Family
	translate := func(s string) string { return s }
	if doc.Font.Outcome == res.FontOK {
		pdf.AddUTF8FontFromBytes(family, "", doc.Font.Data)
	} else {
		if family == "" {
			family = res.FallbackFamily
		}
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}

	if r.Debug {
		fmt.Printf("Rendering %d pages with font %s\n", len(doc.Pages), family)
	}

	if len(doc.Pages) == 0 {
		pdf.AddPage()
	}
	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			r.drawOp(pdf, family, translate, op)
		}
	}

	if pdf.Err() {
		return &Error{Op: "Render", Err: pdf.Error()}
	}
	if err := pdf.Output(w); err != nil {
		return &Error{Op: "Output", Err: err}
	}
	return nil
}

// RenderToFile writes doc to outputPath, creating the directory if needed
func (r *Renderer) RenderToFile(doc *pagination.Document, outputPath string, options RenderOptions) (err error) {
	outputDir := filepath.Dir(outputPath)
	if _, statErr := os.Stat(outputDir); os.IsNotExist(statErr) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return &Error{Op: "WriteFile", Err: fmt.Errorf("failed to create output directory: %w", err)}
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return &Error{Op: "WriteFile", Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &Error{Op: "WriteFile", Err: cerr}
		}
	}()

	return r.Render(doc, f, options)
}

func (r *Renderer) newPDF(doc *pagination.Document, options RenderOptions) *fpdf.Fpdf {
	unit := doc.Unit
	if unit == "" {
		unit = "mm"
	}
	size := fpdf.SizeType{Wd: pagination.PageSizeA4.Width, Ht: pagination.PageSizeA4.Height}
	if len(doc.Pages) > 0 && doc.Pages[0].Width > 0 && doc.Pages[0].Height > 0 {
		size = fpdf.SizeType{Wd: doc.Pages[0].Width, Ht: doc.Pages[0].Height}
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        unit,
		Size:           size,
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(r.Compress)
	pdf.SetCatalogSort(true)
	if !r.CreationDate.IsZero() {
		pdf.SetCreationDate(r.CreationDate)
		pdf.SetModificationDate(r.CreationDate)
	}

	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetKeywords(options.Keywords, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(options.Producer, true)
	return pdf
}

func (r *Renderer) drawOp(pdf *fpdf.Fpdf, family string, translate func(string) string, op pagination.Op) {
	switch op.Kind {
	case pagination.OpText:
		if op.Text == "" {
			return
		}
		pdf.SetFont(family, "", op.FontSize)
		txt := translate(op.Text)
		x := op.X
		if op.Align == pagination.AlignCenter {
			x -= pdf.GetStringWidth(txt) / 2
		}
		pdf.Text(x, op.Y, txt)
		if r.Debug {
			fmt.Printf("Rendering %s text at (%.2f, %.2f): %q\n", op.Role, x, op.Y, op.Text)
		}
	case pagination.OpRule:
		pdf.SetLineWidth(r.RuleWidth)
		pdf.Line(op.X, op.Y, op.X2, op.Y)
	default:
		if r.Debug {
			fmt.Printf("Unknown op kind: %d\n", op.Kind)
		}
	}
}
