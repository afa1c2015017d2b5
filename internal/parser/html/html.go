package html

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parser converts HTML fragments (rich text pasted into the remarks box,
// or a saved web page) into plain paragraphs.
type Parser struct {
	// KeepEmpty keeps blank paragraphs produced by empty blocks and <br><br>
	KeepEmpty bool
}

// Document is the plain-text result of parsing
type Document struct {
	Paragraphs []string
}

// NewParser creates a new HTML parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseString parses HTML from a string
func (p *Parser) ParseString(content string) (*Document, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses an HTML fragment from r. Block elements and <br> end a
// paragraph; runs of whitespace inside a paragraph collapse to one space.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, err
	}

	w := &paragraphWriter{keepEmpty: p.KeepEmpty}
	for _, n := range nodes {
		w.walk(n)
	}
	w.flush()
	return &Document{Paragraphs: w.paragraphs}, nil
}

// Text joins the paragraphs with newlines
func (d *Document) Text() string {
	return strings.Join(d.Paragraphs, "\n")
}

// ToText is a shortcut for NewParser().ParseString(content).Text()
func ToText(content string) (string, error) {
	doc, err := NewParser().ParseString(content)
	if err != nil {
		return "", err
	}
	return doc.Text(), nil
}

type paragraphWriter struct {
	keepEmpty  bool
	paragraphs []string
	cur        strings.Builder
	// pendingSpace is set after whitespace so it is only emitted between words
	pendingSpace bool
	// pre is the depth of enclosing <pre> elements
	pre int
}

func (w *paragraphWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.writeText(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head, atom.Template:
			return
		case atom.Br:
			w.breakLine(true)
			return
		}
	}

	block := n.Type == html.ElementNode && isBlock(n.DataAtom)
	if block {
		w.breakLine(false)
	}
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Li:
			w.cur.WriteString("・")
		case atom.Td, atom.Th:
			w.pendingSpace = w.cur.Len() > 0
		}
	}
	pre := n.Type == html.ElementNode && n.DataAtom == atom.Pre
	if pre {
		w.pre++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if pre {
		w.pre--
	}
	if block {
		w.breakLine(false)
	}
}

func (w *paragraphWriter) writeText(s string) {
	if w.pre > 0 {
		w.writePreformatted(s)
		return
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			w.pendingSpace = w.cur.Len() > 0
			continue
		}
		if w.pendingSpace {
			w.cur.WriteByte(' ')
			w.pendingSpace = false
		}
		w.cur.WriteRune(r)
	}
}

// writePreformatted keeps spacing as written and turns each newline into a
// paragraph break. The tokenizer has already folded \r\n and \r to \n.
func (w *paragraphWriter) writePreformatted(s string) {
	for _, r := range s {
		if r == '\n' {
			w.breakLine(true)
			continue
		}
		if w.pendingSpace {
			w.cur.WriteByte(' ')
			w.pendingSpace = false
		}
		w.cur.WriteRune(r)
	}
}

// breakLine ends the current paragraph. forced breaks (<br>) may produce
// an empty paragraph, block boundaries never do.
func (w *paragraphWriter) breakLine(forced bool) {
	w.pendingSpace = false
	if w.cur.Len() == 0 {
		if forced && w.keepEmpty {
			w.paragraphs = append(w.paragraphs, "")
		}
		return
	}
	w.paragraphs = append(w.paragraphs, w.cur.String())
	w.cur.Reset()
}

func (w *paragraphWriter) flush() {
	w.breakLine(false)
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Li, atom.Table, atom.Tr, atom.Blockquote, atom.Pre,
		atom.Hr, atom.Dl, atom.Dt, atom.Dd:
		return true
	}
	return false
}
