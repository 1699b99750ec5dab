package source

import (
	"fmt"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// A4 portrait in points, used when a page carries no media box.
const (
	defaultPageWidth  = 595.0
	defaultPageHeight = 842.0
)

// PageCount returns the number of pages in a PDF file.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &ResourceError{Path: path, Err: err}
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, &ResourceError{Path: path, Err: fmt.Errorf("read page count: %w", err)}
	}
	return n, nil
}

// OpenPDF reads the text layer of a PDF with the position of every word.
func OpenPDF(path string) (*Document, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	count, err := PageCount(path)
	if err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}
	defer f.Close()

	if n := r.NumPage(); n < count {
		count = n
	}

	doc := &Document{Path: path, Pages: make([]Page, 0, count)}
	for i := 1; i <= count; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		texts, err := pageTexts(p)
		if err != nil {
			return nil, &ResourceError{Path: path, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		width, height := mediaBox(p)

		glyphs := make([]glyph, 0, len(texts))
		for _, t := range texts {
			glyphs = append(glyphs, glyph{S: t.S, X: t.X, Y: height - t.Y, W: t.W, Size: t.FontSize})
		}
		doc.Pages = append(doc.Pages, Page{
			Number: i,
			Width:  width,
			Height: height,
			Words:  buildWords(glyphs),
		})
	}
	return doc, nil
}

// pageTexts reads the positioned glyphs of a page. The pdf package panics
// on malformed content streams.
func pageTexts(p pdf.Page) (texts []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	return p.Content().Text, nil
}

// mediaBox returns the page size, following inherited MediaBox entries.
func mediaBox(p pdf.Page) (width, height float64) {
	box := p.V.Key("MediaBox")
	for parent := p.V.Key("Parent"); box.IsNull() && !parent.IsNull(); parent = parent.Key("Parent") {
		box = parent.Key("MediaBox")
	}
	if box.Len() != 4 {
		return defaultPageWidth, defaultPageHeight
	}
	width = box.Index(2).Float64() - box.Index(0).Float64()
	height = box.Index(3).Float64() - box.Index(1).Float64()
	if width <= 0 || height <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return width, height
}

// glyph is one positioned text fragment with Y measured from the top.
type glyph struct {
	S    string
	X, Y float64
	W    float64
	Size float64
}

// buildWords merges glyphs into words. A word ends at whitespace, at a
// horizontal gap wider than a quarter of the font size, or when the
// baseline moves.
func buildWords(glyphs []glyph) []Word {
	var (
		words []Word
		cur   *Word
		text  strings.Builder
	)
	flush := func() {
		if cur != nil && text.Len() > 0 {
			cur.Text = text.String()
			words = append(words, *cur)
		}
		cur = nil
		text.Reset()
	}

	for _, g := range splitGlyphs(glyphs) {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}
		if cur != nil {
			tol := math.Max(cur.Size, g.Size) * 0.25
			if tol == 0 {
				tol = 1
			}
			gap := g.X - cur.Right()
			if math.Abs(g.Y-cur.Y) > tol || gap > tol || gap < -2*tol {
				flush()
			}
		}
		if cur == nil {
			cur = &Word{X: g.X, Y: g.Y, Size: g.Size}
		}
		text.WriteString(g.S)
		cur.W = g.X + g.W - cur.X
	}
	flush()
	return words
}

// splitGlyphs breaks multi-character fragments that contain spaces into
// single-word fragments, spreading the width evenly over the runes.
func splitGlyphs(glyphs []glyph) []glyph {
	out := make([]glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if !strings.ContainsAny(g.S, " \t") || utf8.RuneCountInString(g.S) < 2 {
			out = append(out, g)
			continue
		}
		per := g.W / float64(utf8.RuneCountInString(g.S))
		x := g.X
		for _, r := range g.S {
			out = append(out, glyph{S: string(r), X: x, Y: g.Y, W: per, Size: g.Size})
			x += per
		}
	}
	return out
}
