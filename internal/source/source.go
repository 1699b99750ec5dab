// Package source reads the official documents candidate lists are scraped
// from: PDF text layers with word positions, several PDFs merged into one
// document, and HTML ballot exports.
package source

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ResourceError reports a source document that is missing or unreadable.
// It aborts the run; there is no retry.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// IsResourceError reports whether err is or wraps a *ResourceError.
func IsResourceError(err error) bool {
	var re *ResourceError
	return errors.As(err, &re)
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ResourceError{Path: path, Err: err}
	}
	if info.IsDir() {
		return &ResourceError{Path: path, Err: errors.New("is a directory")}
	}
	return nil
}

// Word is a run of glyphs on one baseline. Y is measured from the top of
// the page.
type Word struct {
	Text string
	X    float64
	Y    float64
	W    float64
	Size float64
}

// Right returns the right edge of the word.
func (w Word) Right() float64 {
	return w.X + w.W
}

// Page is one page of a document.
type Page struct {
	Number int
	Width  float64
	Height float64
	Words  []Word
}

// Document is an opened source with its pages in reading order.
type Document struct {
	Path  string
	Pages []Page
	// Parts is set when the document was merged from several PDFs.
	Parts PDFList
	// Text holds the lines of plain-text sources such as OCR output.
	Text []string
}

// PageRange is an inclusive 1-indexed page interval. A zero Last means
// "to the end".
type PageRange struct {
	First int
	Last  int
}

// ParsePageRange parses "3", "1-11" or "48-" style page ranges.
// The empty string selects every page.
func ParsePageRange(s string) (PageRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PageRange{First: 1}, nil
	}
	first, last, isRange := strings.Cut(s, "-")
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil || a < 1 {
		return PageRange{}, fmt.Errorf("invalid page range %q", s)
	}
	if !isRange {
		return PageRange{First: a, Last: a}, nil
	}
	if strings.TrimSpace(last) == "" {
		return PageRange{First: a}, nil
	}
	b, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil || b < a {
		return PageRange{}, fmt.Errorf("invalid page range %q", s)
	}
	return PageRange{First: a, Last: b}, nil
}

// Contains reports whether page n lies in the range.
func (r PageRange) Contains(n int) bool {
	if n < r.First {
		return false
	}
	return r.Last == 0 || n <= r.Last
}

// Select returns a copy of the document restricted to the page range.
func (d *Document) Select(r PageRange) *Document {
	out := &Document{Path: d.Path, Parts: d.Parts, Text: d.Text}
	for _, p := range d.Pages {
		if r.Contains(p.Number) {
			out.Pages = append(out.Pages, p)
		}
	}
	return out
}

// Lines returns the text lines of every page in order.
func (d *Document) Lines() []string {
	if len(d.Pages) == 0 {
		return d.Text
	}
	var lines []string
	for _, p := range d.Pages {
		lines = append(lines, p.Lines()...)
	}
	return lines
}
