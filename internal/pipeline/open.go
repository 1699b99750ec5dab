package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jackzampolin/wahlzettel/internal/config"
	"github.com/jackzampolin/wahlzettel/internal/home"
	"github.com/jackzampolin/wahlzettel/internal/source"
	"github.com/jackzampolin/wahlzettel/internal/strategy"
)

// ErrNoSources is returned when a strategy needs a document and the
// election configures none.
var ErrNoSources = errors.New("election has no sources")

// SourceFile returns the configured file name of a source, falling back to
// the last element of its URL.
func SourceFile(s config.Source) string {
	if s.Path != "" {
		return s.Path
	}
	if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
		if name := path.Base(u.Path); name != "/" && name != "." {
			return name
		}
	}
	return ""
}

// Open reads the sources a strategy of the given kind needs into an Input.
// A missing or unreadable file is a *source.ResourceError.
func Open(ctx context.Context, kind strategy.SourceKind, e config.Election, h *home.Dir) (strategy.Input, error) {
	in := strategy.Input{Election: e, Table: e.PartyTable()}
	if kind == strategy.SourceNone {
		return in, nil
	}
	if len(e.Sources) == 0 {
		return in, fmt.Errorf("%s: %w", e.Slug, ErrNoSources)
	}

	if kind == strategy.SourceHTML {
		doc, err := source.OpenHTML(h.SourcePath(SourceFile(e.Sources[0])))
		if err != nil {
			return in, err
		}
		in.HTML = doc
		return in, nil
	}

	docs := make([]*source.Document, 0, len(e.Sources))
	for _, s := range e.Sources {
		if err := ctx.Err(); err != nil {
			return in, err
		}
		doc, err := openDocument(h.SourcePath(SourceFile(s)), s)
		if err != nil {
			return in, err
		}
		docs = append(docs, doc)
	}
	in.Doc = merge(docs)
	return in, nil
}

func openDocument(p string, s config.Source) (*source.Document, error) {
	var (
		doc *source.Document
		err error
	)
	info, statErr := os.Stat(p)
	switch {
	case statErr == nil && info.IsDir():
		files := make([]source.PartFile, 0, len(s.Files))
		for _, f := range s.Files {
			files = append(files, source.PartFile{Name: f.Name, List: f.List})
		}
		doc, err = source.OpenPDFSet(p, files)
	case strings.EqualFold(filepath.Ext(p), ".txt"):
		doc, err = source.OpenText(p)
	default:
		doc, err = source.OpenPDF(p)
	}
	if err != nil {
		return nil, err
	}

	if s.Pages != "" {
		r, err := source.ParsePageRange(s.Pages)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", p, err)
		}
		doc = doc.Select(r)
	}
	return doc, nil
}

// merge joins documents into one, renumbering pages after the first.
func merge(docs []*source.Document) *source.Document {
	if len(docs) == 1 {
		return docs[0]
	}
	out := &source.Document{}
	offset := 0
	for _, d := range docs {
		if out.Path == "" {
			out.Path = d.Path
		}
		last := 0
		for _, p := range d.Pages {
			p.Number += offset
			out.Pages = append(out.Pages, p)
			last = p.Number
		}
		for _, part := range d.Parts {
			part.StartPage += offset
			part.EndPage += offset
			out.Parts = append(out.Parts, part)
		}
		out.Text = append(out.Text, d.Text...)
		if last > offset {
			offset = last
		}
	}
	return out
}
