package source

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// OpenHTML parses an HTML ballot export.
func OpenHTML(path string) (*goquery.Document, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, &ResourceError{Path: path, Err: fmt.Errorf("parse html: %w", err)}
	}
	return doc, nil
}
