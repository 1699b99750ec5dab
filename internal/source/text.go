package source

import (
	"bufio"
	"fmt"
	"os"
)

// OpenText reads a plain-text source, typically OCR output of a scanned
// ballot, one line per entry.
func OpenText(path string) (*Document, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}
	defer f.Close()

	doc := &Document{Path: path}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		doc.Text = append(doc.Text, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, &ResourceError{Path: path, Err: fmt.Errorf("read text: %w", err)}
	}
	return doc, nil
}
