package source

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PDFPart describes one file of a merged document and its page range.
type PDFPart struct {
	Path      string
	List      int // list number the file belongs to, 0 if unknown
	StartPage int // first page number (1-indexed, cumulative)
	EndPage   int // last page number (inclusive)
}

// PDFList is a slice of PDFPart with helper methods.
type PDFList []PDFPart

// PartForPage returns the part holding the given cumulative page number.
func (parts PDFList) PartForPage(page int) (PDFPart, bool) {
	for _, p := range parts {
		if page >= p.StartPage && page <= p.EndPage {
			return p, true
		}
	}
	return PDFPart{}, false
}

// PartFile names one PDF of a merged source and the list it carries.
type PartFile struct {
	Name string
	List int
}

// OpenPDFSet opens several PDFs from dir as one document with cumulative
// page numbers, e.g. one announcement per party. Without files every PDF in
// dir is used, sorted by numeric suffix, and numbered as list 1, 2, ...
func OpenPDFSet(dir string, files []PartFile) (*Document, error) {
	if len(files) == 0 {
		paths, err := ScanPDFs(dir)
		if err != nil {
			return nil, err
		}
		for i, p := range paths {
			files = append(files, PartFile{Name: filepath.Base(p), List: i + 1})
		}
	}
	if len(files) == 0 {
		return nil, &ResourceError{Path: dir, Err: fmt.Errorf("no PDF files")}
	}

	doc := &Document{Path: dir}
	offset := 0
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		part, err := OpenPDF(path)
		if err != nil {
			return nil, err
		}
		for _, p := range part.Pages {
			p.Number += offset
			doc.Pages = append(doc.Pages, p)
		}
		count := len(part.Pages)
		if count > 0 {
			count = part.Pages[count-1].Number
		}
		doc.Parts = append(doc.Parts, PDFPart{
			Path:      path,
			List:      f.List,
			StartPage: offset + 1,
			EndPage:   offset + count,
		})
		offset += count
	}
	return doc, nil
}

// LinesByList returns the text lines of a merged document grouped by the
// list number of the part each page came from.
func (d *Document) LinesByList() map[int][]string {
	out := make(map[int][]string)
	for _, p := range d.Pages {
		part, ok := d.Parts.PartForPage(p.Number)
		if !ok {
			continue
		}
		out[part.List] = append(out[part.List], p.Lines()...)
	}
	return out
}

// ScanPDFs lists the PDF files in dir sorted by numeric suffix.
func ScanPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ResourceError{Path: dir, Err: err}
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return SortByNumber(paths), nil
}

var numberSuffix = regexp.MustCompile(`-(\d+)\.pdf$`)

// SortByNumber sorts PDF paths by their numeric suffix, so "list-2.pdf"
// comes before "list-10.pdf". Paths without suffix come first, in lexical
// order; equal suffixes fall back to lexical order too.
func SortByNumber(paths []string) []string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)

	number := func(p string) int {
		m := numberSuffix.FindStringSubmatch(strings.ToLower(p))
		if m == nil {
			return -1
		}
		n, _ := strconv.Atoi(m[1])
		return n
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		ni, nj := number(sorted[i]), number(sorted[j])
		if ni != nj {
			return ni < nj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}
