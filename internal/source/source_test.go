package source

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildWords(t *testing.T) {
	// "Liste 4" rendered glyph by glyph, then a second line
	glyphs := []glyph{
		{S: "L", X: 10, Y: 100, W: 5, Size: 10},
		{S: "i", X: 15, Y: 100, W: 2, Size: 10},
		{S: "s", X: 17, Y: 100, W: 4, Size: 10},
		{S: "t", X: 21, Y: 100, W: 3, Size: 10},
		{S: "e", X: 24, Y: 100, W: 4, Size: 10},
		{S: " ", X: 28, Y: 100, W: 3, Size: 10},
		{S: "4", X: 31, Y: 100, W: 5, Size: 10},
		{S: "C", X: 10, Y: 112, W: 6, Size: 10},
		{S: "D", X: 16, Y: 112, W: 6, Size: 10},
		{S: "U", X: 22, Y: 112, W: 6, Size: 10},
		// a gap without a space glyph still separates words
		{S: "X", X: 60, Y: 112, W: 6, Size: 10},
	}
	words := buildWords(glyphs)

	var texts []string
	for _, w := range words {
		texts = append(texts, w.Text)
	}
	if diff := cmp.Diff([]string{"Liste", "4", "CDU", "X"}, texts); diff != "" {
		t.Fatalf("words mismatch (-want +got):\n%s", diff)
	}
	if words[0].X != 10 || words[0].W != 18 {
		t.Errorf("unexpected geometry for first word: %+v", words[0])
	}
}

func TestSplitGlyphs(t *testing.T) {
	words := buildWords([]glyph{{S: "101 Müller", X: 0, Y: 10, W: 100, Size: 10}})
	if len(words) != 2 || words[0].Text != "101" || words[1].Text != "Müller" {
		t.Errorf("unexpected words: %+v", words)
	}
}

func samplePage() Page {
	return Page{
		Number: 1,
		Width:  200,
		Height: 300,
		Words: []Word{
			{Text: "Müller,", X: 30, Y: 20.5, W: 30},
			{Text: "101", X: 5, Y: 20, W: 15},
			{Text: "Anna", X: 65, Y: 19.5, W: 20},
			{Text: "201", X: 105, Y: 20, W: 15},
			{Text: "Schmidt,", X: 125, Y: 20, W: 30},
			{Text: "Peter", X: 160, Y: 20, W: 20},
			{Text: "102", X: 5, Y: 40, W: 15},
			{Text: "Weber,", X: 30, Y: 40, W: 30},
			{Text: "Jan", X: 65, Y: 40, W: 20},
		},
	}
}

func TestLines(t *testing.T) {
	want := []string{
		"101 Müller, Anna 201 Schmidt, Peter",
		"102 Weber, Jan",
	}
	if diff := cmp.Diff(want, samplePage().Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if Lines(nil, DefaultYTolerance) != nil {
		t.Error("expected no lines for no words")
	}
}

func TestColumns(t *testing.T) {
	cols := samplePage().Columns(2)
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(cols))
	}
	if diff := cmp.Diff([]string{"101 Müller, Anna", "102 Weber, Jan"}, cols[0].Lines()); diff != "" {
		t.Errorf("left column mismatch: %s", diff)
	}
	if diff := cmp.Diff([]string{"201 Schmidt, Peter"}, cols[1].Lines()); diff != "" {
		t.Errorf("right column mismatch: %s", diff)
	}
}

func TestGrid(t *testing.T) {
	cells := samplePage().Grid([]float64{0, 100, 200}, []float64{0, 30, 300})
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	if diff := cmp.Diff([]string{"102 Weber, Jan"}, cells[2].Lines()); diff != "" {
		t.Errorf("bottom-left cell mismatch: %s", diff)
	}
	if len(cells[3].Words) != 0 {
		t.Errorf("bottom-right cell should be empty, got %+v", cells[3].Words)
	}
}

func TestTable(t *testing.T) {
	p := Page{Words: []Word{
		{Text: "Lfd.", X: 5, Y: 10}, {Text: "Name", X: 40, Y: 10}, {Text: "Vorname", X: 120, Y: 10}, {Text: "Beruf", X: 200, Y: 10},
		{Text: "1", X: 5, Y: 30}, {Text: "Schulz", X: 40, Y: 30}, {Text: "Eva", X: 120, Y: 30}, {Text: "Verwaltungs-", X: 200, Y: 30},
		{Text: "fachangestellte", X: 200, Y: 40},
		{Text: "2", X: 5, Y: 55}, {Text: "Kaya", X: 40, Y: 55}, {Text: "Deniz", X: 120, Y: 55}, {Text: "Student", X: 200, Y: 55},
	}}
	want := [][]string{
		{"Lfd.", "Name", "Vorname", "Beruf"},
		{"1", "Schulz", "Eva", "Verwaltungs- fachangestellte"},
		{"2", "Kaya", "Deniz", "Student"},
	}
	got := p.Table([]float64{0, 30, 110, 190, 400}, DefaultYTolerance)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		in      string
		want    PageRange
		wantErr bool
	}{
		{"", PageRange{First: 1}, false},
		{"3", PageRange{First: 3, Last: 3}, false},
		{"1-11", PageRange{First: 1, Last: 11}, false},
		{"48-", PageRange{First: 48}, false},
		{"0", PageRange{}, true},
		{"9-2", PageRange{}, true},
		{"a-b", PageRange{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePageRange(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}

	r := PageRange{First: 2, Last: 3}
	doc := &Document{Pages: []Page{{Number: 1}, {Number: 2}, {Number: 3}, {Number: 4}}}
	if sel := doc.Select(r); len(sel.Pages) != 2 || sel.Pages[0].Number != 2 {
		t.Errorf("unexpected selection: %+v", sel.Pages)
	}
}

func TestSortByNumber(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "numeric suffix",
			in:   []string{"liste-10.pdf", "liste-2.pdf", "liste-1.pdf"},
			want: []string{"liste-1.pdf", "liste-2.pdf", "liste-10.pdf"},
		},
		{
			name: "mixed with unnumbered",
			in:   []string{"liste-10.pdf", "zusatz.pdf", "liste-2.pdf", "anhang.pdf", "b-2.pdf"},
			want: []string{"anhang.pdf", "zusatz.pdf", "b-2.pdf", "liste-2.pdf", "liste-10.pdf"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SortByNumber(tt.in)); diff != "" {
				t.Errorf("sort mismatch (-want +got):\n%s", diff)
			}
			reversed := make([]string, len(tt.in))
			for i, p := range tt.in {
				reversed[len(tt.in)-1-i] = p
			}
			if diff := cmp.Diff(tt.want, SortByNumber(reversed)); diff != "" {
				t.Errorf("order depends on input (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartForPage(t *testing.T) {
	parts := PDFList{
		{Path: "CSU.pdf", List: 1, StartPage: 1, EndPage: 3},
		{Path: "FW.pdf", List: 2, StartPage: 4, EndPage: 4},
	}
	if p, ok := parts.PartForPage(4); !ok || p.List != 2 {
		t.Errorf("expected list 2 for page 4, got %+v %v", p, ok)
	}
	if _, ok := parts.PartForPage(5); ok {
		t.Error("expected no part for page 5")
	}

	doc := &Document{
		Parts: parts,
		Pages: []Page{
			{Number: 1, Words: []Word{{Text: "101", X: 0, Y: 10}, {Text: "Huber", X: 20, Y: 10}}},
			{Number: 4, Words: []Word{{Text: "201", X: 0, Y: 10}, {Text: "Lang", X: 20, Y: 10}}},
		},
	}
	byList := doc.LinesByList()
	if diff := cmp.Diff(map[int][]string{1: {"101 Huber"}, 2: {"201 Lang"}}, byList); diff != "" {
		t.Errorf("lines by list mismatch: %s", diff)
	}
}

func TestMissingSources(t *testing.T) {
	dir := t.TempDir()

	t.Run("pdf", func(t *testing.T) {
		_, err := OpenPDF(filepath.Join(dir, "missing.pdf"))
		var re *ResourceError
		if !errors.As(err, &re) {
			t.Fatalf("expected ResourceError, got %v", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected wrapped not-exist error, got %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		if _, err := OpenPDF(dir); !IsResourceError(err) {
			t.Errorf("expected ResourceError for directory, got %v", err)
		}
	})

	t.Run("pdf set", func(t *testing.T) {
		_, err := OpenPDFSet(filepath.Join(dir, "parts"), nil)
		if !IsResourceError(err) {
			t.Errorf("expected ResourceError, got %v", err)
		}
	})

	t.Run("empty pdf set", func(t *testing.T) {
		_, err := OpenPDFSet(dir, nil)
		if !IsResourceError(err) {
			t.Errorf("expected ResourceError, got %v", err)
		}
	})

	t.Run("html", func(t *testing.T) {
		if _, err := OpenHTML(filepath.Join(dir, "missing.html")); !IsResourceError(err) {
			t.Errorf("expected ResourceError, got %v", err)
		}
	})
}

func TestOpenHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.html")
	html := `<html><body><small id="name-liste-1">CDU</small></body></html>`
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := OpenHTML(path)
	if err != nil {
		t.Fatalf("OpenHTML failed: %v", err)
	}
	if got := doc.Find("#name-liste-1").Text(); got != "CDU" {
		t.Errorf("expected CDU, got %q", got)
	}
}

func TestOpenText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocr.txt")
	if err := os.WriteFile(path, []byte("101 Müller, Anna 201 Lang, Ute\n102 Weber, Jan\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := OpenText(path)
	if err != nil {
		t.Fatalf("OpenText failed: %v", err)
	}
	want := []string{"101 Müller, Anna 201 Lang, Ute", "102 Weber, Jan"}
	if diff := cmp.Diff(want, doc.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Select(PageRange{First: 1}).Lines()) != 2 {
		t.Error("page selection should keep text lines")
	}
}
