package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const twoColumnPDF = "testdata/two-column.pdf"

func TestPageCount(t *testing.T) {
	n, err := PageCount(twoColumnPDF)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 pages, got %d", n)
	}
}

func TestOpenPDF(t *testing.T) {
	doc, err := OpenPDF(twoColumnPDF)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(doc.Pages))
	}
	for _, p := range doc.Pages {
		// page 2 inherits its media box from the page tree
		if p.Width != 600 || p.Height != 800 {
			t.Errorf("page %d: size %vx%v, want 600x800", p.Number, p.Width, p.Height)
		}
	}

	first := doc.Pages[0]
	if w := first.Words[0]; w.Text != "Liste" || w.X != 40 || w.Y != 50 || w.Size != 10 {
		t.Errorf("unexpected first word %+v", w)
	}

	t.Run("columns", func(t *testing.T) {
		cols := first.Columns(2)
		if diff := cmp.Diff([]string{"Liste 1", "1 Meier, Anna, Lehrerin", "2 Weber, Jan, Landwirt"}, cols[0].Lines()); diff != "" {
			t.Errorf("left column (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"Liste 2", "1 Roth, Eva, Ärztin", "2 Stein, Paul, Rentner"}, cols[1].Lines()); diff != "" {
			t.Errorf("right column (-want +got):\n%s", diff)
		}
	})

	t.Run("full width lines mix columns", func(t *testing.T) {
		lines := first.Lines()
		if len(lines) != 3 || lines[0] != "Liste 1 Liste 2" {
			t.Errorf("unexpected full width lines %q", lines)
		}
	})

	if diff := cmp.Diff([]string{"Seite 2"}, doc.Pages[1].Lines()); diff != "" {
		t.Errorf("page 2 (-want +got):\n%s", diff)
	}
}

func TestOpenPDFSet(t *testing.T) {
	raw, err := os.ReadFile(twoColumnPDF)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	for _, name := range []string{"liste-10.pdf", "liste-2.pdf"} {
		if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("scanned", func(t *testing.T) {
		doc, err := OpenPDFSet(dir, nil)
		if err != nil {
			t.Fatal(err)
		}
		var numbers []int
		for _, p := range doc.Pages {
			numbers = append(numbers, p.Number)
		}
		if diff := cmp.Diff([]int{1, 2, 3, 4}, numbers); diff != "" {
			t.Errorf("page numbers (-want +got):\n%s", diff)
		}
		want := PDFList{
			{Path: filepath.Join(dir, "liste-2.pdf"), List: 1, StartPage: 1, EndPage: 2},
			{Path: filepath.Join(dir, "liste-10.pdf"), List: 2, StartPage: 3, EndPage: 4},
		}
		if diff := cmp.Diff(want, doc.Parts); diff != "" {
			t.Errorf("parts (-want +got):\n%s", diff)
		}
	})

	t.Run("named files", func(t *testing.T) {
		doc, err := OpenPDFSet(dir, []PartFile{{Name: "liste-10.pdf", List: 10}})
		if err != nil {
			t.Fatal(err)
		}
		byList := doc.LinesByList()
		if len(byList) != 1 || len(byList[10]) != 4 {
			t.Errorf("expected the four lines of one file under list 10, got %q", byList)
		}
	})
}
