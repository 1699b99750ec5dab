package source

import (
	"math"
	"sort"
	"strings"
)

// DefaultYTolerance groups words whose tops differ by at most this many
// points into one line.
const DefaultYTolerance = 3.0

// Lines groups words into reading-order text lines. Words are sorted top to
// bottom, a word joins the current line while its top stays within
// yTolerance of the line's first word, and each line reads left to right.
func Lines(words []Word, yTolerance float64) []string {
	var out []string
	for _, line := range groupLines(words, yTolerance) {
		texts := make([]string, len(line))
		for i, w := range line {
			texts[i] = w.Text
		}
		out = append(out, strings.Join(texts, " "))
	}
	return out
}

func groupLines(words []Word, yTolerance float64) [][]Word {
	if len(words) == 0 {
		return nil
	}
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]Word
	current := []Word{sorted[0]}
	top := sorted[0].Y
	for _, w := range sorted[1:] {
		if math.Abs(w.Y-top) <= yTolerance {
			current = append(current, w)
			continue
		}
		lines = append(lines, byX(current))
		current = []Word{w}
		top = w.Y
	}
	return append(lines, byX(current))
}

func byX(words []Word) []Word {
	sort.SliceStable(words, func(i, j int) bool { return words[i].X < words[j].X })
	return words
}

// Lines returns the page's text lines.
func (p Page) Lines() []string {
	return Lines(p.Words, DefaultYTolerance)
}

// BBox is a rectangle in page coordinates, Y measured from the top.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

func (b BBox) contains(w Word) bool {
	return w.X >= b.X0 && w.X < b.X1 && w.Y >= b.Y0 && w.Y < b.Y1
}

// Crop returns the words whose top-left corner lies inside b.
func (p Page) Crop(b BBox) Page {
	out := Page{Number: p.Number, Width: b.X1 - b.X0, Height: b.Y1 - b.Y0}
	for _, w := range p.Words {
		if b.contains(w) {
			out.Words = append(out.Words, w)
		}
	}
	return out
}

// Columns splits the page into n equal-width columns, left to right.
func (p Page) Columns(n int) []Page {
	if n <= 1 {
		return []Page{p}
	}
	width := p.Width / float64(n)
	cols := make([]Page, 0, n)
	for i := 0; i < n; i++ {
		x0 := width * float64(i)
		x1 := x0 + width
		if i == n-1 {
			x1 = math.Inf(1)
		}
		cols = append(cols, p.Crop(BBox{X0: x0, Y0: math.Inf(-1), X1: x1, Y1: math.Inf(1)}))
	}
	return cols
}

// Grid cuts the page at the given x and y boundaries and returns the cells
// row by row. n boundaries make n-1 columns or rows.
func (p Page) Grid(xs, ys []float64) []Page {
	var cells []Page
	for r := 0; r+1 < len(ys); r++ {
		for c := 0; c+1 < len(xs); c++ {
			cells = append(cells, p.Crop(BBox{X0: xs[c], Y0: ys[r], X1: xs[c+1], Y1: ys[r+1]}))
		}
	}
	return cells
}

// Table assigns words to cells by x boundaries and returns one row per text
// line. n boundaries make n-1 columns; words left of the first boundary
// fall into the first column and words right of the last into the last.
// A line with an empty first cell continues the previous row.
func (p Page) Table(xs []float64, yTolerance float64) [][]string {
	ncols := len(xs) - 1
	if ncols < 1 {
		ncols = 1
	}
	var rows [][]string
	for _, line := range groupLines(p.Words, yTolerance) {
		cells := make([][]string, ncols)
		for _, w := range line {
			c := column(xs, w.X)
			cells[c] = append(cells[c], w.Text)
		}
		row := make([]string, ncols)
		for i, c := range cells {
			row[i] = strings.Join(c, " ")
		}
		if row[0] == "" && len(rows) > 0 {
			prev := rows[len(rows)-1]
			for i, v := range row {
				if v != "" {
					prev[i] = strings.TrimSpace(prev[i] + " " + v)
				}
			}
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func column(xs []float64, x float64) int {
	for i := 1; i < len(xs)-1; i++ {
		if x < xs[i] {
			return i - 1
		}
	}
	if len(xs) < 2 {
		return 0
	}
	return len(xs) - 2
}
