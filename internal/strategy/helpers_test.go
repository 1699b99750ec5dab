package strategy

import (
	"strings"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
	"github.com/jackzampolin/wahlzettel/internal/source"
)

// placed is a run of words starting at x on the line at y.
type placed struct {
	x, y float64
	text string
}

// page lays out runs of text as words 5pt per rune apart.
func page(n int, width float64, runs ...placed) source.Page {
	p := source.Page{Number: n, Width: width, Height: 842}
	for _, r := range runs {
		x := r.x
		for _, w := range strings.Fields(r.text) {
			wd := float64(len([]rune(w))) * 5
			p.Words = append(p.Words, source.Word{Text: w, X: x, Y: r.y, W: wd, Size: 10})
			x += wd + 4
		}
	}
	return p
}

// column lays out lines top to bottom starting at x.
func column(x float64, lines ...string) []placed {
	out := make([]placed, 0, len(lines))
	for i, l := range lines {
		out = append(out, placed{x: x, y: 40 + float64(i)*14, text: l})
	}
	return out
}

type wantCandidate struct {
	Position   int
	LastName   string
	FirstName  string
	Profession string
}

func candidates(p ballot.Party) []wantCandidate {
	out := make([]wantCandidate, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		out = append(out, wantCandidate{c.Position, c.LastName, c.FirstName, c.Profession})
	}
	return out
}

func partyByList(res *Result, list int) *ballot.Party {
	for i := range res.Parties {
		if res.Parties[i].ListNumber == list {
			return &res.Parties[i]
		}
	}
	return nil
}

func lists(res *Result) []int {
	out := make([]int, 0, len(res.Parties))
	for _, p := range res.Parties {
		out = append(out, p.ListNumber)
	}
	return out
}
