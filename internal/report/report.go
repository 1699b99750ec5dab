// Package report compares an election dataset against the gazette's
// expected candidate counts and checks that every party's positions run
// 1..N without gaps. Findings are warnings; nothing here blocks a write.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
)

// PartyStatus is the check result for one list.
type PartyStatus struct {
	ListNumber int    `json:"listNumber"`
	ShortName  string `json:"shortName"`
	Count      int    `json:"count"`
	// Expected is the published count, 0 when the gazette table has none.
	Expected   int   `json:"expected"`
	Missing    []int `json:"missing,omitempty"`
	Duplicates []int `json:"duplicates,omitempty"`
	// OutOfRange holds positions above ballot.MaxPosition.
	OutOfRange []int `json:"outOfRange,omitempty"`
	// Stale is set when CandidateCount disagrees with the candidate slice.
	Stale bool `json:"stale,omitempty"`
	// Absent is set for a configured list the dataset does not contain.
	Absent bool `json:"absent,omitempty"`
	// Unlisted is set for a list the gazette table does not know.
	Unlisted bool `json:"unlisted,omitempty"`
}

// Match reports whether the count equals the published one. Lists without
// a published count always match.
func (s PartyStatus) Match() bool {
	return s.Expected == 0 || s.Count == s.Expected
}

// Gapless reports whether positions are exactly 1..Count.
func (s PartyStatus) Gapless() bool {
	return len(s.Missing) == 0 && len(s.Duplicates) == 0 && len(s.OutOfRange) == 0 && !s.Stale
}

// Report is the outcome of Check.
type Report struct {
	Parties []PartyStatus `json:"parties"`
	Total   int           `json:"total"`
}

// AllMatch reports whether every list has its published count.
func (r Report) AllMatch() bool {
	for _, p := range r.Parties {
		if !p.Match() || p.Absent {
			return false
		}
	}
	return true
}

// Consistent reports whether every list has gapless positions.
func (r Report) Consistent() bool {
	for _, p := range r.Parties {
		if !p.Gapless() {
			return false
		}
	}
	return true
}

// Warnings returns one line per finding, in list order.
func (r Report) Warnings() []string {
	var out []string
	for _, p := range r.Parties {
		label := fmt.Sprintf("Liste %d (%s)", p.ListNumber, p.ShortName)
		switch {
		case p.Absent:
			out = append(out, label+": missing from dataset")
			continue
		case p.Count == 0:
			out = append(out, label+": 0 candidates")
		case !p.Match():
			out = append(out, fmt.Sprintf("%s: %d candidates, expected %d", label, p.Count, p.Expected))
		}
		if p.Unlisted {
			out = append(out, label+": not in the gazette table")
		}
		if p.Stale {
			out = append(out, label+": candidateCount does not match candidates")
		}
		if len(p.Missing) > 0 {
			out = append(out, fmt.Sprintf("%s: missing positions %s", label, ranges(p.Missing)))
		}
		if len(p.Duplicates) > 0 {
			out = append(out, fmt.Sprintf("%s: duplicate positions %s", label, ranges(p.Duplicates)))
		}
		if len(p.OutOfRange) > 0 {
			out = append(out, fmt.Sprintf("%s: positions above %d: %s", label, ballot.MaxPosition, ranges(p.OutOfRange)))
		}
	}
	return out
}

// Check compares e against table.
func Check(e *ballot.Election, table ballot.PartyTable) Report {
	var r Report
	seen := make(map[int]bool)
	for _, p := range e.Parties {
		seen[p.ListNumber] = true
		_, known := table.Lookup(p.ListNumber)
		s := PartyStatus{
			ListNumber: p.ListNumber,
			ShortName:  p.ShortName,
			Count:      len(p.Candidates),
			Expected:   table.Expected(p.ListNumber),
			Stale:      p.CandidateCount != len(p.Candidates),
			Unlisted:   table.Len() > 0 && !known,
		}
		s.Missing, s.Duplicates, s.OutOfRange = positions(p.Candidates)
		r.Parties = append(r.Parties, s)
		r.Total += s.Count
	}
	for _, list := range table.Lists() {
		if seen[list] {
			continue
		}
		info := table.Info(list)
		r.Parties = append(r.Parties, PartyStatus{
			ListNumber: list,
			ShortName:  info.ShortName,
			Expected:   info.Expected,
			Absent:     true,
		})
	}
	sort.SliceStable(r.Parties, func(i, j int) bool {
		return r.Parties[i].ListNumber < r.Parties[j].ListNumber
	})
	return r
}

// positions returns the positions missing from 1..N and those seen twice,
// where N is the largest of the candidate count and the highest position.
// The scan stops at ballot.MaxPosition; positions beyond it are returned
// as out of range.
func positions(cs []ballot.Candidate) (missing, dups, outOfRange []int) {
	count := make(map[int]int, len(cs))
	for _, c := range cs {
		if c.Position > ballot.MaxPosition {
			outOfRange = append(outOfRange, c.Position)
			continue
		}
		count[c.Position]++
	}
	n := len(cs) - len(outOfRange)
	for pos := range count {
		if pos > n {
			n = pos
		}
	}
	for pos := 1; pos <= n; pos++ {
		switch {
		case count[pos] == 0:
			missing = append(missing, pos)
		case count[pos] > 1:
			dups = append(dups, pos)
		}
	}
	sort.Ints(outOfRange)
	return missing, dups, outOfRange
}

// ranges formats sorted positions compactly: [1 2 3 7] becomes "1-3, 7".
func ranges(ns []int) string {
	out := ""
	for i := 0; i < len(ns); {
		j := i
		for j+1 < len(ns) && ns[j+1] == ns[j]+1 {
			j++
		}
		if out != "" {
			out += ", "
		}
		if i == j {
			out += fmt.Sprint(ns[i])
		} else {
			out += fmt.Sprintf("%d-%d", ns[i], ns[j])
		}
		i = j + 1
	}
	return out
}

// Render writes the report as a console table followed by its warnings.
func Render(w io.Writer, r Report) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"", "Liste", "Partei", "Kandidaten", "Erwartet"})
	for _, p := range r.Parties {
		expected := "-"
		if p.Expected > 0 {
			expected = fmt.Sprint(p.Expected)
		}
		t.AppendRow(table.Row{mark(p), p.ListNumber, p.ShortName, p.Count, expected})
	}
	t.AppendFooter(table.Row{overallMark(r), "", fmt.Sprintf("%d Listen", len(r.Parties)), r.Total, ""})
	t.Render()

	for _, line := range r.Warnings() {
		fmt.Fprintf(w, "⚠ %s\n", line)
	}
	switch {
	case r.AllMatch() && r.Consistent():
		fmt.Fprintln(w, "✓ All counts match!")
	case r.AllMatch():
		fmt.Fprintln(w, "⚠ Counts match but positions are inconsistent")
	default:
		fmt.Fprintln(w, "⚠ Some counts still don't match")
	}
}

func mark(p PartyStatus) string {
	if p.Absent || p.Count == 0 || !p.Match() || !p.Gapless() {
		return "✗"
	}
	return "✓"
}

func overallMark(r Report) string {
	if r.AllMatch() && r.Consistent() {
		return "✓"
	}
	return "✗"
}
