package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
)

func party(list int, short string, positions ...int) ballot.Party {
	p := ballot.Party{ListNumber: list, ShortName: short, FullName: short}
	for _, pos := range positions {
		p.Candidates = append(p.Candidates, ballot.Candidate{Position: pos, LastName: "X"})
	}
	p.Recount()
	return p
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestCheck(t *testing.T) {
	table := ballot.NewPartyTable(
		ballot.PartyInfo{ListNumber: 1, ShortName: "CDU", Expected: 3},
		ballot.PartyInfo{ListNumber: 2, ShortName: "SPD", Expected: 2},
		ballot.PartyInfo{ListNumber: 3, ShortName: "GRÜNE", Expected: 4},
		ballot.PartyInfo{ListNumber: 4, ShortName: "FDP", Expected: 1},
	)

	t.Run("all match", func(t *testing.T) {
		e := &ballot.Election{Parties: []ballot.Party{
			party(1, "CDU", seq(3)...),
			party(2, "SPD", seq(2)...),
			party(3, "GRÜNE", seq(4)...),
			party(4, "FDP", 1),
		}}
		r := Check(e, table)
		if !r.AllMatch() || !r.Consistent() {
			t.Errorf("expected clean report, got warnings %v", r.Warnings())
		}
		if r.Total != 10 {
			t.Errorf("expected total 10, got %d", r.Total)
		}
		if len(r.Warnings()) != 0 {
			t.Errorf("unexpected warnings %v", r.Warnings())
		}
	})

	t.Run("findings", func(t *testing.T) {
		stale := party(2, "SPD", 1, 2)
		stale.CandidateCount = 5
		e := &ballot.Election{Parties: []ballot.Party{
			party(3, "GRÜNE", 1, 2, 2, 5),
			party(1, "CDU"),
			stale,
			party(9, "NEU", 1),
		}}
		r := Check(e, table)
		if r.AllMatch() || r.Consistent() {
			t.Fatal("expected mismatches")
		}

		var lists []int
		for _, p := range r.Parties {
			lists = append(lists, p.ListNumber)
		}
		if diff := cmp.Diff([]int{1, 2, 3, 4, 9}, lists); diff != "" {
			t.Errorf("lists (-want +got):\n%s", diff)
		}

		want := []string{
			"Liste 1 (CDU): 0 candidates",
			"Liste 2 (SPD): candidateCount does not match candidates",
			"Liste 3 (GRÜNE): missing positions 3-4",
			"Liste 3 (GRÜNE): duplicate positions 2",
			"Liste 4 (FDP): missing from dataset",
			"Liste 9 (NEU): not in the gazette table",
		}
		if diff := cmp.Diff(want, r.Warnings()); diff != "" {
			t.Errorf("warnings (-want +got):\n%s", diff)
		}
	})
}

func TestPositions(t *testing.T) {
	tests := []struct {
		name       string
		positions  []int
		missing    []int
		dups       []int
		outOfRange []int
	}{
		{"gapless", seq(5), nil, nil, nil},
		{"gap", []int{1, 2, 4}, []int{3}, nil, nil},
		{"tail gap", []int{1, 2, 2}, []int{3}, []int{2}, nil},
		{"position 100", append(seq(99), 100), nil, nil, nil},
		{"corrupt position", []int{1, 50000000, 2}, nil, nil, []int{50000000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing, dups, outOfRange := positions(party(1, "A", tt.positions...).Candidates)
			if diff := cmp.Diff(tt.missing, missing); diff != "" {
				t.Errorf("missing (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.dups, dups); diff != "" {
				t.Errorf("dups (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.outOfRange, outOfRange); diff != "" {
				t.Errorf("out of range (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender(t *testing.T) {
	table := ballot.NewPartyTable(
		ballot.PartyInfo{ListNumber: 1, ShortName: "CDU", Expected: 2},
		ballot.PartyInfo{ListNumber: 2, ShortName: "BSW", Expected: 16},
	)
	e := &ballot.Election{Parties: []ballot.Party{
		party(1, "CDU", 1, 2),
		party(2, "BSW", seq(33)...),
	}}
	var buf bytes.Buffer
	Render(&buf, Check(e, table))
	out := buf.String()

	for _, want := range []string{"CDU", "BSW", "35", "Liste 2 (BSW): 33 candidates, expected 16", "Some counts still don't match"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
