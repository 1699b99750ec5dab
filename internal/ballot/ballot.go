// Package ballot defines the canonical candidate-list dataset written for
// each election: parties in list order, candidates in ballot order, and the
// derived identifiers and counts that downstream consumers rely on.
package ballot

import (
	"fmt"
	"sort"
)

// Candidate is one person on a party list.
type Candidate struct {
	ID         string `json:"id"`
	Position   int    `json:"position"`
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	Profession string `json:"profession"`
}

// Party is one list (Wahlvorschlag) on the ballot.
// CandidateCount is derived; call Recount after changing Candidates.
type Party struct {
	ListNumber     int         `json:"listNumber"`
	FullName       string      `json:"fullName"`
	ShortName      string      `json:"shortName"`
	CandidateCount int         `json:"candidateCount"`
	Candidates     []Candidate `json:"candidates"`
}

// Election is the top-level dataset. One file per election.
type Election struct {
	Election        string  `json:"election,omitempty"`
	Name            string  `json:"name,omitempty"`
	TotalStimmen    int     `json:"totalStimmen"`
	MaxPerCandidate int     `json:"maxPerCandidate"`
	Parties         []Party `json:"parties"`
}

// MaxPosition is the highest ballot position a list can hold. Composite
// numbering tops out at 100 per list; plain lists stay well below this.
const MaxPosition = 999

// CandidateID builds the stable identifier "{prefix}-{list}-{position}".
func CandidateID(prefix string, list, position int) string {
	return fmt.Sprintf("%s-%d-%d", prefix, list, position)
}

// Recount sets CandidateCount from the candidate slice.
func (p *Party) Recount() {
	if p.Candidates == nil {
		p.Candidates = []Candidate{}
	}
	p.CandidateCount = len(p.Candidates)
}

// SortCandidates orders candidates by ballot position, keeping input order
// for equal positions.
func (p *Party) SortCandidates() {
	sort.SliceStable(p.Candidates, func(i, j int) bool {
		return p.Candidates[i].Position < p.Candidates[j].Position
	})
}

// DedupePositions drops every candidate whose position was already seen.
// The first occurrence wins. Returns the number of dropped records.
func (p *Party) DedupePositions() int {
	seen := make(map[int]bool, len(p.Candidates))
	kept := p.Candidates[:0]
	dropped := 0
	for _, c := range p.Candidates {
		if seen[c.Position] {
			dropped++
			continue
		}
		seen[c.Position] = true
		kept = append(kept, c)
	}
	p.Candidates = kept
	return dropped
}

// HasPosition reports whether a candidate with the given position exists.
func (p *Party) HasPosition(position int) bool {
	for _, c := range p.Candidates {
		if c.Position == position {
			return true
		}
	}
	return false
}

// Renumber rewrites every candidate id from prefix, list number and position.
func (p *Party) Renumber(prefix string) {
	for i := range p.Candidates {
		p.Candidates[i].ID = CandidateID(prefix, p.ListNumber, p.Candidates[i].Position)
	}
}

// Party returns the party with the given list number, or nil.
func (e *Election) Party(list int) *Party {
	for i := range e.Parties {
		if e.Parties[i].ListNumber == list {
			return &e.Parties[i]
		}
	}
	return nil
}

// TotalCandidates sums the candidates across all parties.
func (e *Election) TotalCandidates() int {
	n := 0
	for _, p := range e.Parties {
		n += len(p.Candidates)
	}
	return n
}

// Finalize brings the dataset into its written form: parties sorted by list
// number, candidates sorted by position, ids regenerated and counts recomputed.
// Every path that writes a dataset goes through Finalize.
func (e *Election) Finalize(prefix string) {
	if e.Parties == nil {
		e.Parties = []Party{}
	}
	sort.SliceStable(e.Parties, func(i, j int) bool {
		return e.Parties[i].ListNumber < e.Parties[j].ListNumber
	})
	for i := range e.Parties {
		p := &e.Parties[i]
		p.SortCandidates()
		p.Renumber(prefix)
		p.Recount()
	}
}
