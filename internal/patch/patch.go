// Package patch applies hand-verified corrections to a produced dataset.
// A patch is an audit record: an ordered list of entries, each naming a
// list and one operation, kept in a JSON5 file so every entry can carry a
// comment on where the correct data was read from.
package patch

import (
	"errors"
	"fmt"
	"os"

	"github.com/titanous/json5"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
)

// Op is a patch operation.
type Op string

const (
	// OpInsert adds hand-transcribed candidates at positions not yet taken.
	OpInsert Op = "insert"
	// OpTruncate keeps the first Keep candidates by position and drops the
	// overflow, which belongs to an adjacent list section.
	OpTruncate Op = "truncate"
	// OpDedupe merges repeated blocks of the same list (first wins) and drops
	// repeated positions.
	OpDedupe Op = "dedupe"
)

// ErrUnknownParty is returned when an entry names a list the dataset lacks.
var ErrUnknownParty = errors.New("party not in dataset")

// Entry is one correction.
type Entry struct {
	Party int `json:"party"`
	Op    Op  `json:"op"`
	// IfCount skips the entry unless the list currently holds exactly this
	// many candidates, so a patch can be replayed on a fixed file.
	IfCount    *int               `json:"ifCount,omitempty"`
	Keep       int                `json:"keep,omitempty"`
	Candidates []ballot.Candidate `json:"candidates,omitempty"`
	Note       string             `json:"note,omitempty"`
}

// Patch is an ordered list of corrections for one election.
type Patch struct {
	Election string  `json:"election"`
	Entries  []Entry `json:"entries"`
}

// Parse decodes and checks a JSON5 patch.
func Parse(raw []byte) (*Patch, error) {
	var p Patch
	if err := json5.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a patch file.
func Load(path string) (*Patch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate checks every entry for a known operation and its payload.
func (p *Patch) Validate() error {
	for i, e := range p.Entries {
		if e.Party < 1 {
			return fmt.Errorf("entry %d: missing party", i+1)
		}
		switch e.Op {
		case OpInsert:
			if len(e.Candidates) == 0 {
				return fmt.Errorf("entry %d: insert without candidates", i+1)
			}
			for _, c := range e.Candidates {
				if c.Position < 1 {
					return fmt.Errorf("entry %d: candidate %q without position", i+1, c.LastName)
				}
			}
		case OpTruncate:
			if e.Keep < 1 {
				return fmt.Errorf("entry %d: truncate needs keep >= 1", i+1)
			}
		case OpDedupe:
		default:
			return fmt.Errorf("entry %d: unknown op %q", i+1, e.Op)
		}
	}
	return nil
}

// Action records what one entry did.
type Action struct {
	Entry   int    `json:"entry"`
	Party   int    `json:"party"`
	Op      Op     `json:"op"`
	Applied bool   `json:"applied"`
	Detail  string `json:"detail"`
}

// Log is the audit trail of one Apply run.
type Log []Action

// Applied returns the number of entries that changed the dataset.
func (l Log) Applied() int {
	n := 0
	for _, a := range l {
		if a.Applied {
			n++
		}
	}
	return n
}

// Apply runs the entries in order against e and finalizes the dataset with
// prefix. e is modified in place.
func Apply(e *ballot.Election, p *Patch, prefix string) (Log, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var log Log
	for i, entry := range p.Entries {
		a := Action{Entry: i + 1, Party: entry.Party, Op: entry.Op}

		party := e.Party(entry.Party)
		if party == nil && entry.Op != OpDedupe {
			return log, fmt.Errorf("entry %d: %w: list %d", i+1, ErrUnknownParty, entry.Party)
		}
		if entry.IfCount != nil {
			if n := listCount(e, entry.Party); n != *entry.IfCount {
				a.Detail = fmt.Sprintf("skipped: %d candidates, entry expects %d", n, *entry.IfCount)
				log = append(log, a)
				continue
			}
		}

		switch entry.Op {
		case OpDedupe:
			a.Applied, a.Detail = dedupe(e, entry.Party)
		case OpInsert:
			a.Applied, a.Detail = insert(party, entry.Candidates)
		case OpTruncate:
			a.Applied, a.Detail = truncate(party, entry.Keep)
		}
		log = append(log, a)
	}
	e.Finalize(prefix)
	return log, nil
}

func insert(p *ballot.Party, cs []ballot.Candidate) (bool, string) {
	added, skipped := 0, 0
	for _, c := range cs {
		if p.HasPosition(c.Position) {
			skipped++
			continue
		}
		c.ID = ""
		p.Candidates = append(p.Candidates, c)
		added++
	}
	p.SortCandidates()
	p.Recount()
	if skipped > 0 {
		return added > 0, fmt.Sprintf("inserted %d, %d positions already taken", added, skipped)
	}
	return added > 0, fmt.Sprintf("inserted %d", added)
}

func truncate(p *ballot.Party, keep int) (bool, string) {
	p.SortCandidates()
	if len(p.Candidates) <= keep {
		return false, fmt.Sprintf("nothing to drop: %d candidates", len(p.Candidates))
	}
	overflow := p.Candidates[keep:]
	first, last := overflow[0], overflow[len(overflow)-1]
	p.Candidates = p.Candidates[:keep]
	p.Recount()
	return true, fmt.Sprintf("dropped %d (%s, %s .. %s, %s)",
		len(overflow), first.LastName, first.FirstName, last.LastName, last.FirstName)
}

// listCount counts the candidates of list over every block it appears in.
func listCount(e *ballot.Election, list int) int {
	n := 0
	for _, p := range e.Parties {
		if p.ListNumber == list {
			n += len(p.Candidates)
		}
	}
	return n
}

func dedupe(e *ballot.Election, list int) (bool, string) {
	kept := e.Parties[:0]
	var first *ballot.Party
	blocks := 0
	for _, p := range e.Parties {
		if p.ListNumber != list {
			kept = append(kept, p)
			continue
		}
		blocks++
		if first == nil {
			kept = append(kept, p)
			first = &kept[len(kept)-1]
		}
	}
	e.Parties = kept
	if first == nil {
		return false, "list not in dataset"
	}
	dropped := first.DedupePositions()
	first.Recount()
	if blocks == 1 && dropped == 0 {
		return false, "no duplicates"
	}
	return true, fmt.Sprintf("removed %d duplicate blocks and %d duplicate positions", blocks-1, dropped)
}
