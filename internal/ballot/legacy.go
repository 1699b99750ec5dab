package ballot

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LegacyElection is the older per-city layout: parties keyed by "id" and
// candidates carrying a single "Last, First" name.
type LegacyElection struct {
	TotalStimmen    int           `json:"totalStimmen"`
	MaxPerCandidate int           `json:"maxPerCandidate"`
	Parties         []LegacyParty `json:"parties"`
}

type LegacyParty struct {
	ID         int               `json:"id"`
	Name       string            `json:"name"`
	Candidates []LegacyCandidate `json:"candidates"`
}

type LegacyCandidate struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// IsLegacy reports whether raw JSON uses the legacy layout. Legacy parties
// carry "id" and "name" instead of "listNumber".
func IsLegacy(raw []byte) bool {
	var probe struct {
		Parties []map[string]json.RawMessage `json:"parties"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || len(probe.Parties) == 0 {
		return false
	}
	_, hasID := probe.Parties[0]["id"]
	_, hasList := probe.Parties[0]["listNumber"]
	return hasID && !hasList
}

// DecodeLegacy parses the legacy layout.
func DecodeLegacy(raw []byte) (LegacyElection, error) {
	var le LegacyElection
	if err := json.Unmarshal(raw, &le); err != nil {
		return le, fmt.Errorf("decode legacy election: %w", err)
	}
	return le, nil
}

// FromLegacy converts a legacy dataset into the canonical model. Names are
// split on the first comma; a name without comma becomes the last name.
// The party name serves as both full and short name.
func FromLegacy(prefix string, in LegacyElection) *Election {
	out := &Election{
		TotalStimmen:    in.TotalStimmen,
		MaxPerCandidate: in.MaxPerCandidate,
		Parties:         make([]Party, 0, len(in.Parties)),
	}
	for _, lp := range in.Parties {
		p := Party{
			ListNumber: lp.ID,
			FullName:   lp.Name,
			ShortName:  lp.Name,
			Candidates: make([]Candidate, 0, len(lp.Candidates)),
		}
		for _, lc := range lp.Candidates {
			last, first, _ := strings.Cut(lc.Name, ",")
			p.Candidates = append(p.Candidates, Candidate{
				Position:  lc.ID,
				LastName:  strings.TrimSpace(last),
				FirstName: strings.TrimSpace(first),
			})
		}
		out.Parties = append(out.Parties, p)
	}
	out.Finalize(prefix)
	return out
}
