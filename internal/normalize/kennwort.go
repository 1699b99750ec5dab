package normalize

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
)

// KennwortThreshold is the minimum Jaro-Winkler similarity for a Kennwort
// to be attributed to a known party.
const KennwortThreshold = 0.9

// MatchKennwort finds the party whose full or short name best matches the
// Kennwort printed on a list header. A known name contained in the
// Kennwort is an exact hit. Returns false when nothing reaches
// KennwortThreshold.
func MatchKennwort(kennwort string, known []ballot.PartyInfo) (ballot.PartyInfo, bool) {
	kw := foldName(kennwort)
	if kw == "" {
		return ballot.PartyInfo{}, false
	}

	var best ballot.PartyInfo
	bestScore := 0.0
	for _, info := range known {
		for _, name := range []string{info.FullName, info.ShortName} {
			n := foldName(name)
			if n == "" {
				continue
			}
			score := matchr.JaroWinkler(kw, n, false)
			if len(n) > 3 && strings.Contains(kw, n) {
				score = 1
			}
			if score > bestScore {
				best, bestScore = info, score
			}
		}
	}
	if bestScore < KennwortThreshold {
		return ballot.PartyInfo{}, false
	}
	return best, true
}

// foldName lowercases and drops spacing differences such as
// "BÜNDNIS 90 / DIE GRÜNEN" vs "BÜNDNIS 90/DIE GRÜNEN" or "e. V." vs "e.V.".
func foldName(s string) string {
	return strings.ReplaceAll(strings.ToLower(Clean(s)), " ", "")
}
