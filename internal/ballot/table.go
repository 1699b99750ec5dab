package ballot

import (
	"fmt"
	"sort"
)

// PartyInfo is the gazette metadata for one list.
// Expected is the officially published candidate count; 0 means unknown.
type PartyInfo struct {
	ListNumber int
	ShortName  string
	FullName   string
	Expected   int
}

// PartyTable maps list numbers to party metadata. It is built once per run
// and never modified; pass it explicitly to whoever needs it.
type PartyTable struct {
	infos map[int]PartyInfo
	lists []int
}

// NewPartyTable builds a table from the given entries. A later entry for the
// same list number replaces an earlier one.
func NewPartyTable(infos ...PartyInfo) PartyTable {
	t := PartyTable{infos: make(map[int]PartyInfo, len(infos))}
	for _, info := range infos {
		if _, dup := t.infos[info.ListNumber]; !dup {
			t.lists = append(t.lists, info.ListNumber)
		}
		t.infos[info.ListNumber] = info
	}
	sort.Ints(t.lists)
	return t
}

// Len returns the number of configured lists.
func (t PartyTable) Len() int {
	return len(t.lists)
}

// Lists returns the configured list numbers in ascending order.
func (t PartyTable) Lists() []int {
	out := make([]int, len(t.lists))
	copy(out, t.lists)
	return out
}

// Lookup returns the metadata for a list number.
func (t PartyTable) Lookup(list int) (PartyInfo, bool) {
	info, ok := t.infos[list]
	return info, ok
}

// Info returns the metadata for a list, falling back to a generic
// "Liste N" name for lists missing from the table.
func (t PartyTable) Info(list int) PartyInfo {
	if info, ok := t.infos[list]; ok {
		if info.FullName == "" {
			info.FullName = info.ShortName
		}
		if info.ShortName == "" {
			info.ShortName = info.FullName
		}
		return info
	}
	name := fmt.Sprintf("Liste %d", list)
	return PartyInfo{ListNumber: list, ShortName: name, FullName: name}
}

// Expected returns the published candidate count for a list, or 0.
func (t PartyTable) Expected(list int) int {
	return t.infos[list].Expected
}

// NewParty returns an empty party carrying the table's names for list.
func (t PartyTable) NewParty(list int) Party {
	info := t.Info(list)
	return Party{
		ListNumber: list,
		FullName:   info.FullName,
		ShortName:  info.ShortName,
		Candidates: []Candidate{},
	}
}
