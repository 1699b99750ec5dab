package strategy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
	"github.com/jackzampolin/wahlzettel/internal/extract"
	"github.com/jackzampolin/wahlzettel/internal/normalize"
)

// builder collects candidates per list. Every configured list exists from
// the start so that lists the source failed to yield show up empty.
type builder struct {
	table   ballot.PartyTable
	parties map[int]*ballot.Party
	dups    int
	notes   []string
}

func newBuilder(table ballot.PartyTable) *builder {
	b := &builder{table: table, parties: make(map[int]*ballot.Party)}
	for _, list := range table.Lists() {
		b.party(list)
	}
	return b
}

func (b *builder) party(list int) *ballot.Party {
	p, ok := b.parties[list]
	if !ok {
		np := b.table.NewParty(list)
		p = &np
		b.parties[list] = p
	}
	return p
}

// add appends a candidate unless the position is already taken.
func (b *builder) add(list, position int, f normalize.Fields) {
	p := b.party(list)
	if p.HasPosition(position) {
		b.dups++
		return
	}
	p.Candidates = append(p.Candidates, ballot.Candidate{
		Position:   position,
		LastName:   f.LastName,
		FirstName:  f.FirstName,
		Profession: f.Profession,
	})
}

// name sets the names of a list the party table does not know.
func (b *builder) name(list int, info ballot.PartyInfo) {
	if _, known := b.table.Lookup(list); known {
		return
	}
	p := b.party(list)
	if info.FullName != "" {
		p.FullName = info.FullName
	}
	if info.ShortName != "" {
		p.ShortName = info.ShortName
	}
}

func (b *builder) notef(format string, args ...any) {
	b.notes = append(b.notes, fmt.Sprintf(format, args...))
}

func (b *builder) result() *Result {
	lists := make([]int, 0, len(b.parties))
	for list := range b.parties {
		lists = append(lists, list)
	}
	sort.Ints(lists)

	res := &Result{Duplicates: b.dups, Notes: b.notes}
	for _, list := range lists {
		p := b.parties[list]
		p.SortCandidates()
		p.Recount()
		res.Parties = append(res.Parties, *p)
	}
	return res
}

// addRecords splits extracted records with conv and adds them.
func (b *builder) addRecords(records []extract.Record, conv normalize.Convention) {
	for _, r := range records {
		b.add(r.List, r.Position, normalize.Split(r.FullText(), conv))
	}
}

// nameFromHeaders names the lists found in the document but missing from
// the party table, using the lines printed under each list header.
func (b *builder) nameFromHeaders(res extract.Result, aliases []ballot.PartyInfo) {
	for _, list := range res.Lists {
		if _, known := b.table.Lookup(list); known {
			continue
		}
		info, ok := headerInfo(res.Titles[list], res.Headers[list], aliases)
		if !ok {
			b.notef("list %d: no party name found under its header", list)
			continue
		}
		if len(aliases) > 0 && info.ShortName == info.FullName {
			b.notef("list %d: Kennwort %q matches no known party", list, info.FullName)
		}
		b.name(list, info)
	}
}

var (
	kennwortPattern = regexp.MustCompile(`Kennwort:?\s+(.+)$`)
	kennwortTail    = regexp.MustCompile(`\s*folgende.*$`)
)

// headerInfo derives party names from a list header. A Kennwort is matched
// against the aliases; otherwise the first header line is the full name and
// the last one the short name.
func headerInfo(title string, lines []string, aliases []ballot.PartyInfo) (ballot.PartyInfo, bool) {
	kennwort := ""
	for _, l := range append([]string{title}, lines...) {
		if m := kennwortPattern.FindStringSubmatch(l); m != nil {
			kennwort = m[1]
			break
		}
	}
	if kennwort == "" && len(aliases) > 0 && len(lines) > 0 {
		kennwort = lines[0]
	}
	kennwort = strings.TrimSpace(kennwortTail.ReplaceAllString(normalize.Clean(kennwort), ""))

	if kennwort != "" {
		info := ballot.PartyInfo{ShortName: kennwort, FullName: kennwort}
		if alias, ok := normalize.MatchKennwort(kennwort, aliases); ok {
			info.ShortName = alias.ShortName
		}
		return info, true
	}
	if len(lines) == 0 {
		return ballot.PartyInfo{}, false
	}
	return ballot.PartyInfo{
		FullName:  normalize.Clean(lines[0]),
		ShortName: normalize.Clean(lines[len(lines)-1]),
	}, true
}
