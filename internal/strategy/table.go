package strategy

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackzampolin/wahlzettel/internal/extract"
	"github.com/jackzampolin/wahlzettel/internal/normalize"
)

// Table parses ruled candidate tables. Each row carries the number and
// either a "Last, First" name cell or separate name and profession cells.
// A "Wahlvorschlag N" row opens a list that carries over to following
// pages until the next header.
type Table struct{}

func (Table) Name() string       { return "table" }
func (Table) Source() SourceKind { return SourceDocument }

var (
	tableHeader = regexp.MustCompile(`^Wahlvorschlag\s+(\d+)`)
	digitsOnly  = regexp.MustCompile(`^\d{1,4}$`)
	joinedEntry = regexp.MustCompile(`^(\d{2,4})\s+(\p{L}.*)$`)
)

func (Table) Parse(ctx context.Context, in Input) (*Result, error) {
	if in.Doc == nil {
		return nil, ErrNoDocument
	}
	opts := in.Election.Options
	if len(opts.Table.X) < 2 {
		return nil, errors.New("table strategy needs at least two column boundaries")
	}
	rules, err := RulesFrom(opts, extract.Rules{PartyHeader: tableHeader})
	if err != nil {
		return nil, err
	}
	conv, err := conventionFrom(opts, normalize.ConventionNameOnly)
	if err != nil {
		return nil, err
	}
	cells := opts.Table.Cells
	if len(cells) == 0 {
		cells = []string{"number", "name"}
	}

	b := newBuilder(in.Table)
	list := 0
	for _, page := range in.Doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, row := range page.Table(opts.Table.X, yTolerance(opts)) {
			if rules.CleanArtifacts {
				for i := range row {
					row[i] = normalize.CollapseRepeats(row[i])
				}
			}
			if n, ok := rowHeader(rules.PartyHeader, row); ok {
				list = n
				continue
			}
			if list == 0 {
				continue
			}
			if in.Table.Len() > 0 {
				if _, ok := in.Table.Lookup(list); !ok {
					continue
				}
			}
			number, f, ok := tableRow(row, cells, conv)
			if !ok {
				continue
			}
			pos := number
			if number >= 100 {
				pos = extract.CompositePosition(number)
			}
			b.add(list, pos, f)
		}
	}
	return b.result(), nil
}

// rowHeader finds a list header in the joined row or in any single cell.
func rowHeader(re *regexp.Regexp, row []string) (int, bool) {
	candidates := append([]string{strings.TrimSpace(strings.Join(row, " "))}, row...)
	for _, c := range candidates {
		if m := re.FindStringSubmatch(strings.TrimSpace(c)); m != nil {
			n, err := strconv.Atoi(m[1])
			return n, err == nil
		}
	}
	return 0, false
}

// tableRow reads one candidate row. The number cell may also hold the
// whole "NNN Last, First" entry.
func tableRow(row, cells []string, conv normalize.Convention) (int, normalize.Fields, bool) {
	var number int
	var f normalize.Fields
	var name string
	for i, kind := range cells {
		if i >= len(row) {
			break
		}
		cell := normalize.Clean(row[i])
		switch kind {
		case "number":
			if digitsOnly.MatchString(cell) {
				number, _ = strconv.Atoi(cell)
			} else if m := joinedEntry.FindStringSubmatch(cell); m != nil {
				number, _ = strconv.Atoi(m[1])
				name = m[2]
			}
		case "name":
			if cell != "" {
				name = cell
			}
		case "last":
			f.LastName = cell
		case "first":
			f.FirstName = cell
		case "profession":
			f.Profession = cell
		}
	}
	if number < 1 {
		return 0, f, false
	}
	if name != "" {
		split := normalize.Split(name, conv)
		if f.Profession != "" {
			split.Profession = f.Profession
		}
		f = split
	}
	if !normalize.LooksLikeName(f.LastName + " " + f.FirstName) {
		return 0, f, false
	}
	return number, f, true
}
