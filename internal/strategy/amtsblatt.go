package strategy

import (
	"context"
	"regexp"

	"github.com/jackzampolin/wahlzettel/internal/extract"
	"github.com/jackzampolin/wahlzettel/internal/normalize"
	"github.com/jackzampolin/wahlzettel/internal/source"
)

// Amtsblatt parses a two-column official gazette: "Liste N" headers
// followed by the party's full and short name, then numbered entries of the
// form "N Last, First, Profession," with the birth data on the last line.
type Amtsblatt struct{}

func (Amtsblatt) Name() string       { return "amtsblatt" }
func (Amtsblatt) Source() SourceKind { return SourceDocument }

var amtsblattDefaults = extract.Rules{
	PartyHeader: regexp.MustCompile(`^Liste\s+(\d+)$`),
	Scheme:      extract.SchemePlain,
	EndMarkers:  []string{"geb."},
}

func (a Amtsblatt) Parse(ctx context.Context, in Input) (*Result, error) {
	if in.Doc == nil {
		return nil, ErrNoDocument
	}
	opts := in.Election.Options
	rules, err := RulesFrom(opts, amtsblattDefaults)
	if err != nil {
		return nil, err
	}
	conv, err := conventionFrom(opts, normalize.ConventionComma)
	if err != nil {
		return nil, err
	}
	columns := opts.Columns
	if columns == 0 {
		columns = 2
	}

	var lines []string
	for _, page := range in.Doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, col := range page.Columns(columns) {
			lines = append(lines, source.Lines(col.Words, yTolerance(opts))...)
		}
	}
	if len(in.Doc.Pages) == 0 {
		lines = in.Doc.Lines()
	}

	res := extract.Extract(lines, rules)
	b := newBuilder(in.Table)
	b.addRecords(res.Records, conv)
	b.nameFromHeaders(res, in.Election.AliasInfos())
	b.dups += res.Duplicates

	out := b.result()
	out.Stopped = res.Stopped
	return out, nil
}
