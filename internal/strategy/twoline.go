package strategy

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/jackzampolin/wahlzettel/internal/extract"
	"github.com/jackzampolin/wahlzettel/internal/normalize"
)

// TwoLine parses layouts that print "N Last First YYYY" on one line and the
// profession on the next (München). Documents merged from one PDF per party
// (Fürth) take the list from the file instead of a header.
type TwoLine struct{}

func (TwoLine) Name() string       { return "twoline" }
func (TwoLine) Source() SourceKind { return SourceDocument }

var twoLineDefaults = extract.Rules{
	PartyHeader:      regexp.MustCompile(`Wahlvorschlag\s+Nr\.\s*(\d+)`),
	Scheme:           extract.SchemePlain,
	Year:             extract.YearRequired,
	MaxContinuations: 1,
}

func (TwoLine) Parse(ctx context.Context, in Input) (*Result, error) {
	if in.Doc == nil {
		return nil, ErrNoDocument
	}
	opts := in.Election.Options
	rules, err := RulesFrom(opts, twoLineDefaults)
	if err != nil {
		return nil, err
	}

	b := newBuilder(in.Table)
	var out []extract.Result
	if len(in.Doc.Parts) > 0 {
		byList := in.Doc.LinesByList()
		lists := make([]int, 0, len(byList))
		for list := range byList {
			lists = append(lists, list)
		}
		sort.Ints(lists)
		for _, list := range lists {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r := rules
			r.List = list
			out = append(out, extract.Extract(byList[list], r))
		}
	} else {
		lines, err := documentLines(ctx, in.Doc, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, extract.Extract(lines, rules))
	}

	stopped := false
	for _, res := range out {
		for _, r := range res.Records {
			b.add(r.List, r.Position, splitTwoLine(r))
		}
		b.nameFromHeaders(res, in.Election.AliasInfos())
		b.dups += res.Duplicates
		stopped = stopped || res.Stopped
	}

	result := b.result()
	result.Stopped = stopped
	return result, nil
}

// splitTwoLine reads the name from the record line and the profession from
// its continuation.
func splitTwoLine(r extract.Record) normalize.Fields {
	conv := normalize.ConventionSpace
	if strings.Contains(r.Text, ",") {
		conv = normalize.ConventionNameOnly
	}
	f := normalize.Split(r.Text, conv)
	if len(r.Continuations) > 0 {
		f.Profession = strings.TrimSpace(strings.TrimRight(normalize.JoinWrapped(r.Continuations), ", "))
	}
	return f
}
