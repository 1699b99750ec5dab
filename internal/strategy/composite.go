package strategy

import (
	"context"
	"regexp"

	"github.com/jackzampolin/wahlzettel/internal/extract"
	"github.com/jackzampolin/wahlzettel/internal/normalize"
)

// Composite parses announcements that number candidates list*100+position
// under "Wahlvorschlag Nr. N Kennwort ..." headers, as used for most
// Bavarian city councils and in Wiesbaden. Continuation pages repeat the
// header and the last entries; repeats are dropped.
type Composite struct{}

func (Composite) Name() string       { return "composite" }
func (Composite) Source() SourceKind { return SourceDocument }

var compositeDefaults = extract.Rules{
	PartyHeader:      regexp.MustCompile(`Wahlvorschlag:?\s*(?:Nr\.?)?\s*(\d+)`),
	Scheme:           extract.SchemeComposite,
	Year:             extract.YearOptional,
	MaxContinuations: 1,
}

func (Composite) Parse(ctx context.Context, in Input) (*Result, error) {
	if in.Doc == nil {
		return nil, ErrNoDocument
	}
	opts := in.Election.Options
	rules, err := RulesFrom(opts, compositeDefaults)
	if err != nil {
		return nil, err
	}
	conv, err := conventionFrom(opts, normalize.ConventionAuto)
	if err != nil {
		return nil, err
	}

	lines, err := documentLines(ctx, in.Doc, opts)
	if err != nil {
		return nil, err
	}
	if opts.LiftNumbers {
		lines = extract.LiftNumberBelow(lines, skipper(rules))
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
