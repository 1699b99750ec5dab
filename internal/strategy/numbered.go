package strategy

import (
	"context"

	"github.com/jackzampolin/wahlzettel/internal/extract"
	"github.com/jackzampolin/wahlzettel/internal/normalize"
	"github.com/jackzampolin/wahlzettel/internal/source"
)

// Numbered parses ballot sheets whose entries carry their own composite
// number, "1105 Last, First", with no usable list headers. Dense sheets are
// cut into grid cells first; OCR text with several entries per line is
// split apart.
type Numbered struct{}

func (Numbered) Name() string       { return "numbered" }
func (Numbered) Source() SourceKind { return SourceDocument }

var numberedDefaults = extract.Rules{
	Scheme:           extract.SchemeSelfNumbered,
	MaxContinuations: -1,
}

func (Numbered) Parse(ctx context.Context, in Input) (*Result, error) {
	if in.Doc == nil {
		return nil, ErrNoDocument
	}
	opts := in.Election.Options
	rules, err := RulesFrom(opts, numberedDefaults)
	if err != nil {
		return nil, err
	}
	conv, err := conventionFrom(opts, normalize.ConventionNameOnly)
	if err != nil {
		return nil, err
	}

	var lines []string
	if len(opts.Grid.X) > 1 && len(opts.Grid.Y) > 1 {
		for _, page := range in.Doc.Pages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for _, cell := range page.Grid(opts.Grid.X, opts.Grid.Y) {
				lines = append(lines, source.Lines(cell.Words, yTolerance(opts))...)
			}
		}
	} else {
		if lines, err = documentLines(ctx, in.Doc, opts); err != nil {
			return nil, err
		}
	}
	if rules.CleanArtifacts {
		for i := range lines {
			lines[i] = normalize.CollapseRepeats(lines[i])
		}
	}
	if opts.SplitInline {
		lines = extract.SplitAllInline(lines)
	}

	res := extract.Extract(lines, rules)
	b := newBuilder(in.Table)
	b.addRecords(res.Records, conv)
	b.dups += res.Duplicates

	out := b.result()
	out.Stopped = res.Stopped
	return out, nil
}
