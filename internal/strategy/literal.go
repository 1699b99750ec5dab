package strategy

import (
	"context"

	"github.com/jackzampolin/wahlzettel/internal/normalize"
)

// Literal returns the candidates entered by hand in the configuration, for
// sources whose layout defeats every automated extraction.
type Literal struct{}

func (Literal) Name() string       { return "literal" }
func (Literal) Source() SourceKind { return SourceNone }

func (Literal) Parse(_ context.Context, in Input) (*Result, error) {
	b := newBuilder(in.Table)
	for _, p := range in.Election.Parties {
		b.party(p.List)
		for i, c := range p.Candidates {
			b.add(p.List, i+1, normalize.Fields{
				LastName:   normalize.Clean(c.Last),
				FirstName:  normalize.Clean(c.First),
				Profession: normalize.Clean(c.Profession),
			})
		}
	}
	return b.result(), nil
}
