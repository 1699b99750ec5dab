package strategy

import (
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
	"github.com/jackzampolin/wahlzettel/internal/normalize"
)

// VoteIT parses the HTML sample ballot ("Probestimmzettel") exported by
// voteIT. Every list is a table with id "wahlvorschlag-liste-N"; the party
// name sits in "name-liste-N" and each candidate in a
// "stimmzettelposN-kandidatK-nr" cell followed by its "-nennung1" entry.
type VoteIT struct{}

func (VoteIT) Name() string       { return "voteit" }
func (VoteIT) Source() SourceKind { return SourceHTML }

const voteITListPrefix = "wahlvorschlag-liste-"

func (VoteIT) Parse(ctx context.Context, in Input) (*Result, error) {
	if in.HTML == nil {
		return nil, ErrNoDocument
	}
	conv, err := conventionFrom(in.Election.Options, normalize.ConventionNameOnly)
	if err != nil {
		return nil, err
	}

	b := newBuilder(in.Table)
	in.HTML.Find("table.stz-klassisch-wahlvorschlag").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if ctx.Err() != nil {
			return false
		}
		id, _ := t.Attr("id")
		list, err := strconv.Atoi(strings.TrimPrefix(id, voteITListPrefix))
		if err != nil || !strings.HasPrefix(id, voteITListPrefix) {
			b.notef("skipping ballot table with id %q", id)
			return true
		}

		if name := normalize.Clean(in.HTML.Find("#name-liste-" + strconv.Itoa(list)).First().Text()); name != "" {
			b.name(list, ballot.PartyInfo{FullName: name, ShortName: name})
		}
		b.party(list)

		t.Find("td[id$='-nr']").Each(func(i int, cell *goquery.Selection) {
			cellID, _ := cell.Attr("id")
			entryID := strings.TrimSuffix(cellID, "-nr") + "-nennung1"
			text := normalize.Clean(t.Find("#" + entryID).First().Text())
			if text == "" {
				return
			}
			pos := i + 1
			if n, err := strconv.Atoi(strings.TrimSpace(cell.Text())); err == nil && n > 0 && n < 100 {
				pos = n
			}
			b.add(list, pos, normalize.Split(text, conv))
		})
		return true
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.result(), nil
}
