package strategy

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackzampolin/wahlzettel/internal/config"
	"github.com/jackzampolin/wahlzettel/internal/extract"
	"github.com/jackzampolin/wahlzettel/internal/normalize"
	"github.com/jackzampolin/wahlzettel/internal/source"
)

// RulesFrom overlays the configured options on a strategy's default rules.
// Options left at their zero value keep the default.
func RulesFrom(opts config.Options, base extract.Rules) (extract.Rules, error) {
	r := base
	var err error

	if opts.Header != "" {
		if r.PartyHeader, err = compile("header", opts.Header); err != nil {
			return r, err
		}
		if r.PartyHeader.NumSubexp() < 1 {
			return r, fmt.Errorf("header pattern %q has no list number group", opts.Header)
		}
	}
	if opts.Start != "" {
		if r.Start, err = compile("start", opts.Start); err != nil {
			return r, err
		}
	}
	if opts.Stop != "" {
		if r.Stop, err = compile("stop", opts.Stop); err != nil {
			return r, err
		}
	}
	if len(opts.Noise) > 0 {
		noise := make([]*regexp.Regexp, 0, len(base.Noise)+len(opts.Noise))
		noise = append(noise, base.Noise...)
		for _, n := range opts.Noise {
			re, err := compile("noise", n)
			if err != nil {
				return r, err
			}
			noise = append(noise, re)
		}
		r.Noise = noise
	}

	switch strings.ToLower(opts.Scheme) {
	case "":
	case "plain":
		r.Scheme = extract.SchemePlain
	case "composite":
		r.Scheme = extract.SchemeComposite
	case "self-numbered", "self":
		r.Scheme = extract.SchemeSelfNumbered
	default:
		return r, fmt.Errorf("unknown number scheme %q", opts.Scheme)
	}

	switch strings.ToLower(opts.Year) {
	case "":
	case "none":
		r.Year = extract.YearNone
	case "optional":
		r.Year = extract.YearOptional
	case "required":
		r.Year = extract.YearRequired
	default:
		return r, fmt.Errorf("unknown year mode %q", opts.Year)
	}

	if opts.MaxContinuations != 0 {
		r.MaxContinuations = opts.MaxContinuations
	}
	if len(opts.EndMarkers) > 0 {
		r.EndMarkers = opts.EndMarkers
	}
	if opts.MaxList > 0 {
		r.MaxList = opts.MaxList
	}
	if opts.CleanArtifacts {
		r.CleanArtifacts = true
	}
	return r, nil
}

func compile(field, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid %s pattern: %w", field, err)
	}
	return re, nil
}

// conventionFrom returns the configured name convention, or def when unset.
func conventionFrom(opts config.Options, def normalize.Convention) (normalize.Convention, error) {
	if opts.Names == "" {
		return def, nil
	}
	return normalize.ParseConvention(opts.Names)
}

// skipper reports lines that must never be treated as record text by the
// lift pre-pass: headers, noise and stop lines.
func skipper(rules extract.Rules) func(string) bool {
	return func(line string) bool {
		switch extract.Classify(line, rules) {
		case extract.KindPartyHeader, extract.KindNoise, extract.KindStop:
			return true
		}
		return false
	}
}

// yTolerance returns the configured line grouping tolerance.
func yTolerance(opts config.Options) float64 {
	if opts.YTolerance > 0 {
		return opts.YTolerance
	}
	return source.DefaultYTolerance
}

// documentLines returns the reading-order lines of every page of doc, or
// the plain text lines of a text source.
func documentLines(ctx context.Context, doc *source.Document, opts config.Options) ([]string, error) {
	if len(doc.Pages) == 0 {
		return doc.Lines(), nil
	}
	var lines []string
	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, source.Lines(page.Words, yTolerance(opts))...)
	}
	return lines, nil
}
