// Package pipeline runs one election end to end: open its sources, parse
// them with the configured strategy, check the result and write the
// dataset. It also applies boundary-fix patches and converts legacy files.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
	"github.com/jackzampolin/wahlzettel/internal/config"
	"github.com/jackzampolin/wahlzettel/internal/home"
	"github.com/jackzampolin/wahlzettel/internal/report"
	"github.com/jackzampolin/wahlzettel/internal/schema"
	"github.com/jackzampolin/wahlzettel/internal/strategy"
)

// Request contains the parameters for one parse run.
type Request struct {
	Election config.Election
	Home     *home.Dir
	Registry *strategy.Registry // Optional, defaults to the built-in strategies
	Logger   *slog.Logger       // Optional logger for progress updates
	// DryRun parses and reports without writing the dataset.
	DryRun bool
}

// Result contains the outcome of a parse run.
type Result struct {
	Election   *ballot.Election `json:"-"`
	Report     report.Report    `json:"report"`
	Output     string           `json:"output"`
	Written    bool             `json:"written"`
	Duplicates int              `json:"duplicates"`
	Stopped    bool             `json:"stopped"`
	Notes      []string         `json:"notes,omitempty"`
}

// Prefix returns the candidate id prefix of e, defaulting to its slug.
func Prefix(e config.Election) string {
	if e.IDPrefix != "" {
		return e.IDPrefix
	}
	return e.Slug
}

// OutputFile returns the dataset file name of e, defaulting to
// "<slug>.json".
func OutputFile(e config.Election) string {
	if e.Output != "" {
		return e.Output
	}
	return e.Slug + ".json"
}

// Run parses one election and writes its dataset. Count mismatches and
// empty lists end up in Result.Report; only unreadable sources, unknown
// strategies and encoding failures are errors.
func Run(ctx context.Context, req Request) (*Result, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}
	registry := req.Registry
	if registry == nil {
		registry = strategy.DefaultRegistry()
	}
	e := req.Election
	log = log.With("election", e.Slug, "strategy", e.Strategy)

	s, err := registry.Lookup(e.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Slug, err)
	}

	in, err := Open(ctx, s.Source(), e, req.Home)
	if err != nil {
		return nil, err
	}
	if in.Doc != nil {
		log.Debug("opened source", "path", in.Doc.Path, "pages", len(in.Doc.Pages), "lines", len(in.Doc.Text))
	}

	parsed, err := s.Parse(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", e.Slug, err)
	}
	for _, note := range parsed.Notes {
		log.Warn(note)
	}
	if parsed.Duplicates > 0 {
		log.Info("dropped repeated entries", "count", parsed.Duplicates)
	}

	dataset := &ballot.Election{
		Election:        e.Election,
		Name:            e.Name,
		TotalStimmen:    e.TotalStimmen,
		MaxPerCandidate: e.MaxPerCandidate,
		Parties:         parsed.Parties,
	}
	dataset.Finalize(Prefix(e))

	raw, err := ballot.Marshal(dataset)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", e.Slug, err)
	}

	res := &Result{
		Election:   dataset,
		Report:     report.Check(dataset, in.Table),
		Output:     req.Home.OutputPath(OutputFile(e)),
		Duplicates: parsed.Duplicates,
		Stopped:    parsed.Stopped,
		Notes:      parsed.Notes,
	}
	for _, w := range res.Report.Warnings() {
		log.Warn(w)
	}

	if req.DryRun {
		log.Info("dry run, dataset not written", "candidates", res.Report.Total)
		return res, nil
	}
	if err := ballot.WriteBytes(res.Output, raw); err != nil {
		return nil, err
	}
	res.Written = true
	log.Info("wrote dataset", "path", res.Output, "parties", len(dataset.Parties), "candidates", res.Report.Total)
	return res, nil
}
