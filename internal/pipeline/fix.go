package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
	"github.com/jackzampolin/wahlzettel/internal/config"
	"github.com/jackzampolin/wahlzettel/internal/home"
	"github.com/jackzampolin/wahlzettel/internal/patch"
	"github.com/jackzampolin/wahlzettel/internal/report"
	"github.com/jackzampolin/wahlzettel/internal/schema"
)

// ErrNoPatch is returned when neither the request nor the election names a
// patch file.
var ErrNoPatch = errors.New("no patch configured")

// FixRequest contains the parameters for applying a patch.
type FixRequest struct {
	Election config.Election
	Home     *home.Dir
	// Patch overrides the election's configured patch file.
	Patch  string
	Logger *slog.Logger
}

// FixResult contains the outcome of a patch run.
type FixResult struct {
	Log    patch.Log     `json:"log"`
	Report report.Report `json:"report"`
	Output string        `json:"output"`
}

// Fix loads the election's dataset, applies the patch, re-validates and
// overwrites the same file.
func Fix(ctx context.Context, req FixRequest) (*FixResult, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}
	e := req.Election
	log = log.With("election", e.Slug)

	patchFile := req.Patch
	if patchFile == "" {
		patchFile = e.Patch
	}
	if patchFile == "" {
		return nil, fmt.Errorf("%s: %w", e.Slug, ErrNoPatch)
	}
	p, err := patch.Load(req.Home.PatchPath(patchFile))
	if err != nil {
		return nil, err
	}
	if p.Election != "" && p.Election != e.Slug {
		return nil, fmt.Errorf("patch is for %q, not %q", p.Election, e.Slug)
	}

	output := req.Home.OutputPath(OutputFile(e))
	dataset, err := ballot.Load(output)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plog, err := patch.Apply(dataset, p, Prefix(e))
	if err != nil {
		return nil, err
	}
	for _, a := range plog {
		log.Info("patch entry", "entry", a.Entry, "party", a.Party, "op", a.Op, "applied", a.Applied, "detail", a.Detail)
	}

	raw, err := ballot.Marshal(dataset)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", e.Slug, err)
	}
	if err := ballot.WriteBytes(output, raw); err != nil {
		return nil, err
	}

	res := &FixResult{Log: plog, Report: report.Check(dataset, e.PartyTable()), Output: output}
	log.Info("patched dataset", "path", output, "applied", plog.Applied(), "candidates", res.Report.Total)
	return res, nil
}
