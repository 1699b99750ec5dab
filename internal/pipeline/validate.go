package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
	"github.com/jackzampolin/wahlzettel/internal/report"
	"github.com/jackzampolin/wahlzettel/internal/schema"
)

// ErrLegacyFormat is returned when a canonical dataset is expected and the
// file uses the legacy layout.
var ErrLegacyFormat = errors.New("file uses the legacy layout, run normalize-legacy first")

// ErrNotLegacy is returned when normalize-legacy is pointed at a file that
// is already canonical.
var ErrNotLegacy = errors.New("file is not in the legacy layout")

// Validate checks an existing dataset file against the schema and the
// party table.
func Validate(path string, table ballot.PartyTable) (report.Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return report.Report{}, err
	}
	if ballot.IsLegacy(raw) {
		return report.Report{}, fmt.Errorf("%s: %w", path, ErrLegacyFormat)
	}
	if err := schema.Validate(raw); err != nil {
		return report.Report{}, fmt.Errorf("%s: %w", path, err)
	}
	e, err := ballot.Decode(bytes.NewReader(raw))
	if err != nil {
		return report.Report{}, fmt.Errorf("%s: %w", path, err)
	}
	return report.Check(e, table), nil
}

// NormalizeLegacy converts a legacy dataset file to the canonical layout
// in place.
func NormalizeLegacy(path, prefix string) (*ballot.Election, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !ballot.IsLegacy(raw) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotLegacy)
	}
	if err := schema.ValidateAs(schema.Legacy, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	legacy, err := ballot.DecodeLegacy(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	e := ballot.FromLegacy(prefix, legacy)
	out, err := ballot.Marshal(e)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := ballot.WriteBytes(path, out); err != nil {
		return nil, err
	}
	return e, nil
}
