package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
	"github.com/jackzampolin/wahlzettel/internal/output"
	"github.com/jackzampolin/wahlzettel/internal/pipeline"
	"github.com/jackzampolin/wahlzettel/internal/report"
	"github.com/jackzampolin/wahlzettel/internal/svcctx"
)

var (
	validateElection string
	legacyPrefix     string
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a dataset against the schema and a party table",
	Long: `Validate an existing dataset file. The file must match the dataset
schema; with --election its party counts are also checked against that
election's gazette table.

Examples:
  wahlzettel validate public/data/stvv-candidates.json --election frankfurt-stvv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := svcctx.ServicesFrom(cmd.Context())

		var table ballot.PartyTable
		if validateElection != "" {
			e, err := s.Config.Election(validateElection)
			if err != nil {
				return err
			}
			table = e.PartyTable()
		}

		r, err := pipeline.Validate(s.Home.Resolve(args[0]), table)
		if err != nil {
			return err
		}
		if format.Structured() {
			return output.Write(os.Stdout, format, r)
		}
		report.Render(os.Stdout, r)
		if !r.Consistent() {
			return fmt.Errorf("%s: positions are not consistent", args[0])
		}
		return nil
	},
}

var normalizeLegacyCmd = &cobra.Command{
	Use:   "normalize-legacy <file>",
	Short: "Convert a dataset in the older per-city layout, in place",
	Long: `Rewrite a legacy dataset (parties keyed by id, candidates with a single
"Last, First" name) into the canonical layout.

Without --prefix the prefix configured for the file under legacy: is used.

Examples:
  wahlzettel normalize-legacy public/data/kassel-stvv.json --prefix ks-stvv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := svcctx.ServicesFrom(cmd.Context())

		prefix := legacyPrefix
		if prefix == "" {
			p, ok := s.Config.Get().LegacyPrefix(filepath.Base(args[0]))
			if !ok {
				return fmt.Errorf("no prefix configured for %s, pass --prefix", args[0])
			}
			prefix = p
		}

		path := s.Home.Resolve(args[0])
		e, err := pipeline.NormalizeLegacy(path, prefix)
		if err != nil {
			return err
		}
		s.Logger.Info("normalized legacy dataset", "path", path, "prefix", prefix,
			"parties", len(e.Parties), "candidates", e.TotalCandidates())
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateElection, "election", "", "check counts against this election's party table")
	normalizeLegacyCmd.Flags().StringVar(&legacyPrefix, "prefix", "", "candidate id prefix")
	rootCmd.AddCommand(validateCmd, normalizeLegacyCmd)
}
