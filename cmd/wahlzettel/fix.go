package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/wahlzettel/internal/output"
	"github.com/jackzampolin/wahlzettel/internal/pipeline"
	"github.com/jackzampolin/wahlzettel/internal/report"
	"github.com/jackzampolin/wahlzettel/internal/svcctx"
)

var fixPatch string

var fixCmd = &cobra.Command{
	Use:   "fix <election>",
	Short: "Apply a boundary-fix patch to an election's dataset",
	Long: `Apply the hand-verified corrections of a JSON5 patch file to a dataset
written by parse, then re-validate and overwrite it.

Entries guarded by ifCount are skipped once applied, so a patch can be
replayed after every parse.

Examples:
  wahlzettel fix frankfurt-stvv
  wahlzettel fix frankfurt-stvv --patch patches/frankfurt-stvv.json5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := electionArg(cmd, args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		s := svcctx.ServicesFrom(ctx)

		res, err := pipeline.Fix(ctx, pipeline.FixRequest{
			Election: e,
			Home:     s.Home,
			Patch:    fixPatch,
			Logger:   s.Logger,
		})
		if err != nil {
			return err
		}
		if format.Structured() {
			return output.Write(os.Stdout, format, res)
		}
		report.Render(os.Stdout, res.Report)
		return nil
	},
}

func init() {
	fixCmd.Flags().StringVar(&fixPatch, "patch", "", "patch file (default: the election's configured patch)")
	rootCmd.AddCommand(fixCmd)
}
