package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/wahlzettel/internal/config"
	"github.com/jackzampolin/wahlzettel/internal/output"
	"github.com/jackzampolin/wahlzettel/internal/pipeline"
	"github.com/jackzampolin/wahlzettel/internal/report"
	"github.com/jackzampolin/wahlzettel/internal/svcctx"
)

var (
	parseWatch  bool
	parseDryRun bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <election>",
	Short: "Extract an election's candidate lists and write its dataset",
	Long: `Parse the configured source documents of one election with its parser
strategy, check the result against the gazette party table and write the
dataset to public/data/.

Count mismatches and empty lists are reported but do not fail the run; a
missing source document or an unknown strategy does.

With --watch the election is parsed again every time the config file is
saved, which makes tuning the layout options interactive.

Examples:
  wahlzettel parse frankfurt-stvv
  wahlzettel parse marburg-kav --dry-run
  wahlzettel parse darmstadt-stvv --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := electionArg(cmd, args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := parseOnce(ctx, e); err != nil {
			return err
		}
		if !parseWatch {
			return nil
		}
		return watch(ctx, e.Slug)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseWatch, "watch", false, "rerun whenever the config file changes")
	parseCmd.Flags().BoolVar(&parseDryRun, "dry-run", false, "report without writing the dataset")
	rootCmd.AddCommand(parseCmd)
}

func parseOnce(ctx context.Context, e config.Election) error {
	s := svcctx.ServicesFrom(ctx)
	res, err := pipeline.Run(ctx, pipeline.Request{
		Election: e,
		Home:     s.Home,
		Logger:   s.Logger,
		DryRun:   parseDryRun,
	})
	if err != nil {
		return err
	}
	if format.Structured() {
		return output.Write(os.Stdout, format, res)
	}
	report.Render(os.Stdout, res.Report)
	return nil
}

// watch reruns the election on every config change until ctx ends. A run
// that fails is logged and the watch goes on.
func watch(ctx context.Context, slug string) error {
	s := svcctx.ServicesFrom(ctx)
	if s.Config.ConfigFileUsed() == "" {
		return errors.New("--watch needs a config file")
	}

	changed := make(chan *config.Config, 1)
	s.Config.OnChange(func(cfg *config.Config) {
		select {
		case changed <- cfg:
		default:
		}
	})
	s.Config.WatchConfig(func(err error) {
		s.Logger.Error("config reload failed", "error", err)
	})
	s.Logger.Info("watching config", "file", s.Config.ConfigFileUsed())

	for {
		select {
		case <-ctx.Done():
			return nil
		case cfg := <-changed:
			e, err := cfg.Election(slug)
			if err != nil {
				s.Logger.Error("election gone from config", "election", slug)
				continue
			}
			if err := parseOnce(ctx, e); err != nil {
				s.Logger.Error("parse failed", "election", slug, "error", err)
			}
		}
	}
}
