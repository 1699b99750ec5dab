package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/wahlzettel/internal/fetch"
	"github.com/jackzampolin/wahlzettel/internal/output"
	"github.com/jackzampolin/wahlzettel/internal/pipeline"
	"github.com/jackzampolin/wahlzettel/internal/svcctx"
)

var fetchForce bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <election>",
	Short: "Download an election's source documents",
	Long: `Download every source of an election that carries a url into sources/.
Files already present are kept unless --force is given.

Examples:
  wahlzettel fetch frankfurt-stvv
  wahlzettel fetch wiesbaden-stvv --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := electionArg(cmd, args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		s := svcctx.ServicesFrom(ctx)

		f := fetch.New(s.Config.Get().Fetch, s.Logger)
		f.Force = fetchForce

		var results []fetch.Result
		for _, src := range e.Sources {
			if src.URL == "" {
				continue
			}
			name := pipeline.SourceFile(src)
			if name == "" {
				return fmt.Errorf("source %s has no file name, set path", src.URL)
			}
			res, err := f.Fetch(ctx, src.URL, s.Home.SourcePath(name))
			if err != nil {
				return err
			}
			results = append(results, res)
		}
		if len(results) == 0 {
			s.Logger.Warn("no source with a url", "election", e.Slug)
		}

		if format.Structured() {
			return output.Write(os.Stdout, format, results)
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"File", "Bytes", "Status"})
		for _, r := range results {
			status := "downloaded"
			if r.Skipped {
				status = "present"
			}
			t.AppendRow(table.Row{r.Path, r.Bytes, status})
		}
		t.Render()
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "download even if the file exists")
	rootCmd.AddCommand(fetchCmd)
}
