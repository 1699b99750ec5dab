package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/wahlzettel/internal/output"
	"github.com/jackzampolin/wahlzettel/internal/pipeline"
	"github.com/jackzampolin/wahlzettel/internal/svcctx"
)

// electionSummary is one row of the elections listing.
type electionSummary struct {
	Slug     string `json:"slug" yaml:"slug"`
	Title    string `json:"title" yaml:"title"`
	Strategy string `json:"strategy" yaml:"strategy"`
	Parties  int    `json:"parties" yaml:"parties"`
	Output   string `json:"output" yaml:"output"`
	Patch    string `json:"patch,omitempty" yaml:"patch,omitempty"`
}

var electionsCmd = &cobra.Command{
	Use:   "elections",
	Short: "List the configured elections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := svcctx.ConfigFrom(cmd.Context()).Get()

		var rows []electionSummary
		for _, name := range cfg.ElectionNames() {
			e := cfg.Elections[name]
			rows = append(rows, electionSummary{
				Slug:     name,
				Title:    e.Title,
				Strategy: e.Strategy,
				Parties:  len(e.Parties),
				Output:   pipeline.OutputFile(e),
				Patch:    e.Patch,
			})
		}

		if format.Structured() {
			return output.Write(os.Stdout, format, rows)
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Election", "Title", "Strategy", "Parties", "Output"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.Slug, r.Title, r.Strategy, r.Parties, r.Output})
		}
		t.AppendFooter(table.Row{"", "", "", "", len(rows)})
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(electionsCmd)
}
