package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/wahlzettel/internal/config"
	"github.com/jackzampolin/wahlzettel/internal/home"
	"github.com/jackzampolin/wahlzettel/internal/output"
	"github.com/jackzampolin/wahlzettel/internal/svcctx"
	"github.com/jackzampolin/wahlzettel/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string

	format output.Format
)

var rootCmd = &cobra.Command{
	Use:   "wahlzettel",
	Short: "Candidate lists for German municipal elections",
	Long: `Wahlzettel turns the officially published candidate lists of German
municipal elections into one normalized JSON dataset per election.

Each configured election names its source documents, the parser strategy
for their layout and the gazette party table the result is checked against.

  wahlzettel fetch frankfurt-stvv     # download the announcement
  wahlzettel parse frankfurt-stvv     # extract, check and write the dataset
  wahlzettel fix frankfurt-stvv       # apply hand-verified corrections`,
	Version:           version.GitRelease,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./wahlzettel.yaml or ~/.wahlzettel/wahlzettel.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "workspace directory (default: config workspace, else the current directory)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "text", "output format: text, yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error",
	)

	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and attaches the run's services to the
// command context.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if format, err = output.ParseFormat(outputFormat); err != nil {
		return err
	}
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}

	cfg, err := config.NewManager(cfgFile)
	if err != nil {
		return err
	}
	root := homeDir
	if root == "" {
		root = cfg.Get().Workspace
	}
	h, err := home.New(root)
	if err != nil {
		return err
	}

	s := svcctx.New(logger, h, cfg)
	if used := cfg.ConfigFileUsed(); used != "" {
		s.Logger.Debug("loaded config", "file", used)
	}
	cmd.SetContext(svcctx.WithServices(cmd.Context(), s))
	return nil
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

// electionArg resolves the single positional election argument. A missing
// or unknown name prints the usage and the configured elections.
func electionArg(cmd *cobra.Command, args []string) (config.Election, error) {
	cfg := svcctx.ConfigFrom(cmd.Context()).Get()
	if len(args) == 1 {
		e, err := cfg.Election(args[0])
		if err == nil {
			return e, nil
		}
	}
	cmd.PrintErrln(cmd.UsageString())
	cmd.PrintErrf("Available elections:\n  %s\n", strings.Join(cfg.ElectionNames(), "\n  "))
	if len(args) == 1 {
		return config.Election{}, fmt.Errorf("%w: %q", config.ErrUnknownElection, args[0])
	}
	return config.Election{}, fmt.Errorf("expected one election name")
}
