package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/wahlzettel/internal/config"
	"github.com/jackzampolin/wahlzettel/internal/svcctx"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the workspace layout and a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := svcctx.ServicesFrom(cmd.Context())
		if err := s.Home.EnsureExists(); err != nil {
			return err
		}
		path := s.Home.ConfigPath()
		if s.Home.ConfigExists() && !initForce {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		s.Logger.Info("wrote config", "path", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
