package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ideavault/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "ideavault",
		Short: "Ideavault is a timestamped vault for ideas with proof of priority",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newSubmitCmd(cfg, &jsonOutput),
		newShowCmd(cfg, &jsonOutput),
		newListCmd(cfg, &jsonOutput),
		newFeedCmd(cfg, &jsonOutput),
		newRevealCmd(cfg, &jsonOutput),
		newCertCmd(cfg, &jsonOutput),
		newStatsCmd(cfg, &jsonOutput),
		newTagsCmd(cfg, &jsonOutput),
		newInfoCmd(cfg, &jsonOutput),
		newAttachCmd(cfg, &jsonOutput),
		newImportCmd(cfg, &jsonOutput),
		newExportCmd(cfg, &jsonOutput),
		newConfigCmd(cfg),
		newUserCmd(cfg, &jsonOutput),
		newLoginCmd(cfg, &jsonOutput),
		newLogoutCmd(cfg),
	)

	return cmd
}
