package main

import (
	"github.com/spf13/cobra"

	"ideavault/internal/api"
	"ideavault/internal/config"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your ideas, or another owner's public ideas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.ListIdeas(cmd.Context(), owner)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeIdeaList(resp)
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner to list (default: configured owner)")
	return cmd
}
