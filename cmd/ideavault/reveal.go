package main

import (
	"github.com/spf13/cobra"

	"ideavault/internal/api"
	"ideavault/internal/config"
)

func newRevealCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "reveal <id>",
		Short: "Reveal an idea held back with reveal_later",
		Args:  requireExactlyOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.RevealIdea(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				revealedAt := resp.CreatedAt
				if resp.RevealedAt != nil {
					revealedAt = *resp.RevealedAt
				}
				return writePlain("revealed %s at %s\n", resp.ID, formatMillis(revealedAt))
			})
		},
	}
}
