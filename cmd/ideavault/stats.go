package main

import (
	"strings"

	"github.com/spf13/cobra"

	"ideavault/internal/api"
	"ideavault/internal/config"
)

func newStatsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show vault statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				if err := writePlain("ideas: %d (%d public)\nowners: %d\n",
					resp.TotalIdeas, resp.PublicIdeas, resp.TotalUsers); err != nil {
					return err
				}
				for _, status := range []string{"public", "private", "reveal_later"} {
					if count, ok := resp.StatusCounts[status]; ok {
						if err := writePlain("  %s: %d\n", status, count); err != nil {
							return err
						}
					}
				}
				return nil
			})
		},
	}
}

func newTagsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags used on public ideas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				tags, err := client.ListAllTags(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(tags)
				}
				if len(tags) == 0 {
					return nil
				}
				return writePlain("%s\n", strings.Join(tags, "\n"))
			})
		},
	}
}

func newInfoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server schema and idea counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("schema_version: %d\ntotal_ideas: %d\n", resp.SchemaVersion, resp.TotalIdeas)
			})
		},
	}
}
