package main

import (
	"net/url"

	"github.com/spf13/cobra"

	"ideavault/internal/api"
	"ideavault/internal/config"
)

func newFeedCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		query  string
		tag    string
		cursor string
		limit  int
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Browse the public idea feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				values := url.Values{}
				setIfNotEmpty(values, "q", query)
				setIfNotEmpty(values, "tag", tag)
				setIfNotEmpty(values, "cursor", cursor)
				if limit > 0 {
					values.Set("limit", intToString(limit))
				}

				ideas := []api.IdeaResponse{}
				nextCursor := ""
				for {
					resp, err := client.Feed(cmd.Context(), values)
					if err != nil {
						return err
					}
					ideas = append(ideas, resp.Ideas...)
					nextCursor = resp.NextCursor
					if !all || nextCursor == "" {
						break
					}
					values.Set("cursor", nextCursor)
				}

				if *jsonOutput {
					return writeJSON(api.FeedResponse{Ideas: ideas, NextCursor: nextCursor})
				}
				if err := writeIdeaList(ideas); err != nil {
					return err
				}
				if nextCursor != "" {
					return writePlain("next: %s\n", nextCursor)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search in title and description")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "filter by tag")
	cmd.Flags().StringVar(&cursor, "cursor", "", "resume from a feed cursor")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().BoolVar(&all, "all", false, "follow cursors until the feed is exhausted")
	return cmd
}
