package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ideavault/internal/api"
	"ideavault/internal/config"
)

func newAttachCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{Use: "attach", Short: "Manage evidence attachments"}
	cmd.AddCommand(
		newAttachAddCmd(cfg, jsonOutput),
		newAttachGetCmd(cfg),
	)
	return cmd
}

func newAttachAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var mediaType string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Upload a file and print its attachment ref",
		Args:  requireExactlyArgs(1, "path is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.UploadAttachment(cmd.Context(), file, strings.TrimSpace(mediaType))
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("%s\n", resp.Ref)
			})
		},
	}

	cmd.Flags().StringVar(&mediaType, "media-type", "", "content type of the upload")
	return cmd
}

func newAttachGetCmd(cfg *config.Config) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "get <digest>",
		Short: "Download attachment content by digest",
		Args:  requireExactlyArgs(1, "digest is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			digest := strings.TrimPrefix(args[0], "sha256:")
			return withClient(cfg, func(client *api.Client) error {
				w := os.Stdout
				if outputPath != "" {
					f, err := os.Create(outputPath)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return client.DownloadAttachment(cmd.Context(), digest, w)
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	return cmd
}
