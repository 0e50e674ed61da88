package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ideavault/internal/api"
	"ideavault/internal/config"
)

type submitCmdOptions struct {
	description   string
	status        string
	tags          []string
	attachmentRef string
	attachPath    string
	filePath      string
}

func newSubmitCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &submitCmdOptions{}
	cmd := &cobra.Command{
		Use:   "submit <title>",
		Short: "Submit a new idea",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, cfg, opts, jsonOutput, args)
		},
	}

	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "idea description")
	cmd.Flags().StringVarP(&opts.status, "status", "s", "", "visibility: public, private, or reveal_later (default private)")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "tags (repeatable)")
	cmd.Flags().StringVar(&opts.attachmentRef, "attachment-ref", "", "reference to an already uploaded attachment")
	cmd.Flags().StringVar(&opts.attachPath, "attach", "", "file to upload and reference as evidence")
	cmd.Flags().StringVarP(&opts.filePath, "file", "f", "", "markdown file for batch submission")
	return cmd
}

func runSubmit(cmd *cobra.Command, cfg *config.Config, opts *submitCmdOptions, jsonOutput *bool, args []string) error {
	return withClient(cfg, func(client *api.Client) error {
		if opts.filePath != "" {
			return runSubmitFromFile(cmd.Context(), client, opts.filePath, jsonOutput)
		}

		req, err := buildSubmitRequest(cmd.Context(), client, opts, args)
		if err != nil {
			return err
		}

		resp, err := client.SubmitIdea(cmd.Context(), req)
		if err != nil {
			return err
		}
		if *jsonOutput {
			return writeJSON(resp)
		}
		return writePlain("%s %s\n", resp.ID, resp.ProofHash)
	})
}

func buildSubmitRequest(ctx context.Context, client *api.Client, opts *submitCmdOptions, args []string) (api.IdeaSubmitRequest, error) {
	if len(args) == 0 {
		return api.IdeaSubmitRequest{}, errors.New("title is required")
	}
	if opts.attachPath != "" && opts.attachmentRef != "" {
		return api.IdeaSubmitRequest{}, errors.New("--attach and --attachment-ref are mutually exclusive")
	}

	req := api.IdeaSubmitRequest{
		Title:         strings.Join(args, " "),
		Description:   opts.description,
		Status:        opts.status,
		Tags:          opts.tags,
		AttachmentRef: opts.attachmentRef,
	}

	if opts.attachPath != "" {
		ref, err := uploadAttachmentFile(ctx, client, opts.attachPath, "")
		if err != nil {
			return api.IdeaSubmitRequest{}, err
		}
		req.AttachmentRef = ref
	}

	return req, nil
}

func uploadAttachmentFile(ctx context.Context, client *api.Client, path, mediaType string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	resp, err := client.UploadAttachment(ctx, file, mediaType)
	if err != nil {
		return "", err
	}
	return resp.Ref, nil
}

func runSubmitFromFile(ctx context.Context, client *api.Client, filePath string, jsonOutput *bool) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	frontMatter, items, err := parseMarkdown(string(data))
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no list items found in %s", filePath)
	}

	defaults := frontMatterToRequest(frontMatter)
	responses := make([]api.IdeaResponse, 0, len(items))
	for _, item := range items {
		req := defaults
		req.Title = item
		resp, err := client.SubmitIdea(ctx, req)
		if err != nil {
			return fmt.Errorf("submit %q: %w", item, err)
		}
		responses = append(responses, resp)
	}

	if *jsonOutput {
		return writeJSON(responses)
	}
	for _, idea := range responses {
		if err := writePlain("%s\n", idea.ID); err != nil {
			return err
		}
	}
	return nil
}
