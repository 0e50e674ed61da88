package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ideavault/internal/api"
	"ideavault/internal/config"
)

func newImportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		inputPath string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import ideas from a markdown or NDJSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return errors.New("--input is required")
			}

			requests, err := readImportFile(inputPath)
			if err != nil {
				return err
			}
			if len(requests) == 0 {
				return errors.New("no records found in input file")
			}

			if dryRun {
				if *jsonOutput {
					return writeJSON(map[string]any{"would_import": len(requests)})
				}
				return writePlain("would import %d ideas\n", len(requests))
			}

			return withClient(cfg, func(client *api.Client) error {
				responses := make([]api.IdeaResponse, 0, len(requests))
				for i, req := range requests {
					resp, err := client.SubmitIdea(cmd.Context(), req)
					if err != nil {
						return fmt.Errorf("record %d: %w", i+1, err)
					}
					responses = append(responses, resp)
				}

				if *jsonOutput {
					return writeJSON(responses)
				}
				return writePlain("imported: %d\n", len(responses))
			})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input NDJSON file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and count without submitting")
	return cmd
}

// readImportFile dispatches on file type: markdown files carry YAML
// front matter defaults and one idea title per list item; anything else
// is NDJSON, one record per line.
func readImportFile(path string) ([]api.IdeaSubmitRequest, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".md" || ext == ".markdown" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		frontMatter, items, err := parseMarkdown(string(data))
		if err != nil {
			return nil, err
		}
		defaults := frontMatterToRequest(frontMatter)
		requests := make([]api.IdeaSubmitRequest, 0, len(items))
		for _, item := range items {
			req := defaults
			req.Title = item
			requests = append(requests, req)
		}
		return requests, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readImportRecords(f)
}

// readImportRecords accepts both export output and hand-written submit
// requests; only the submittable fields are carried over. Identity,
// timestamps, and proof hashes are always minted fresh on submission.
func readImportRecords(f *os.File) ([]api.IdeaSubmitRequest, error) {
	var requests []api.IdeaSubmitRequest

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec struct {
			Title         string   `json:"title"`
			Description   string   `json:"description"`
			Status        string   `json:"status"`
			Tags          []string `json:"tags"`
			AttachmentRef string   `json:"attachment_ref"`
		}
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		requests = append(requests, api.IdeaSubmitRequest{
			Title:         rec.Title,
			Description:   rec.Description,
			Status:        rec.Status,
			Tags:          rec.Tags,
			AttachmentRef: rec.AttachmentRef,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return requests, nil
}
