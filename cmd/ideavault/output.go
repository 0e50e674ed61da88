package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"ideavault/internal/api"
	"ideavault/internal/format"
	"ideavault/internal/models"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeIdeaList(ideas []api.IdeaResponse) error {
	for _, idea := range ideas {
		if err := writePlain("%s\n", formatIdeaLine(idea)); err != nil {
			return err
		}
	}
	return nil
}

func writeIdeaDetail(idea api.IdeaResponse) error {
	lines := []string{
		fmt.Sprintf("id: %s", idea.ID),
		fmt.Sprintf("title: %s", idea.Title),
		fmt.Sprintf("status: %s", idea.Status),
		fmt.Sprintf("owner: %s", ownerOrAnonymous(idea.Owner)),
		fmt.Sprintf("created_at: %s", formatMillis(idea.CreatedAt)),
		fmt.Sprintf("proof_hash: %s", idea.ProofHash),
	}

	if idea.Description != "" {
		lines = append(lines, fmt.Sprintf("description: %s", idea.Description))
	}
	if idea.AttachmentRef != "" {
		lines = append(lines, fmt.Sprintf("attachment_ref: %s", idea.AttachmentRef))
	}
	if idea.IsRevealed && idea.RevealedAt != nil {
		lines = append(lines, fmt.Sprintf("revealed_at: %s", formatMillis(*idea.RevealedAt)))
	}
	if len(idea.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("tags: %s", strings.Join(idea.Tags, ", ")))
	}

	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatIdeaLine(idea api.IdeaResponse) string {
	marker := "●"
	if idea.Status == models.StatusPublic {
		marker = "○"
	}
	line := fmt.Sprintf("%s %s [%s] %s - %s", marker, idea.ID, idea.Status, formatMillis(idea.CreatedAt), idea.Title)
	if len(idea.Tags) > 0 {
		line += " #" + strings.Join(idea.Tags, " #")
	}
	return line
}

func ownerOrAnonymous(owner string) string {
	if owner == "" {
		return "(anonymous)"
	}
	return owner
}

func formatMillis(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}
