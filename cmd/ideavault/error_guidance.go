package main

import (
	"context"
	"errors"
	"net"

	"ideavault/internal/api"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "unauthorized":
			lines = append(lines,
				"hint: verify IDEAVAULT_API_TOKEN or log in with: ideavault login <username>")
		case "resource_exhausted":
			lines = append(lines, "hint: retry shortly or reduce concurrent heavy requests (export/upload).")
		case "invalid_transition":
			lines = append(lines, "hint: only unrevealed reveal_later ideas can be revealed, and only once.")
		}
		if apiErr.Code == "" {
			lines = append(lines, "hint: verify IDEAVAULT_API_URL points to an ideavault server.")
		}
		if apiErr.Status >= 500 {
			lines = append(lines, "hint: server returned an internal error; check server logs for details.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase IDEAVAULT_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure an ideavault server is running at IDEAVAULT_API_URL.",
			"hint: start local server manually with: ideavault srv",
			"hint: you can increase IDEAVAULT_HTTP_TIMEOUT for slower environments.",
		)
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
