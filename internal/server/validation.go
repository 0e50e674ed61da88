package server

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"ideavault/internal/models"
)

var (
	ideaIDPattern = regexp.MustCompile(`^iv-[0-9a-z]{8}$`)
	tagPattern    = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
)

func validateID(id string) bool {
	return ideaIDPattern.MatchString(id)
}

// normalizeStatus parses a requested status, defaulting to private so a
// submission never publishes by accident.
func normalizeStatus(raw string) (models.IdeaStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return models.StatusPrivate, nil
	}
	status, err := models.ParseStatus(raw)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidStatus)
	}
	return status, nil
}

// normalizeTags lowercases, trims, and dedupes tags preserving order.
func normalizeTags(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if len(raw) > models.MaxTagsPerIdea {
		return nil, badRequestCode(fmt.Errorf("too many tags (max %d)", models.MaxTagsPerIdea), ErrCodeInvalidTag)
	}

	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > models.TagMaxChars {
			return nil, badRequestCode(fmt.Errorf("tag too long (max %d chars)", models.TagMaxChars), ErrCodeInvalidTag)
		}
		if !tagPattern.MatchString(tag) {
			return nil, badRequestCode(fmt.Errorf("invalid tag: %s", tag), ErrCodeInvalidTag)
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func validateTitle(title string, maxChars int) error {
	if strings.TrimSpace(title) == "" {
		return badRequestCode(fmt.Errorf("title is required"), ErrCodeMissingRequired)
	}
	if utf8.RuneCountInString(title) > maxChars {
		return badRequestCode(fmt.Errorf("title too long (max %d chars)", maxChars), ErrCodeInvalidArgument)
	}
	return nil
}

func validateDescription(description string, maxChars int) error {
	if strings.TrimSpace(description) == "" {
		return badRequestCode(fmt.Errorf("description is required"), ErrCodeMissingRequired)
	}
	if utf8.RuneCountInString(description) > maxChars {
		return badRequestCode(fmt.Errorf("description too long (max %d chars)", maxChars), ErrCodeInvalidArgument)
	}
	return nil
}

func validateAttachmentRef(ref string) error {
	if !models.IsValidAttachmentRef(ref) {
		return badRequestCode(fmt.Errorf("invalid attachment_ref"), ErrCodeInvalidAttachmentRef)
	}
	return nil
}
