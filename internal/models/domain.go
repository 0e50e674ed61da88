package models

import (
	"fmt"
	"regexp"
	"strings"
)

// IdeaStatus defines the privacy states of an idea. Exactly three values
// exist; anything else is rejected at the boundary.
type IdeaStatus string

const (
	StatusPublic      IdeaStatus = "public"
	StatusPrivate     IdeaStatus = "private"
	StatusRevealLater IdeaStatus = "reveal_later"
)

const (
	TitleMaxChars       = 200
	DescriptionMaxChars = 10000
	TagMaxChars         = 40
	MaxTagsPerIdea      = 16
)

var validStatuses = map[IdeaStatus]struct{}{
	StatusPublic:      {},
	StatusPrivate:     {},
	StatusRevealLater: {},
}

// attachmentRefPattern matches a content-addressed attachment reference.
var attachmentRefPattern = regexp.MustCompile(`^sha256:[0-9a-f]{64}$`)

func IsValidStatus(status IdeaStatus) bool {
	_, ok := validStatuses[status]
	return ok
}

// ParseStatus normalizes and validates a raw status value. Both the wire
// form ("reveal_later") and the display form ("RevealLater") are accepted.
func ParseStatus(raw string) (IdeaStatus, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	switch strings.ToLower(value) {
	case "public":
		return StatusPublic, nil
	case "private":
		return StatusPrivate, nil
	case "reveal_later", "reveallater", "reveal-later":
		return StatusRevealLater, nil
	}
	return "", fmt.Errorf("invalid status: %s", value)
}

// AttachmentRef builds the reference form of a bare sha256 digest.
func AttachmentRef(digest string) string {
	return "sha256:" + digest
}

// IsValidAttachmentRef reports whether ref is a well-formed sha256
// content reference. The empty ref is valid: attachments are optional.
func IsValidAttachmentRef(ref string) bool {
	if ref == "" {
		return true
	}
	return attachmentRefPattern.MatchString(ref)
}

// CanReveal reports whether the one-shot reveal transition is legal from
// the idea's current state.
func (i *IdeaRecord) CanReveal() bool {
	return i.Status == StatusRevealLater && !i.IsRevealed
}

// Visible reports whether caller may see the idea's content.
func (i *IdeaRecord) Visible(caller string) bool {
	if i.Status == StatusPublic {
		return true
	}
	return caller != "" && caller == i.Owner
}
