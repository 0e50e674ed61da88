package server

import (
	"strings"
	"testing"

	"ideavault/internal/models"
)

func TestValidateID(t *testing.T) {
	valid := []string{"iv-0000aaaa", "iv-z9z9z9z9"}
	invalid := []string{"", "iv-", "iv-SHOUT00", "iv-short", "iv-toolong00", "xx-0000aaaa", "iv-0000aaaa/extra"}

	for _, id := range valid {
		if !validateID(id) {
			t.Fatalf("expected %q to be valid", id)
		}
	}
	for _, id := range invalid {
		if validateID(id) {
			t.Fatalf("expected %q to be invalid", id)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	status, err := normalizeStatus("")
	if err != nil || status != models.StatusPrivate {
		t.Fatalf("empty status should default to private, got %v %v", status, err)
	}
	status, err = normalizeStatus("RevealLater")
	if err != nil || status != models.StatusRevealLater {
		t.Fatalf("display form should parse, got %v %v", status, err)
	}
	if _, err := normalizeStatus("secret"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestNormalizeTags(t *testing.T) {
	tags, err := normalizeTags([]string{" AI ", "ai", "robotics", ""})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(tags) != 2 || tags[0] != "ai" || tags[1] != "robotics" {
		t.Fatalf("unexpected tags: %v", tags)
	}

	if _, err := normalizeTags([]string{"bad tag"}); err == nil {
		t.Fatal("expected error for tag with spaces")
	}
	if _, err := normalizeTags([]string{strings.Repeat("a", models.TagMaxChars+1)}); err == nil {
		t.Fatal("expected error for oversize tag")
	}

	many := make([]string, models.MaxTagsPerIdea+1)
	for i := range many {
		many[i] = "tag" + strings.Repeat("x", i%5)
	}
	if _, err := normalizeTags(many); err == nil {
		t.Fatal("expected error for too many tags")
	}

	tags, err = normalizeTags(nil)
	if err != nil || tags != nil {
		t.Fatalf("nil input should stay nil, got %v %v", tags, err)
	}
}
