package store

import (
	"fmt"
	"regexp"
	"testing"
)

func TestGenerateIdeaIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^iv-[0-9a-z]{8}$`)
	never := func(string) (bool, error) { return false, nil }

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := GenerateIdeaID(never)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("id %q does not match expected format", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestGenerateIdeaIDRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return calls <= 3, nil
	}

	id, err := GenerateIdeaID(exists)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if id == "" {
		t.Fatal("expected an id after retries")
	}
	if calls != 4 {
		t.Fatalf("expected 4 existence checks, got %d", calls)
	}
}

func TestGenerateIdeaIDGivesUp(t *testing.T) {
	always := func(string) (bool, error) { return true, nil }
	if _, err := GenerateIdeaID(always); err == nil {
		t.Fatal("expected error when every candidate collides")
	}
}

func TestGenerateIdeaIDPropagatesError(t *testing.T) {
	boom := func(string) (bool, error) { return false, fmt.Errorf("db down") }
	if _, err := GenerateIdeaID(boom); err == nil {
		t.Fatal("expected lookup error to propagate")
	}
}
