package proof

import (
	"testing"

	"ideavault/internal/models"
)

func testIdea() *models.IdeaRecord {
	revealedAt := int64(1700000500000)
	return &models.IdeaRecord{
		ID:          "iv-ab12cd34",
		Owner:       "u1",
		Title:       "A title",
		Description: "A description",
		Status:      models.StatusPublic,
		IsRevealed:  true,
		ProofHash:   Fingerprint("A title", "A description", "", 1700000000000, "u1"),
		CreatedAt:   1700000000000,
		RevealedAt:  &revealedAt,
	}
}

func TestIssueAndVerify(t *testing.T) {
	cert, err := Issue(testIdea(), 1700001000000)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cert.CertificateID == "" {
		t.Fatal("expected certificate id")
	}
	if cert.GeneratedAt != 1700001000000 {
		t.Fatalf("expected generated_at to be preserved, got %d", cert.GeneratedAt)
	}
	if !Verify(cert) {
		t.Fatal("freshly issued certificate failed verification")
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	cert, err := Issue(testIdea(), 1700001000000)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	mutations := map[string]func(c *Certificate){
		"idea_id":      func(c *Certificate) { c.IdeaID = "iv-zz99zz99" },
		"owner":        func(c *Certificate) { c.Owner = "mallory" },
		"title":        func(c *Certificate) { c.Title = "Stolen title" },
		"status":       func(c *Certificate) { c.Status = "private" },
		"is_revealed":  func(c *Certificate) { c.IsRevealed = false },
		"proof_hash":   func(c *Certificate) { c.ProofHash = HashPrefix + "00" },
		"created_at":   func(c *Certificate) { c.CreatedAt++ },
		"revealed_at":  func(c *Certificate) { c.RevealedAt = nil },
		"generated_at": func(c *Certificate) { c.GeneratedAt++ },
		"integrity":    func(c *Certificate) { c.Integrity = HashPrefix + "00" },
	}
	for field, mutate := range mutations {
		tampered := cert
		mutate(&tampered)
		if Verify(tampered) {
			t.Errorf("tampered %s passed verification", field)
		}
	}
}

func TestVerifyEmptyIntegrity(t *testing.T) {
	cert, _ := Issue(testIdea(), 1700001000000)
	cert.Integrity = ""
	if Verify(cert) {
		t.Fatal("certificate without integrity must not verify")
	}
}

func TestIssueDistinguishesNilRevealedAt(t *testing.T) {
	idea := testIdea()
	idea.RevealedAt = nil
	idea.IsRevealed = false
	idea.Status = models.StatusRevealLater

	cert, err := Issue(idea, 1700001000000)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cert.RevealedAt != nil {
		t.Fatal("expected nil revealed_at")
	}
	if !Verify(cert) {
		t.Fatal("certificate with nil revealed_at failed verification")
	}
}
