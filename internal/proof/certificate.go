package proof

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"ideavault/internal/models"
)

const (
	certificatePlatform = "ideavault"
	certificateVersion  = "1"
)

// Certificate is a self-contained, independently verifiable document
// asserting an idea's state at issuance time. Integrity covers every
// other field, so any post-issuance mutation is detectable offline
// without consulting the store.
type Certificate struct {
	CertificateID string `json:"certificate_id"`
	IdeaID        string `json:"idea_id"`
	Owner         string `json:"owner"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	IsRevealed    bool   `json:"is_revealed"`
	ProofHash     string `json:"proof_hash"`
	CreatedAt     int64  `json:"created_at"`
	RevealedAt    *int64 `json:"revealed_at,omitempty"`
	GeneratedAt   int64  `json:"generated_at"`
	Platform      string `json:"platform"`
	Version       string `json:"version"`
	Integrity     string `json:"integrity"`
}

// Issue mints a certificate for a record. generatedAt is epoch
// milliseconds; it is not persisted on the record.
func Issue(idea *models.IdeaRecord, generatedAt int64) (Certificate, error) {
	if idea == nil {
		return Certificate{}, fmt.Errorf("idea is required")
	}

	cert := Certificate{
		CertificateID: uuid.NewString(),
		IdeaID:        idea.ID,
		Owner:         idea.Owner,
		Title:         idea.Title,
		Status:        string(idea.Status),
		IsRevealed:    idea.IsRevealed,
		ProofHash:     idea.ProofHash,
		CreatedAt:     idea.CreatedAt,
		RevealedAt:    idea.RevealedAt,
		GeneratedAt:   generatedAt,
		Platform:      certificatePlatform,
		Version:       certificateVersion,
	}
	cert.Integrity = integrity(cert)
	return cert, nil
}

// Verify checks the certificate's internal consistency: the integrity
// value must match a recomputation over the certificate's own fields.
// It does not consult the live record.
func Verify(cert Certificate) bool {
	if cert.Integrity == "" {
		return false
	}
	return integrity(cert) == cert.Integrity
}

func integrity(cert Certificate) string {
	h := sha256.New()
	writeField(h, []byte(cert.CertificateID))
	writeField(h, []byte(cert.IdeaID))
	writeField(h, []byte(cert.Owner))
	writeField(h, []byte(cert.Title))
	writeField(h, []byte(cert.Status))

	revealed := byte(0)
	if cert.IsRevealed {
		revealed = 1
	}
	writeField(h, []byte{revealed})

	writeField(h, []byte(cert.ProofHash))
	writeField(h, millisField(cert.CreatedAt))
	if cert.RevealedAt != nil {
		writeField(h, millisField(*cert.RevealedAt))
	} else {
		writeField(h, nil)
	}
	writeField(h, millisField(cert.GeneratedAt))
	writeField(h, []byte(cert.Platform))
	writeField(h, []byte(cert.Version))
	return HashPrefix + hex.EncodeToString(h.Sum(nil))
}

func millisField(ms int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(ms))
	return b[:]
}
