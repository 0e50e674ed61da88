package models

// IdeaRecord is a content-timestamped idea. All fields except Status,
// IsRevealed, and RevealedAt are immutable after submission; there is no
// edit or delete operation anywhere in the system.
type IdeaRecord struct {
	ID            string     `json:"id"`
	Owner         string     `json:"owner"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AttachmentRef string     `json:"attachment_ref,omitempty"`
	Status        IdeaStatus `json:"status"`
	IsRevealed    bool       `json:"is_revealed"`
	ProofHash     string     `json:"proof_hash"`
	CreatedAt     int64      `json:"created_at"`
	RevealedAt    *int64     `json:"revealed_at,omitempty"`
}
