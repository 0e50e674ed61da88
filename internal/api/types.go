package api

import (
	"ideavault/internal/models"
	"ideavault/internal/proof"
)

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// IdeaSubmitRequest defines the payload for submitting an idea.
type IdeaSubmitRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Status        string   `json:"status,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	AttachmentRef string   `json:"attachment_ref,omitempty"`
}

// IdeaResponse wraps an idea with its tags.
type IdeaResponse struct {
	models.IdeaRecord
	Tags []string `json:"tags"`
}

// FeedResponse is one page of the public feed. NextCursor is empty on
// the last page.
type FeedResponse struct {
	Ideas      []IdeaResponse `json:"ideas"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// StatsResponse is the response from GET /v1/stats.
type StatsResponse struct {
	TotalIdeas   int            `json:"total_ideas"`
	PublicIdeas  int            `json:"public_ideas"`
	TotalUsers   int            `json:"total_users"`
	StatusCounts map[string]int `json:"status_counts,omitempty"`
}

// CertificateResponse wraps a proof certificate.
type CertificateResponse struct {
	Certificate proof.Certificate `json:"certificate"`
}

// VerifyRequest defines the payload for certificate verification.
type VerifyRequest struct {
	Certificate proof.Certificate `json:"certificate"`
}

// Verification results for POST /v1/certificates/verify.
const (
	VerifyResultValid   = "valid"
	VerifyResultStale   = "stale"
	VerifyResultInvalid = "invalid"
)

// VerifyResponse reports the outcome of a verification.
type VerifyResponse struct {
	Valid  bool   `json:"valid"`
	Result string `json:"result"`
	Reason string `json:"reason,omitempty"`
}

// InfoResponse is the response from GET /v1/info.
type InfoResponse struct {
	SchemaVersion int            `json:"schema_version"`
	IdeaCounts    map[string]int `json:"idea_counts"`
	TotalIdeas    int            `json:"total_ideas"`
}

// LoginRequest defines the payload for POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries a fresh session token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// AttachmentUploadResponse is the response from POST /v1/attachments.
// Ref is ready to use as an idea's attachment_ref.
type AttachmentUploadResponse struct {
	Digest    string `json:"digest"`
	SizeBytes int64  `json:"size_bytes"`
	MediaType string `json:"media_type,omitempty"`
	Ref       string `json:"ref"`
}
