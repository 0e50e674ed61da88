package store

import (
	"context"
	"database/sql"
)

// Attachment is metadata for one content-addressed blob. The digest is
// the bare sha256 hex; idea records reference it as "sha256:<digest>".
type Attachment struct {
	Digest    string `json:"digest"`
	SizeBytes int64  `json:"size_bytes"`
	MediaType string `json:"media_type,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// UpsertAttachment records attachment metadata. Re-uploading identical
// content is a no-op: the digest already names the same bytes.
func (s *Store) UpsertAttachment(ctx context.Context, att Attachment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attachments (digest, size_bytes, media_type, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(digest) DO NOTHING
	`, att.Digest, att.SizeBytes, nullIfEmpty(att.MediaType), att.CreatedAt)
	return err
}

// GetAttachment returns attachment metadata by digest, or nil.
func (s *Store) GetAttachment(ctx context.Context, digest string) (*Attachment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT digest, size_bytes, media_type, created_at
		FROM attachments WHERE digest = ?
	`, digest)

	var att Attachment
	var mediaType sql.NullString
	if err := row.Scan(&att.Digest, &att.SizeBytes, &mediaType, &att.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	att.MediaType = mediaType.String
	return &att, nil
}
