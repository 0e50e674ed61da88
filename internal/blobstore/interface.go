package blobstore

import (
	"context"
	"io"
)

// PutResult describes one persisted attachment payload. Digest is the
// bare SHA-256 hex; idea records reference it as "sha256:<digest>".
type PutResult struct {
	Digest    string
	SizeBytes int64
}

// BlobStore is the byte-storage abstraction behind attachment uploads.
// Content is addressed by digest, so identical uploads dedupe.
type BlobStore interface {
	Put(ctx context.Context, r io.Reader) (PutResult, error)
	Open(ctx context.Context, digest string) (io.ReadCloser, error)
	Exists(ctx context.Context, digest string) (bool, error)
	Delete(ctx context.Context, digest string) error
}
