package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var digestPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// LocalStore keeps attachment bytes in a content-addressed tree on local
// disk: <root>/sha256/<d0d1>/<d2d3>/<digest>.
type LocalStore struct {
	root string
}

// NewLocalStore creates a local attachment store rooted at root.
func NewLocalStore(root string) (*LocalStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("attachment store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: abs}, nil
}

// Put streams bytes to a temp file while hashing, then moves the file
// into place under its digest. Re-uploading existing content is a no-op
// that returns the same digest.
func (s *LocalStore) Put(ctx context.Context, r io.Reader) (PutResult, error) {
	var zero PutResult
	if s == nil {
		return zero, fmt.Errorf("attachment store is not configured")
	}
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	tmp, err := os.CreateTemp(filepath.Join(s.root, "tmp"), "put-*")
	if err != nil {
		return zero, err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		cleanup()
		return zero, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return zero, err
	}

	digest := hex.EncodeToString(h.Sum(nil))
	dst := s.pathForDigest(digest)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		cleanup()
		return zero, err
	}

	if _, err := os.Stat(dst); err == nil {
		_ = os.Remove(tmpPath)
		return PutResult{Digest: digest, SizeBytes: n}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		cleanup()
		return zero, err
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		// A concurrent Put of the same bytes may have won the rename.
		if _, statErr := os.Stat(dst); statErr == nil {
			_ = os.Remove(tmpPath)
			return PutResult{Digest: digest, SizeBytes: n}, nil
		}
		cleanup()
		return zero, err
	}

	return PutResult{Digest: digest, SizeBytes: n}, nil
}

// Open returns a reader for the content named by digest.
func (s *LocalStore) Open(ctx context.Context, digest string) (io.ReadCloser, error) {
	if s == nil {
		return nil, fmt.Errorf("attachment store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateDigest(digest); err != nil {
		return nil, err
	}
	return os.Open(s.pathForDigest(digest))
}

// Exists reports whether content for digest is present.
func (s *LocalStore) Exists(ctx context.Context, digest string) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("attachment store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateDigest(digest); err != nil {
		return false, err
	}
	if _, err := os.Stat(s.pathForDigest(digest)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes stored content. Missing files are ignored.
func (s *LocalStore) Delete(ctx context.Context, digest string) error {
	if s == nil {
		return fmt.Errorf("attachment store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateDigest(digest); err != nil {
		return err
	}
	if err := os.Remove(s.pathForDigest(digest)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) pathForDigest(digest string) string {
	return filepath.Join(s.root, "sha256", digest[0:2], digest[2:4], digest)
}

func validateDigest(digest string) error {
	if !digestPattern.MatchString(digest) {
		return fmt.Errorf("invalid attachment digest")
	}
	return nil
}

var _ BlobStore = (*LocalStore)(nil)
