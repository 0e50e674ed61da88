package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"
)

func TestLocalStorePutOpenDelete(t *testing.T) {
	bs, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	ctx := context.Background()

	payload := []byte("pitch deck bytes")
	want := sha256.Sum256(payload)

	first, err := bs.Put(ctx, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("put first: %v", err)
	}
	if first.Digest != hex.EncodeToString(want[:]) {
		t.Fatalf("digest mismatch: %s", first.Digest)
	}
	if first.SizeBytes != int64(len(payload)) {
		t.Fatalf("size mismatch: %d", first.SizeBytes)
	}

	second, err := bs.Put(ctx, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("put second: %v", err)
	}
	if second.Digest != first.Digest {
		t.Fatalf("expected dedupe digest to match: %s vs %s", second.Digest, first.Digest)
	}

	ok, err := bs.Exists(ctx, first.Digest)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatal("expected content to exist after put")
	}

	rc, err := bs.Open(ctx, first.Digest)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("content mismatch: %q", data)
	}

	if err := bs.Delete(ctx, first.Digest); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := bs.Delete(ctx, first.Digest); err != nil {
		t.Fatalf("delete missing should be noop: %v", err)
	}
	ok, err = bs.Exists(ctx, first.Digest)
	if err != nil {
		t.Fatalf("exists after delete: %v", err)
	}
	if ok {
		t.Fatal("expected content to be gone after delete")
	}
}

func TestLocalStoreRejectsBadDigest(t *testing.T) {
	bs, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	ctx := context.Background()

	for _, digest := range []string{"", "not-hex", "../../etc/passwd", "ABCD"} {
		if _, err := bs.Open(ctx, digest); err == nil {
			t.Fatalf("open %q: expected error", digest)
		}
		if err := bs.Delete(ctx, digest); err == nil {
			t.Fatalf("delete %q: expected error", digest)
		}
	}
}
