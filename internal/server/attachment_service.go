package server

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"ideavault/internal/api"
	"ideavault/internal/blobstore"
	"ideavault/internal/models"
	"ideavault/internal/store"
)

// AttachmentService stores attachment bytes in the blob store and their
// metadata in the database.
type AttachmentService struct {
	meta           store.AttachmentStore
	blobs          blobstore.BlobStore
	maxUploadBytes int64
	now            func() int64
}

// NewAttachmentService creates an attachment service.
func NewAttachmentService(meta store.AttachmentStore, blobs blobstore.BlobStore, maxUploadBytes int64) *AttachmentService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 100 * 1024 * 1024
	}
	return &AttachmentService{
		meta:           meta,
		blobs:          blobs,
		maxUploadBytes: maxUploadBytes,
		now:            func() int64 { return time.Now().UTC().UnixMilli() },
	}
}

// Upload stores attachment bytes and records their metadata. The digest
// comes back with the "sha256:" prefix ready to use as an idea ref.
func (svc *AttachmentService) Upload(ctx context.Context, r io.Reader, contentType string) (*api.AttachmentUploadResponse, error) {
	if svc == nil || svc.blobs == nil {
		return nil, makeAPIError(501, "not_implemented", ErrCodeNotImplemented, fmt.Errorf("attachments are not configured"))
	}

	result, err := svc.blobs.Put(ctx, io.LimitReader(r, svc.maxUploadBytes+1))
	if err != nil {
		return nil, internalError(err)
	}
	if result.SizeBytes > svc.maxUploadBytes {
		_ = svc.blobs.Delete(ctx, result.Digest)
		return nil, badRequestCode(fmt.Errorf("attachment exceeds %d bytes", svc.maxUploadBytes), ErrCodeRequestTooLarge)
	}
	if result.SizeBytes == 0 {
		_ = svc.blobs.Delete(ctx, result.Digest)
		return nil, badRequestCode(fmt.Errorf("attachment is empty"), ErrCodeInvalidArgument)
	}

	mediaType := normalizeMediaType(contentType)
	if err := svc.meta.UpsertAttachment(ctx, store.Attachment{
		Digest:    result.Digest,
		SizeBytes: result.SizeBytes,
		MediaType: mediaType,
		CreatedAt: svc.now(),
	}); err != nil {
		return nil, storeFailure(err)
	}

	return &api.AttachmentUploadResponse{
		Digest:    result.Digest,
		SizeBytes: result.SizeBytes,
		MediaType: mediaType,
		Ref:       models.AttachmentRef(result.Digest),
	}, nil
}

// Open returns metadata and a reader for a stored attachment.
func (svc *AttachmentService) Open(ctx context.Context, digest string) (*store.Attachment, io.ReadCloser, error) {
	if svc == nil || svc.blobs == nil {
		return nil, nil, makeAPIError(501, "not_implemented", ErrCodeNotImplemented, fmt.Errorf("attachments are not configured"))
	}

	att, err := svc.meta.GetAttachment(ctx, digest)
	if err != nil {
		return nil, nil, storeFailure(err)
	}
	if att == nil {
		return nil, nil, notFoundCode(fmt.Errorf("attachment not found"), ErrCodeAttachmentNotFound)
	}

	rc, err := svc.blobs.Open(ctx, digest)
	if err != nil {
		return nil, nil, notFoundCode(fmt.Errorf("attachment content not found"), ErrCodeAttachmentNotFound)
	}
	return att, rc, nil
}

func normalizeMediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if parsed == "application/octet-stream" {
		return ""
	}
	return strings.ToLower(parsed)
}
