package server

import (
	"context"
	"fmt"
	"time"

	"ideavault/internal/api"
	"ideavault/internal/proof"
	"ideavault/internal/store"
)

// CertificateService issues and verifies proof certificates.
type CertificateService struct {
	store store.IdeaStore
	now   func() int64
}

// NewCertificateService creates a certificate service.
func NewCertificateService(ideaStore store.IdeaStore) *CertificateService {
	return &CertificateService{
		store: ideaStore,
		now:   func() int64 { return time.Now().UTC().UnixMilli() },
	}
}

// Generate issues a certificate for an idea the caller may see. The
// certificate is a self-contained snapshot; it is not persisted.
func (svc *CertificateService) Generate(ctx context.Context, caller, id string) (*proof.Certificate, error) {
	idea, err := svc.store.GetIdea(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if idea == nil {
		return nil, notFound(fmt.Errorf("idea not found: %s", id))
	}
	if !idea.Visible(caller) {
		return nil, unauthorized(fmt.Errorf("idea %s is not visible to the caller", id))
	}

	cert, err := proof.Issue(idea, svc.now())
	if err != nil {
		return nil, internalError(err)
	}
	return &cert, nil
}

// VerifyOffline checks a certificate's own integrity seal.
func (svc *CertificateService) VerifyOffline(cert proof.Certificate) api.VerifyResponse {
	if !proof.Verify(cert) {
		return api.VerifyResponse{
			Valid:  false,
			Result: api.VerifyResultInvalid,
			Reason: "integrity check failed",
		}
	}
	return api.VerifyResponse{Valid: true, Result: api.VerifyResultValid}
}

// VerifyAgainstStore checks integrity and then compares the certificate
// with the stored idea. A certificate whose idea has since been revealed
// is reported stale rather than invalid: its content claims still hold,
// only the visibility snapshot is outdated.
func (svc *CertificateService) VerifyAgainstStore(ctx context.Context, cert proof.Certificate) (api.VerifyResponse, error) {
	if !proof.Verify(cert) {
		return api.VerifyResponse{
			Valid:  false,
			Result: api.VerifyResultInvalid,
			Reason: "integrity check failed",
		}, nil
	}

	idea, err := svc.store.GetIdea(ctx, cert.IdeaID)
	if err != nil {
		return api.VerifyResponse{}, storeFailure(err)
	}
	if idea == nil {
		return api.VerifyResponse{
			Valid:  false,
			Result: api.VerifyResultInvalid,
			Reason: "idea does not exist",
		}, nil
	}

	if idea.ProofHash != cert.ProofHash ||
		idea.Owner != cert.Owner ||
		idea.Title != cert.Title ||
		idea.CreatedAt != cert.CreatedAt {
		return api.VerifyResponse{
			Valid:  false,
			Result: api.VerifyResultInvalid,
			Reason: "certificate does not match the stored idea",
		}, nil
	}

	if string(idea.Status) != cert.Status || idea.IsRevealed != cert.IsRevealed {
		return api.VerifyResponse{
			Valid:  false,
			Result: api.VerifyResultStale,
			Reason: "idea state has changed since the certificate was issued",
		}, nil
	}

	return api.VerifyResponse{Valid: true, Result: api.VerifyResultValid}, nil
}
