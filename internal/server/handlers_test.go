package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ideavault/internal/api"
	internalauth "ideavault/internal/auth"
	"ideavault/internal/proof"
)

func doRequest(t *testing.T, handler http.Handler, method, path, owner string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if owner != "" {
		req.Header.Set(ownerHeader, owner)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func TestIdeaLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.routes()

	// Submit.
	rec := doRequest(t, handler, http.MethodPost, "/v1/ideas", "alice", api.IdeaSubmitRequest{
		Title:       "solar kettle",
		Description: "boil water with mirrors",
		Status:      "reveal_later",
		Tags:        []string{"energy"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	idea := decodeBody[api.IdeaResponse](t, rec)

	// Owner get.
	rec = doRequest(t, handler, http.MethodGet, "/v1/ideas/"+idea.ID, "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	// Hidden from others: refused as unauthorized, not masked as absent.
	rec = doRequest(t, handler, http.MethodGet, "/v1/ideas/"+idea.ID, "bob", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("get as other: expected 403, got %d", rec.Code)
	}
	hiddenResp := decodeBody[api.ErrorResponse](t, rec)
	if hiddenResp.Code != "unauthorized" || hiddenResp.ErrorCode != ErrCodeUnauthorized {
		t.Fatalf("unexpected hidden-idea response: %+v", hiddenResp)
	}

	// Reveal by non-owner is refused with the unauthorized code.
	rec = doRequest(t, handler, http.MethodPost, "/v1/ideas/"+idea.ID+"/reveal", "bob", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("reveal as other: expected 403, got %d", rec.Code)
	}
	errResp := decodeBody[api.ErrorResponse](t, rec)
	if errResp.Code != "unauthorized" || errResp.ErrorCode != ErrCodeUnauthorized {
		t.Fatalf("unexpected error response: %+v", errResp)
	}

	// Reveal by owner.
	rec = doRequest(t, handler, http.MethodPost, "/v1/ideas/"+idea.ID+"/reveal", "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reveal: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	revealed := decodeBody[api.IdeaResponse](t, rec)
	if !revealed.IsRevealed {
		t.Fatalf("expected revealed idea: %+v", revealed.IdeaRecord)
	}

	// Second reveal conflicts with the transition code.
	rec = doRequest(t, handler, http.MethodPost, "/v1/ideas/"+idea.ID+"/reveal", "alice", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second reveal: expected 409, got %d", rec.Code)
	}
	errResp = decodeBody[api.ErrorResponse](t, rec)
	if errResp.Code != "invalid_transition" || errResp.ErrorCode != ErrCodeInvalidTransition {
		t.Fatalf("unexpected conflict response: %+v", errResp)
	}

	// Now visible in the public feed.
	rec = doRequest(t, handler, http.MethodGet, "/v1/feed", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed: expected 200, got %d", rec.Code)
	}
	feed := decodeBody[api.FeedResponse](t, rec)
	if len(feed.Ideas) != 1 || feed.Ideas[0].ID != idea.ID {
		t.Fatalf("unexpected feed: %+v", feed)
	}
	if len(feed.Ideas[0].Tags) != 1 || feed.Ideas[0].Tags[0] != "energy" {
		t.Fatalf("feed entry missing tags: %+v", feed.Ideas[0])
	}
}

func TestCertificateOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.routes()

	rec := doRequest(t, handler, http.MethodPost, "/v1/ideas", "alice", api.IdeaSubmitRequest{
		Title:       "sealed",
		Description: "timestamped but hidden",
		Status:      "reveal_later",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d", rec.Code)
	}
	idea := decodeBody[api.IdeaResponse](t, rec)

	rec = doRequest(t, handler, http.MethodGet, "/v1/ideas/"+idea.ID+"/certificate", "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("certificate: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	certResp := decodeBody[api.CertificateResponse](t, rec)
	if !proof.Verify(certResp.Certificate) {
		t.Fatal("issued certificate must verify offline")
	}

	// Offline verification works without credentials.
	rec = doRequest(t, handler, http.MethodPost, "/v1/certificates/verify", "", api.VerifyRequest{Certificate: certResp.Certificate})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d", rec.Code)
	}
	verify := decodeBody[api.VerifyResponse](t, rec)
	if !verify.Valid || verify.Result != api.VerifyResultValid {
		t.Fatalf("expected valid, got %+v", verify)
	}

	// Live verification against the store.
	rec = doRequest(t, handler, http.MethodPost, "/v1/certificates/verify?live=true", "alice", api.VerifyRequest{Certificate: certResp.Certificate})
	if rec.Code != http.StatusOK {
		t.Fatalf("live verify: expected 200, got %d", rec.Code)
	}
	verify = decodeBody[api.VerifyResponse](t, rec)
	if !verify.Valid {
		t.Fatalf("expected valid live verification, got %+v", verify)
	}
}

func TestSubmitRejectsBadJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.routes()

	req := httptest.NewRequest(http.MethodPost, "/v1/ideas", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ownerHeader, "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	errResp := decodeBody[api.ErrorResponse](t, rec)
	if errResp.ErrorCode != ErrCodeInvalidJSON {
		t.Fatalf("expected error_code %d, got %+v", ErrCodeInvalidJSON, errResp)
	}
}

func TestInvalidPathID(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.routes()

	rec := doRequest(t, handler, http.MethodGet, "/v1/ideas/not-an-id", "alice", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	errResp := decodeBody[api.ErrorResponse](t, rec)
	if errResp.ErrorCode != ErrCodeInvalidID {
		t.Fatalf("expected error_code %d, got %+v", ErrCodeInvalidID, errResp)
	}
}

func TestServiceTokenMode(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.serviceToken = "shared-secret"
	handler := srv.routes()

	// No token: rejected.
	rec := doRequest(t, handler, http.MethodGet, "/v1/feed", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// Wrong token: rejected.
	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}

	// Valid token with an owner header.
	req = httptest.NewRequest(http.MethodPost, "/v1/ideas", strings.NewReader(`{"title":"t","description":"d"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer shared-secret")
	req.Header.Set(ownerHeader, "alice")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with valid token, got %d (%s)", rec.Code, rec.Body.String())
	}
	idea := decodeBody[api.IdeaResponse](t, rec)
	if idea.Owner != "alice" {
		t.Fatalf("owner header not honored: %s", idea.Owner)
	}

	// Health stays open.
	rec = doRequest(t, handler, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health should be public, got %d", rec.Code)
	}
}

func TestAttachmentUploadAndDownload(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.routes()

	payload := []byte("pitch deck")
	req := httptest.NewRequest(http.MethodPost, "/v1/attachments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set(ownerHeader, "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	upload := decodeBody[api.AttachmentUploadResponse](t, rec)
	if upload.SizeBytes != int64(len(payload)) || !strings.HasPrefix(upload.Ref, "sha256:") {
		t.Fatalf("unexpected upload response: %+v", upload)
	}

	// The ref is accepted on submission.
	rec = doRequest(t, handler, http.MethodPost, "/v1/ideas", "alice", api.IdeaSubmitRequest{
		Title:         "with attachment",
		Description:   "d",
		AttachmentRef: upload.Ref,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit with ref: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Download round-trips the bytes.
	rec = doRequest(t, handler, http.MethodGet, "/v1/attachments/"+upload.Digest, "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Fatalf("downloaded content mismatch: %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	// Anonymous upload is refused.
	req = httptest.NewRequest(http.MethodPost, "/v1/attachments", bytes.NewReader(payload))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous upload: expected 401, got %d", rec.Code)
	}
}

func TestExportNDJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.routes()

	doRequest(t, handler, http.MethodPost, "/v1/ideas", "alice", api.IdeaSubmitRequest{Title: "mine", Description: "d", Status: "private", Tags: []string{"energy"}})
	doRequest(t, handler, http.MethodPost, "/v1/ideas", "bob", api.IdeaSubmitRequest{Title: "theirs", Description: "d", Status: "public"})
	doRequest(t, handler, http.MethodPost, "/v1/ideas", "bob", api.IdeaSubmitRequest{Title: "hidden", Description: "d", Status: "private"})

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- doRequest(t, handler, http.MethodGet, "/v1/export", "alice", nil)
	}()

	var rec *httptest.ResponseRecorder
	select {
	case rec = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("export did not complete")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	// Alice's private idea plus bob's public one; bob's private stays out.
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 export lines, got %d", len(lines))
	}
	titles := map[string][]string{}
	for _, line := range lines {
		var idea api.IdeaResponse
		if err := json.Unmarshal([]byte(line), &idea); err != nil {
			t.Fatalf("invalid export line %q: %v", line, err)
		}
		titles[idea.Title] = idea.Tags
	}
	if _, ok := titles["hidden"]; ok {
		t.Fatal("export leaked another owner's private idea")
	}
	if tags := titles["mine"]; len(tags) != 1 || tags[0] != "energy" {
		t.Fatalf("export dropped tags: %v", tags)
	}
}

func TestStatsAndInfoOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.routes()

	doRequest(t, handler, http.MethodPost, "/v1/ideas", "alice", api.IdeaSubmitRequest{Title: "one", Description: "d", Status: "public"})
	doRequest(t, handler, http.MethodPost, "/v1/ideas", "bob", api.IdeaSubmitRequest{Title: "two", Description: "d", Status: "private"})

	rec := doRequest(t, handler, http.MethodGet, "/v1/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}
	stats := decodeBody[api.StatsResponse](t, rec)
	if stats.TotalIdeas != 2 || stats.PublicIdeas != 1 || stats.TotalUsers != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	rec = doRequest(t, handler, http.MethodGet, "/v1/info", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("info: expected 200, got %d", rec.Code)
	}
	info := decodeBody[api.InfoResponse](t, rec)
	if info.TotalIdeas != 2 || info.SchemaVersion == 0 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestLoginOverHTTP(t *testing.T) {
	srv, st := newTestServer(t)
	handler := srv.routes()

	hash, err := internalauth.HashPassword("vault-pass-1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := st.CreateUser(t.Context(), "alice", hash, 1700000000000); err != nil {
		t.Fatalf("create user: %v", err)
	}

	// With users provisioned, anonymous requests are rejected.
	rec := doRequest(t, handler, http.MethodGet, "/v1/feed", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with provisioned users, got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodPost, "/v1/auth/login", "", api.LoginRequest{Username: "alice", Password: "vault-pass-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	login := decodeBody[api.LoginResponse](t, rec)
	if login.Token == "" {
		t.Fatal("expected session token")
	}

	// The session identifies the owner; the header is ignored.
	req := httptest.NewRequest(http.MethodPost, "/v1/ideas", strings.NewReader(`{"title":"t","description":"d"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Token)
	req.Header.Set(ownerHeader, "mallory")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit with session: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	idea := decodeBody[api.IdeaResponse](t, rec)
	if idea.Owner != "alice" {
		t.Fatalf("session identity must win, got owner %s", idea.Owner)
	}

	// Wrong password is unauthorized.
	rec = doRequest(t, handler, http.MethodPost, "/v1/auth/login", "", api.LoginRequest{Username: "alice", Password: "wrong-pass-1"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", rec.Code)
	}

	// Logout revokes the session.
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked session: expected 401, got %d", rec.Code)
	}
}
