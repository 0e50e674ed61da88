package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"ideavault/internal/proof"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "IDEAVAULT_HTTP_TIMEOUT"
	apiTokenEnvKey     = "IDEAVAULT_API_TOKEN"
	sessionTokenEnvKey = "IDEAVAULT_SESSION"

	ownerHeader = "X-Vault-Owner"
)

// Client is a simple HTTP client for the ideavault API.
type Client struct {
	baseURL      string
	http         *http.Client
	serviceToken string
	sessionToken string
	owner        string
}

// NewClient creates a new API client. Tokens come from the environment;
// the session token wins when both are set.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: httpTimeoutFromEnv()},
		serviceToken: strings.TrimSpace(os.Getenv(apiTokenEnvKey)),
		sessionToken: strings.TrimSpace(os.Getenv(sessionTokenEnvKey)),
	}
}

// SetOwner sets the owner identity sent on requests that do not carry a
// session. The server ignores the header for session-authenticated calls.
func (c *Client) SetOwner(owner string) {
	c.owner = strings.TrimSpace(owner)
}

// SetSessionToken overrides the session token from the environment.
func (c *Client) SetSessionToken(token string) {
	c.sessionToken = strings.TrimSpace(token)
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) GetInfo(ctx context.Context) (InfoResponse, error) {
	var resp InfoResponse
	err := c.do(ctx, http.MethodGet, "/v1/info", nil, nil, &resp)
	return resp, err
}

func (c *Client) SubmitIdea(ctx context.Context, req IdeaSubmitRequest) (IdeaResponse, error) {
	var resp IdeaResponse
	err := c.do(ctx, http.MethodPost, "/v1/ideas", nil, req, &resp)
	return resp, err
}

func (c *Client) GetIdea(ctx context.Context, id string) (IdeaResponse, error) {
	var resp IdeaResponse
	err := c.do(ctx, http.MethodGet, "/v1/ideas/"+url.PathEscape(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) ListIdeas(ctx context.Context, owner string) ([]IdeaResponse, error) {
	query := url.Values{}
	if owner != "" {
		query.Set("owner", owner)
	}
	var resp []IdeaResponse
	err := c.do(ctx, http.MethodGet, "/v1/ideas", query, nil, &resp)
	return resp, err
}

func (c *Client) RevealIdea(ctx context.Context, id string) (IdeaResponse, error) {
	var resp IdeaResponse
	err := c.do(ctx, http.MethodPost, "/v1/ideas/"+url.PathEscape(id)+"/reveal", nil, nil, &resp)
	return resp, err
}

func (c *Client) GetCertificate(ctx context.Context, id string) (proof.Certificate, error) {
	var resp CertificateResponse
	err := c.do(ctx, http.MethodGet, "/v1/ideas/"+url.PathEscape(id)+"/certificate", nil, nil, &resp)
	return resp.Certificate, err
}

// VerifyCertificate checks a certificate's integrity; with live set the
// server additionally compares it against the stored idea.
func (c *Client) VerifyCertificate(ctx context.Context, cert proof.Certificate, live bool) (VerifyResponse, error) {
	query := url.Values{}
	if live {
		query.Set("live", "true")
	}
	var resp VerifyResponse
	err := c.do(ctx, http.MethodPost, "/v1/certificates/verify", query, VerifyRequest{Certificate: cert}, &resp)
	return resp, err
}

func (c *Client) Feed(ctx context.Context, query url.Values) (FeedResponse, error) {
	var resp FeedResponse
	err := c.do(ctx, http.MethodGet, "/v1/feed", query, nil, &resp)
	return resp, err
}

func (c *Client) Stats(ctx context.Context) (StatsResponse, error) {
	var resp StatsResponse
	err := c.do(ctx, http.MethodGet, "/v1/stats", nil, nil, &resp)
	return resp, err
}

func (c *Client) ListAllTags(ctx context.Context) ([]string, error) {
	var resp []string
	err := c.do(ctx, http.MethodGet, "/v1/tags", nil, nil, &resp)
	return resp, err
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", nil, req, &resp)
	return resp, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, nil)
}

// UploadAttachment streams bytes to the attachment store.
func (c *Client) UploadAttachment(ctx context.Context, r io.Reader, mediaType string) (AttachmentUploadResponse, error) {
	var resp AttachmentUploadResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/attachments", r)
	if err != nil {
		return resp, err
	}
	if mediaType != "" {
		req.Header.Set("Content-Type", mediaType)
	} else {
		req.Header.Set("Content-Type", "application/octet-stream")
	}
	c.setAuthHeaders(req)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return resp, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode >= 400 {
		return resp, decodeError(httpResp)
	}
	err = json.NewDecoder(httpResp.Body).Decode(&resp)
	return resp, err
}

// DownloadAttachment streams attachment content by digest to a writer.
func (c *Client) DownloadAttachment(ctx context.Context, digest string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/attachments/"+url.PathEscape(digest), nil)
	if err != nil {
		return err
	}
	c.setAuthHeaders(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// Export streams the NDJSON export to a writer.
func (c *Client) Export(ctx context.Context, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/export", nil)
	if err != nil {
		return err
	}
	c.setAuthHeaders(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return &APIError{
			Status:    resp.StatusCode,
			Code:      errResp.Code,
			ErrorCode: errResp.ErrorCode,
			Message:   errResp.Error,
		}
	}
	return fmt.Errorf("api error: %s", resp.Status)
}

func (c *Client) setAuthHeaders(req *http.Request) {
	if req == nil {
		return
	}
	switch {
	case c.sessionToken != "":
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	case c.serviceToken != "":
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}
	if c.owner != "" {
		req.Header.Set(ownerHeader, c.owner)
	}
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
