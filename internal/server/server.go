package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"ideavault/internal/blobstore"
	"ideavault/internal/config"
	"ideavault/internal/store"
)

const (
	apiTokenEnvKey    = "IDEAVAULT_API_TOKEN"
	allowRemoteEnvKey = "IDEAVAULT_ALLOW_REMOTE"

	ownerHeader = "X-Vault-Owner"

	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second

	exportConcurrencyLimit = 2
	uploadConcurrencyLimit = 4
)

// Server wraps HTTP handlers for the ideavault API.
type Server struct {
	addr          string
	store         store.IdeaStore
	ideas         *IdeaService
	certs         *CertificateService
	attachments   *AttachmentService
	authService   *AuthService
	logger        *slog.Logger
	serviceToken  string
	exportLimiter chan struct{}
	uploadLimiter chan struct{}
}

// New creates a new server instance. Auth and attachment features light
// up when the idea store also implements the respective store interfaces.
func New(addr string, ideaStore store.IdeaStore, cfg *config.Config, blobs blobstore.BlobStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}

	var authService *AuthService
	if authStore, ok := any(ideaStore).(store.AuthStore); ok {
		authService = NewAuthService(authStore)
	}

	var attachmentService *AttachmentService
	if attachmentStore, ok := any(ideaStore).(store.AttachmentStore); ok && blobs != nil {
		attachmentService = NewAttachmentService(attachmentStore, blobs, cfg.Attachments.MaxUploadBytes)
	}

	return &Server{
		addr:  addr,
		store: ideaStore,
		ideas: NewIdeaService(ideaStore,
			cfg.Limits.TitleMaxChars,
			cfg.Limits.DescriptionMaxChars,
			cfg.Limits.FeedMaxLimit),
		certs:         NewCertificateService(ideaStore),
		attachments:   attachmentService,
		authService:   authService,
		logger:        logger,
		serviceToken:  strings.TrimSpace(os.Getenv(apiTokenEnvKey)),
		exportLimiter: make(chan struct{}, exportConcurrencyLimit),
		uploadLimiter: make(chan struct{}, uploadConcurrencyLimit),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address. Non-loopback
// hosts are refused unless explicitly allowed.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) acquireLimiter(limiter chan struct{}, w http.ResponseWriter, r *http.Request, name string) bool {
	if limiter == nil {
		return true
	}
	select {
	case limiter <- struct{}{}:
		return true
	default:
		err := apiError{
			status:  http.StatusTooManyRequests,
			code:    "resource_exhausted",
			errCode: ErrCodeResourceExhausted,
			err:     fmt.Errorf("too many concurrent %s requests", name),
		}
		s.writeErrorReq(w, r, http.StatusTooManyRequests, err)
		return false
	}
}

func (s *Server) releaseLimiter(limiter chan struct{}) {
	if limiter == nil {
		return
	}
	select {
	case <-limiter:
	default:
	}
}

func (s *Server) withLimiter(w http.ResponseWriter, r *http.Request, limiter chan struct{}, name string, fn func()) {
	if !s.acquireLimiter(limiter, w, r, name) {
		return
	}
	defer s.releaseLimiter(limiter)
	fn()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
