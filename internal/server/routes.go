package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Ideas.
	mux.HandleFunc("POST /v1/ideas", s.handleSubmitIdea)
	mux.HandleFunc("GET /v1/ideas", s.handleListIdeas)
	mux.HandleFunc("GET /v1/ideas/{id}", s.handleGetIdea)
	mux.HandleFunc("POST /v1/ideas/{id}/reveal", s.handleRevealIdea)

	// Certificates.
	mux.HandleFunc("GET /v1/ideas/{id}/certificate", s.handleGetCertificate)
	mux.HandleFunc("POST /v1/certificates/verify", s.handleVerifyCertificate)

	// Public feed and aggregates.
	mux.HandleFunc("GET /v1/feed", s.handleFeed)
	mux.HandleFunc("GET /v1/stats", s.handleStats)
	mux.HandleFunc("GET /v1/tags", s.handleTags)

	// Attachments.
	mux.HandleFunc("POST /v1/attachments", s.handleUploadAttachment)
	mux.HandleFunc("GET /v1/attachments/{digest}", s.handleDownloadAttachment)

	// Auth.
	mux.HandleFunc("POST /v1/auth/login", s.handleAuthLogin)
	mux.HandleFunc("POST /v1/auth/logout", s.handleAuthLogout)

	// Export.
	mux.HandleFunc("GET /v1/export", s.handleExport)

	return s.withRequestLogging(s.withAuth(mux))
}
