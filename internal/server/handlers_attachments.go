package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	if s.attachments == nil {
		s.writeErrorReq(w, r, http.StatusNotImplemented, apiError{
			status:  http.StatusNotImplemented,
			code:    "not_implemented",
			errCode: ErrCodeNotImplemented,
			err:     fmt.Errorf("attachments are not configured"),
		})
		return
	}
	if s.callerOwner(r) == "" {
		s.writeErrorReq(w, r, http.StatusUnauthorized, authRequired(fmt.Errorf("uploading requires an owner identity")))
		return
	}

	s.withLimiter(w, r, s.uploadLimiter, "upload", func() {
		resp, err := s.attachments.Upload(r.Context(), r.Body, r.Header.Get("Content-Type"))
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, resp)
	})
}

func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	if s.attachments == nil {
		s.writeErrorReq(w, r, http.StatusNotImplemented, apiError{
			status:  http.StatusNotImplemented,
			code:    "not_implemented",
			errCode: ErrCodeNotImplemented,
			err:     fmt.Errorf("attachments are not configured"),
		})
		return
	}

	digest := strings.TrimSpace(r.PathValue("digest"))
	att, rc, err := s.attachments.Open(r.Context(), digest)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	contentType := att.MediaType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(att.SizeBytes, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.log().Error("attachment download failed", "digest", digest, "error", err)
	}
}
