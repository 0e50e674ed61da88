package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ideavault/internal/api"
)

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if s.authService == nil {
		s.writeErrorReq(w, r, http.StatusNotImplemented, apiError{
			status:  http.StatusNotImplemented,
			code:    "not_implemented",
			errCode: ErrCodeNotImplemented,
			err:     fmt.Errorf("auth login not supported"),
		})
		return
	}

	var req api.LoginRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	result, err := s.authService.Login(r.Context(), req.Username, req.Password, time.Now())
	if err != nil {
		message := strings.ToLower(strings.TrimSpace(err.Error()))
		switch {
		case errors.Is(err, errInvalidCredentials):
			s.writeErrorReq(w, r, http.StatusUnauthorized, authRequired(errInvalidCredentials))
		case strings.Contains(message, "username") || strings.Contains(message, "password"):
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(err))
		default:
			s.writeStoreError(w, r, err)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, api.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token != "" && s.authService != nil {
		if err := s.authService.RevokeSessionToken(r.Context(), token, time.Now()); err != nil {
			s.writeStoreError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
