package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// withAuth resolves the caller's identity and enforces credentials when
// the deployment requires them. Resolution order: session token, then
// the configured service token (owner from X-Vault-Owner), then open
// mode where the header alone names the owner.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r) {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		headerOwner := strings.TrimSpace(r.Header.Get(ownerHeader))

		if token != "" && s.authService != nil {
			user, err := s.authService.AuthenticateSessionToken(r.Context(), token, time.Now())
			if err != nil {
				s.writeStoreError(w, r, err)
				return
			}
			if user != nil {
				principal := authPrincipal{AuthType: authTypeSession, Owner: user.Username, User: user}
				next.ServeHTTP(w, r.WithContext(contextWithAuthPrincipal(r.Context(), principal)))
				return
			}
		}

		if s.serviceToken != "" && token == s.serviceToken {
			principal := authPrincipal{AuthType: authTypeService, Owner: headerOwner}
			next.ServeHTTP(w, r.WithContext(contextWithAuthPrincipal(r.Context(), principal)))
			return
		}

		required, err := s.authService.AuthRequired(r.Context(), s.serviceToken != "")
		if err != nil {
			s.writeStoreError(w, r, err)
			return
		}
		if required {
			s.writeErrorReq(w, r, http.StatusUnauthorized, authRequired(fmt.Errorf("missing or invalid credentials")))
			return
		}

		principal := authPrincipal{AuthType: authTypeOpen, Owner: headerOwner}
		next.ServeHTTP(w, r.WithContext(contextWithAuthPrincipal(r.Context(), principal)))
	})
}

// isPublicPath lists endpoints reachable without credentials: liveness,
// login, and offline certificate verification.
func isPublicPath(r *http.Request) bool {
	switch r.URL.Path {
	case "/health", "/v1/auth/login":
		return true
	case "/v1/certificates/verify":
		live, err := queryBool(r, "live")
		return err == nil && !live
	default:
		return false
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
