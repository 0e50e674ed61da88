package server

import (
	"context"
	"net/http"

	"ideavault/internal/store"
)

type authContextKey struct{}

// authPrincipal is the resolved caller identity for one request. Owner
// is the opaque identity ideas are attributed to; it is empty for
// anonymous reads in open mode.
type authPrincipal struct {
	AuthType string
	Owner    string
	User     *store.AuthUser
}

func contextWithAuthPrincipal(ctx context.Context, principal authPrincipal) context.Context {
	return context.WithValue(ctx, authContextKey{}, principal)
}

func authPrincipalFromContext(ctx context.Context) (authPrincipal, bool) {
	if ctx == nil {
		return authPrincipal{}, false
	}
	principal, ok := ctx.Value(authContextKey{}).(authPrincipal)
	return principal, ok
}

// callerOwner returns the owner identity for the current request, empty
// when anonymous.
func (s *Server) callerOwner(r *http.Request) string {
	principal, ok := authPrincipalFromContext(r.Context())
	if !ok {
		return ""
	}
	return principal.Owner
}
