package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/hongminglow/library-be/internal/auth"
	"github.com/hongminglow/library-be/internal/http/respond"
)

// TokenValidator verifies a bearer token.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Authenticate resolves a bearer token to an auth.Identity on the request
// context. Requests without a usable token continue anonymously; access is
// enforced per route by RequireAuth and RequireRole.
func Authenticate(tokens TokenValidator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := tokens.Validate(raw)
		if err != nil {
			log.Printf("auth: rejecting bearer token on %s %s: %v", r.Method, r.URL.Path, err)
			next.ServeHTTP(w, r)
			return
		}
		ctx := auth.WithIdentity(r.Context(), auth.Identity{Username: claims.Subject, Roles: claims.Roles})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFrom(r.Context()); !ok {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous requests with 401 and callers lacking role with 403.
func RequireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFrom(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !id.HasRole(role) {
			respond.Error(w, http.StatusForbidden, "insufficient role")
			return
		}
		next.ServeHTTP(w, r)
	})
}
