package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/recipebox/internal/repository"
)

// contextKey is an unexported type for context keys in this package.
// Using a package-private type means no other package can read or shadow
// the userID value we store — a plain string key would be collision-prone.
type contextKey string

const userIDKey contextKey = "userID"

// TokenCookieName is the cookie the login handler sets and the middleware
// reads. HttpOnly, so script injection can't steal the token.
const TokenCookieName = "token"

// RequireAuth enforces authentication on protected routes.
//
// The token is accepted from either the Authorization header
// ("Bearer <jwt>", what API clients send) or the HttpOnly token cookie
// (what browsers send automatically). On success the userID is stored in
// the request context; otherwise the chain stops with 401.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff gates admin-only routes. It must be mounted AFTER RequireAuth
// — it reads the userID the auth middleware stored in the context.
//
// The staff flag is checked against the database on every request rather
// than baked into the JWT, so revoking staff access takes effect
// immediately instead of when the token expires.
func RequireStaff(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				writeUnauthorized(w)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil || !user.IsActive || !user.IsStaff {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"forbidden","message":"staff access required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// ContextWithUserID returns a context carrying the given userID.
// Exported for handler tests, which build requests without the middleware.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// extractUserID pulls the JWT from the request and validates it.
// Header first (explicit beats implicit), cookie as fallback.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if tokenStr, ok := strings.CutPrefix(h, "Bearer "); ok {
			return tokens.Validate(tokenStr)
		}
	}

	cookie, err := r.Cookie(TokenCookieName)
	if err != nil {
		return "", err
	}

	return tokens.Validate(cookie.Value)
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
}
