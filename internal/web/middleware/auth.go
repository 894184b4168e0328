package middleware

import (
	"net/http"
	"strings"

	"github.com/loomkit/loom/internal/web/auth"
)

// AuthConfig holds configuration for the bearer auth middleware.
type AuthConfig struct {
	// Tokens validates JWT session tokens. Optional.
	Tokens *auth.TokenService
	// APIKeyHashes are bcrypt hashes of accepted static API keys.
	APIKeyHashes []string
	// SkipPaths are served without credentials (health and metrics probes).
	SkipPaths []string
}

// Auth enforces bearer credentials: the token must be either a valid
// session JWT or an API key matching one of the configured hashes.
func Auth(config AuthConfig) func(http.Handler) http.Handler {
	skipPaths := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skipPaths[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skipPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			if config.Tokens != nil {
				if _, err := config.Tokens.ValidateToken(token); err == nil {
					next.ServeHTTP(w, r)
					return
				}
			}
			if auth.CheckAPIKey(token, config.APIKeyHashes) {
				next.ServeHTTP(w, r)
				return
			}

			unauthorized(w, "invalid credentials")
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}`))
}
