package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Middleware authenticates requests via bearer tokens or session cookies
// and enforces role requirements.
type Middleware struct {
	issuer   *Issuer
	sessions *SessionStore
	logger   *zap.Logger
}

// NewMiddleware creates an auth middleware.
func NewMiddleware(issuer *Issuer, sessions *SessionStore, logger *zap.Logger) *Middleware {
	return &Middleware{
		issuer:   issuer,
		sessions: sessions,
		logger:   logger.Named("auth"),
	}
}

// RequireToken validates a bearer access token and stores its claims in
// the request context.
func (m *Middleware) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			m.unauthorized(w, "Authentication required")
			return
		}

		claims, err := m.issuer.Verify(token, TokenTypeAccess)
		if err != nil {
			m.logger.Debug("Token rejected", zap.Error(err))
			m.unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RequireSession validates the browser session cookie and stores
// equivalent claims in the request context.
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := m.sessions.Current(r)
		if !ok {
			m.unauthorized(w, "Login required")
			return
		}

		claims := &Claims{Role: role, TokenType: TokenTypeAccess}
		claims.Subject = userID.String()
		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole wraps an already-authenticated handler and rejects callers
// whose claims do not carry the wanted role.
func (m *Middleware) RequireRole(role string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				m.unauthorized(w, "Authentication required")
				return
			}
			if claims.Role != role {
				m.forbidden(w, "Insufficient role")
				return
			}
			next(w, r)
		}
	}
}

func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}

func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "forbidden",
		"message": message,
	})
}
