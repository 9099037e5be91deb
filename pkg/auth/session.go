package auth

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionName is the browser session cookie name.
const SessionName = "agrisense-session"

// Session value keys.
const (
	sessionKeyUserID = "user_id"
	sessionKeyRole   = "role"
)

// SessionStore wraps the cookie-backed session store used by the browser
// login flow. Tokens cover the API surface; sessions cover page views.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore initializes the cookie session store. The secret can be
// any passphrase; it is SHA-256 hashed to derive a consistent 32-byte
// signing key. Cookies are HttpOnly and SameSite=Lax so the browser flow
// works over plain HTTP in local deployments.
func NewSessionStore(secret string) *SessionStore {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// Login writes the user's identity into a new session cookie.
func (s *SessionStore) Login(w http.ResponseWriter, r *http.Request, userID uuid.UUID, role string) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		// A stale or tampered cookie decodes poorly; start fresh.
		session, _ = s.store.New(r, SessionName)
	}
	session.Values[sessionKeyUserID] = userID.String()
	session.Values[sessionKeyRole] = role
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Logout expires the session cookie.
func (s *SessionStore) Logout(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the logged-in user's ID and role, or false when the
// request carries no valid session.
func (s *SessionStore) Current(r *http.Request) (uuid.UUID, string, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return uuid.Nil, "", false
	}
	rawID, ok := session.Values[sessionKeyUserID].(string)
	if !ok {
		return uuid.Nil, "", false
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", false
	}
	role, _ := session.Values[sessionKeyRole].(string)
	return userID, role, true
}
