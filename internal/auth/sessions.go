package auth

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/booklore/homeshelf/internal/config"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "auth_session"

// Session data keys
const (
	sessionKeyAuthenticated = "authenticated"
	sessionKeyLoginAt       = "login_at"
)

// SessionManager wraps scs.SessionManager with catalog-specific helpers.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager backed by the same
// SQLite file as the catalog. Lifetime is the configured day count; there is
// no idle-timeout refresh, so a session simply ends at its expiry instant.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = cfg.SessionLifetime()

	sm.Cookie.Name = SessionCookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession marks the request's session as authenticated. The token is
// renewed first to prevent session fixation.
func (sm *SessionManager) CreateSession(r *http.Request) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), sessionKeyAuthenticated, true)
	sm.Put(r.Context(), sessionKeyLoginAt, time.Now().Unix())
	return nil
}

// DestroySession removes all session data and invalidates the token.
// Destroying a session that never existed is a no-op.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// IsAuthenticated reports whether the request carries a live admin session.
// Expiry is enforced by the store: an expired token simply loads no data.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetBool(r.Context(), sessionKeyAuthenticated)
}

// LoginAt returns the unix timestamp of the session's login, 0 when anonymous.
func (sm *SessionManager) LoginAt(r *http.Request) int64 {
	return sm.GetInt64(r.Context(), sessionKeyLoginAt)
}
