package sessions

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "storefront-admin"

	isAdminSessionKey = "is_admin"
)

type SessionStore interface {
	IsAdmin(r *http.Request) bool
	SetAdmin(w http.ResponseWriter, r *http.Request) error
	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store  *sessions.CookieStore
	logger *slog.Logger
}

// NewCookieSessionStore signs the cookie with authKey and encrypts it with
// encKey.
func NewCookieSessionStore(authKey, encKey []byte, secure bool, logger *slog.Logger) *CookieSessionStore {
	store := sessions.NewCookieStore(authKey, encKey)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(12 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store, logger: logger}
}

// getSession always returns a usable session. A cookie that fails to
// decode, for example after a key rotation, yields a fresh one.
func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		c.logger.Debug("Discarding unreadable session cookie", "error", err)
	}
	return session
}

func (c *CookieSessionStore) IsAdmin(r *http.Request) bool {
	isAdmin, ok := c.getSession(r).Values[isAdminSessionKey].(bool)
	return ok && isAdmin
}

func (c *CookieSessionStore) SetAdmin(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values[isAdminSessionKey] = true
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
