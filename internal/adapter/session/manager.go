package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
)

// Manager ties the cookie to the session store.
type Manager struct {
	store      domain.SessionStore
	codec      *TokenCodec
	cookieName string
	secure     bool
}

func NewManager(store domain.SessionStore, codec *TokenCodec, cookieName string, secure bool) *Manager {
	return &Manager{store: store, codec: codec, cookieName: cookieName, secure: secure}
}

// Start creates a session for userID and sets the cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, userID string) error {
	sess, err := m.store.Create(ctx, userID)
	if err != nil {
		return err
	}
	token, err := m.codec.Encode(sess)
	if err != nil {
		_ = m.store.Delete(ctx, sess.ID)
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Resolve returns the user id of the request's live session, or
// domain.ErrUnauthenticated.
func (m *Manager) Resolve(r *http.Request) (userID, sessionID string, err error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", "", domain.ErrUnauthenticated
	}
	sid, uid, err := m.codec.Decode(cookie.Value)
	if err != nil {
		return "", "", err
	}
	sess, err := m.store.Get(r.Context(), sid)
	if err != nil {
		return "", "", err
	}
	if sess.UserID != uid {
		return "", "", domain.ErrUnauthenticated
	}
	return uid, sid, nil
}

// End deletes the session, if any, and expires the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	var storeErr error
	if _, sid, err := m.Resolve(r); err == nil {
		storeErr = m.store.Delete(r.Context(), sid)
	} else if !errors.Is(err, domain.ErrUnauthenticated) {
		storeErr = err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return storeErr
}
