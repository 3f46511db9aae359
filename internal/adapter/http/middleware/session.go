package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

// SessionResolver maps a request to the user id of its live session.
// *session.Manager implements it.
type SessionResolver interface {
	Resolve(r *http.Request) (userID, sessionID string, err error)
}

// UserLoader fetches the session user. *usecase.AuthUsecase implements it.
type UserLoader interface {
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// SessionGate loads the session user into the request context. The user is
// re-read on every request so profile edits and favorites are never stale.
type SessionGate struct {
	sessions SessionResolver
	users    UserLoader
	logger   *logger.Logger
}

func NewSessionGate(sessions SessionResolver, users UserLoader, log *logger.Logger) *SessionGate {
	return &SessionGate{sessions: sessions, users: users, logger: log.Named("SessionGate")}
}

// RequireSession redirects anonymous requests to the login page.
func (g *SessionGate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.load(r)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireSessionJSON answers anonymous requests with 401 and a JSON body.
func (g *SessionGate) RequireSessionJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.load(r)
		if err != nil {
			status := http.StatusInternalServerError
			msg := "Internal server error"
			if errors.Is(err, domain.ErrUnauthenticated) {
				status = http.StatusUnauthorized
				msg = domain.ErrUnauthenticated.Error()
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// LoadSession attaches the user when there is one and never rejects.
func (g *SessionGate) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := g.load(r); err == nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (g *SessionGate) load(r *http.Request) (*domain.User, error) {
	userID, _, err := g.sessions.Resolve(r)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			g.logger.Error("Session lookup failed", zap.Error(err))
		}
		return nil, err
	}
	user, err := g.users.CurrentUser(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			g.logger.Error("Failed to load session user", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}
