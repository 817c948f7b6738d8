// internal/session/store.go
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/friendstream/webapp/internal/cache"
	"github.com/friendstream/webapp/internal/config"
	"github.com/friendstream/webapp/internal/models"
	"github.com/friendstream/webapp/internal/services"
)

// Session is the authenticated identity behind one browser: the minimal
// user record and the bearer token the auth service issued for it.
type Session struct {
	ID string
	models.User
	Token     string
	CreatedAt time.Time
}

// Destination is where a fresh login lands: the home feed when the user
// already has a profile, the create-profile view when they do not.
type Destination string

const (
	DestinationHome          Destination = "/"
	DestinationCreateProfile Destination = "/create-profile"
)

type authClient interface {
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, username, password string) (string, error)
}

type profileClient interface {
	Get(ctx context.Context, username string) (*models.Profile, error)
}

// Store owns every session in the process. It is the only component allowed
// to invalidate one: API clients report 401s here through the unauthorized
// hook instead of clearing state themselves.
type Store struct {
	auth     authClient
	profiles profileClient
	sessions *cache.Expiring[string, *Session]
}

func NewStore(cfg *config.Config, auth authClient, profiles profileClient) (*Store, error) {
	sessions, err := cache.NewExpiring[string, *Session](cache.Config{
		Name:            "sessions",
		TTL:             time.Duration(cfg.Session.TTL) * time.Hour,
		CleanupInterval: time.Duration(cfg.Cache.CleanupInterval) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return &Store{auth: auth, profiles: profiles, sessions: sessions}, nil
}

// Login authenticates against the auth service and creates a session.
// The returned destination depends on whether a profile already exists for
// the username; a missing profile (404, or the backend's 500-for-missing
// variant) routes to the create-profile view. Auth failures are returned
// unchanged so forms can show the backend's message and suggestions.
func (s *Store) Login(ctx context.Context, username, password string) (*Session, Destination, error) {
	token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	sess := &Session{
		ID:        uuid.NewString(),
		User:      models.User{Username: username},
		Token:     token,
		CreatedAt: time.Now(),
	}
	s.sessions.Set(sess.ID, sess)

	destination := DestinationHome
	_, err = s.profiles.Get(services.WithToken(ctx, token), username)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrProfileNotFound):
		destination = DestinationCreateProfile
	default:
		// A failed probe is not a failed login; default to the feed.
		logrus.WithError(err).WithField("username", username).Warn("profile probe failed after login")
	}

	return sess, destination, nil
}

// Signup registers a new account. The visitor still has to log in
// afterwards; no session is created here.
func (s *Store) Signup(ctx context.Context, req *models.RegisterRequest) error {
	return s.auth.Register(ctx, req)
}

// Get restores a session by ID. A session whose token has already expired
// is dropped on the spot: there is no refresh, expiry means logging in
// again.
func (s *Store) Get(id string) (*Session, bool) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	if tokenExpired(sess.Token) {
		s.sessions.Delete(id)
		return nil, false
	}
	return sess, true
}

func (s *Store) Logout(id string) {
	s.sessions.Delete(id)
}

// Invalidate drops a session after a backend rejected its token.
func (s *Store) Invalidate(id string) {
	if _, ok := s.sessions.Get(id); ok {
		logrus.WithField("session_id", id).Warn("session invalidated after 401 from backend")
		s.sessions.Delete(id)
	}
}

// InvalidateFromContext is the services.UnauthorizedHook: it pulls the
// session ID installed by the route guard out of the context and drops that
// session. Requests without a session (login itself) are a no-op.
func (s *Store) InvalidateFromContext(ctx context.Context) {
	if id, ok := IDFromContext(ctx); ok {
		s.Invalidate(id)
	}
}

// tokenExpired reads the token's exp claim without verifying the signature;
// the token is the auth service's to verify, this client only wants to know
// whether presenting it is pointless. Tokens that are not JWTs at all are
// assumed live until a backend says otherwise.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
