// Package session owns the authentication token: it hydrates it once from a
// persister, hands it to the HTTP client on every request and writes it back
// on login and logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	// CookieName is the name the token is persisted under.
	CookieName = "auth_token"
	// Lifetime is how long a persisted token survives.
	Lifetime = 7 * 24 * time.Hour
)

var (
	ErrEmptyToken = errors.New("token is empty")
	ErrNoSession  = errors.New("not logged in")
)

// Persister stores the token between process runs.
// Load returns "" with a nil error when nothing (unexpired) is stored.
type Persister interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string, expires time.Time) error
	Clear(ctx context.Context) error
}

// Store is the process-wide session. It is safe for concurrent use.
type Store struct {
	persister Persister
	logger    *zap.Logger
	now       func() time.Time

	// writeMu orders Login and Logout so the persisted and in-memory
	// tokens always end up matching.
	writeMu sync.Mutex

	mu    sync.RWMutex
	token string
}

// New hydrates a Store from p. A missing or expired persisted token leaves
// the store unauthenticated; later changes to the persisted value are not
// picked up.
func New(ctx context.Context, p Persister, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	token, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s := &Store{
		persister: p,
		logger:    logger.With(zap.String("component", "session")),
		now:       time.Now,
		token:     token,
	}
	s.logger.Debug("session hydrated", zap.Bool("authenticated", token != ""))
	return s, nil
}

// Login stores token in memory and persists it for Lifetime.
func (s *Store) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.persister.Save(ctx, token, s.now().Add(Lifetime)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Info("logged in")
	return nil
}

// Logout forgets the token. The in-memory token is cleared even when the
// persisted copy cannot be removed.
func (s *Store) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// BearerToken returns the current token for the Authorization header.
func (s *Store) BearerToken(context.Context) (string, error) {
	return s.Token(), nil
}

// Claims is the subset of token claims shown to the user.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Claims decodes the token payload without verifying its signature. The
// server is the only party that validates tokens; expiry is not enforced here.
func (s *Store) Claims() (*Claims, error) {
	return ParseClaims(s.Token())
}
