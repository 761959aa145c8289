package store

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Well-known storage keys
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Session holds the current token pair
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// IsAuthenticated returns true when an access token is present
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AccessToken != ""
}

// Expiry returns the exp claim of a JWT access token, or zero time when the token is opaque.
// The token is not verified, the backend remains the authority.
func (s *Session) Expiry() time.Time {
	if !s.IsAuthenticated() {
		return time.Time{}
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Token returns session as oauth2 bearer token
func (s *Session) Token() *oauth2.Token {
	if s == nil {
		return nil
	}
	return &oauth2.Token{
		TokenType:    "Bearer",
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Expiry:       s.Expiry(),
	}
}

// Store is a pluggable key-value persistence layer for the session tokens.
// The in-memory default is fine for tests; use NewFileStore to survive process restarts.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// Load reads the session from a store, it returns nil when no access token is stored
func Load(ctx context.Context, s Store) (*Session, error) {
	accessToken, ok, err := s.Get(ctx, AccessTokenKey)
	if err != nil || !ok || accessToken == "" {
		return nil, err
	}
	refreshToken, _, err := s.Get(ctx, RefreshTokenKey)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Save writes both tokens in one store operation
func Save(ctx context.Context, s Store, session *Session) error {
	return s.Put(ctx, map[string]string{
		AccessTokenKey:  session.AccessToken,
		RefreshTokenKey: session.RefreshToken,
	})
}

// Clear removes the persisted session
func Clear(ctx context.Context, s Store) error {
	return s.Delete(ctx, AccessTokenKey, RefreshTokenKey)
}

type MemoryStoreOption func(*memoryStore)

// WithSession seeds the memory store
func WithSession(session *Session) MemoryStoreOption {
	return func(m *memoryStore) {
		m.values[AccessTokenKey] = session.AccessToken
		m.values[RefreshTokenKey] = session.RefreshToken
	}
}

type memoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func (m *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryStore) Put(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func NewMemoryStore(options ...MemoryStoreOption) Store {
	ret := &memoryStore{values: map[string]string{}}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
