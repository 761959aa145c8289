package mock

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Service emulates the payroll backend authentication endpoints and a set of protected resources.
type Service struct {
	Issuer     string
	Secret     []byte
	Email      string
	Password   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Resources holds GET payloads keyed by path, other paths echo the path back.
	Resources map[string]any

	LoginHandler    http.HandlerFunc
	RefreshHandler  http.HandlerFunc
	ResourceHandler http.HandlerFunc

	mux        sync.Mutex
	generation int
	refreshes  int32
	logins     int32
}

// Expire invalidates every access token issued so far, refresh tokens stay valid
func (s *Service) Expire() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.generation++
}

// Refreshes returns number of refresh calls
func (s *Service) Refreshes() int {
	return int(atomic.LoadInt32(&s.refreshes))
}

// Logins returns number of successful logins
func (s *Service) Logins() int {
	return int(atomic.LoadInt32(&s.logins))
}

func (s *Service) currentGeneration() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.generation
}

// New creates a mock service accepting the given credentials
func New(email, password string) *Service {
	return &Service{
		Issuer:     "payroll-mock",
		Secret:     []byte("payroll-mock-secret"),
		Email:      email,
		Password:   password,
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		Resources:  map[string]any{},
	}
}
