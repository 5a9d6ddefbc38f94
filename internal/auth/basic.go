// Package auth provides optional HTTP basic authentication in front of the
// UI. Users come from the config file as bcrypt hashes.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/elpatron68/task-web/internal/config"
	applog "github.com/elpatron68/task-web/internal/log"
)

// UserStore authenticates basic auth credentials.
type UserStore interface {
	Authenticate(username, password string) bool
	Len() int
}

// InMemoryUserStore keeps bcrypt hashes by username. It is filled once at
// startup and only read afterwards.
type InMemoryUserStore struct {
	hashes map[string][]byte

	dummyOnce sync.Once
	dummy     []byte
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{hashes: make(map[string][]byte)}
}

// NewUserStoreFromConfig loads every configured user. The store is empty,
// and auth disabled, when the config lists none.
func NewUserStoreFromConfig(cfg *config.Config) (*InMemoryUserStore, error) {
	s := NewInMemoryUserStore()
	for i, u := range cfg.Users {
		if err := s.AddHash(u.Username, []byte(u.PasswordHash)); err != nil {
			return nil, fmt.Errorf("users[%d]: %w", i, err)
		}
	}
	return s, nil
}

func (s *InMemoryUserStore) Len() int { return len(s.hashes) }

// AddPassword hashes password and stores it for username.
func (s *InMemoryUserStore) AddPassword(username, password string) error {
	if err := checkUsername(username); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("user %s: password empty", username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("user %s: %w", username, err)
	}
	s.hashes[username] = hash
	return nil
}

// AddHash stores an existing bcrypt hash for username.
func (s *InMemoryUserStore) AddHash(username string, hash []byte) error {
	if err := checkUsername(username); err != nil {
		return err
	}
	if _, err := bcrypt.Cost(hash); err != nil {
		return fmt.Errorf("user %s: not a bcrypt hash", username)
	}
	s.hashes[username] = hash
	return nil
}

// checkUsername rejects names basic auth cannot carry.
func checkUsername(username string) error {
	switch {
	case username == "":
		return fmt.Errorf("username empty")
	case strings.ContainsRune(username, ':'):
		return fmt.Errorf("user %s: username must not contain ':'", username)
	case strings.TrimSpace(username) != username:
		return fmt.Errorf("user %q: surrounding whitespace", username)
	}
	return nil
}

// Authenticate compares against a throwaway hash for unknown users so
// both cases cost one bcrypt comparison.
func (s *InMemoryUserStore) Authenticate(username, password string) bool {
	hash, ok := s.hashes[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func (s *InMemoryUserStore) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte("task-web"), bcrypt.DefaultCost)
	})
	return s.dummy
}

// BasicAuthMiddleware rejects requests without valid credentials and
// stores the username in the request context for next.
func BasicAuthMiddleware(store UserStore, realm string, next http.Handler) http.Handler {
	if realm == "" {
		realm = "Restricted"
	}
	challenge := fmt.Sprintf(`Basic realm=%q, charset="UTF-8"`, realm)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			unauthorized(w, challenge)
			return
		}
		if !store.Authenticate(username, password) {
			applog.Warnf("auth: rejected user %q from %s", username, r.RemoteAddr)
			unauthorized(w, challenge)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, username)))
	})
}

func unauthorized(w http.ResponseWriter, challenge string) {
	w.Header().Set("WWW-Authenticate", challenge)
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}

type userKey struct{}

// UsernameFromRequest returns the authenticated user, if any.
func UsernameFromRequest(r *http.Request) (string, bool) {
	s, ok := r.Context().Value(userKey{}).(string)
	return s, ok
}
