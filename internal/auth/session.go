package auth

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrBadCredentials is returned for any login failure. The caller cannot
// tell a wrong email from a wrong password.
var ErrBadCredentials = errors.New("invalid email or password")

// DefaultSessionTTL matches the site's 24-hour admin session.
const DefaultSessionTTL = 24 * time.Hour

// Admin holds the single admin identity. Exactly one of Hash or Plain is
// used to verify; Plain exists for dev setups without a hash file.
type Admin struct {
	Email string
	Hash  *Argon2idHash
	Plain string
}

func (a Admin) verify(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(a.Email), []byte(email)) == 1
	var passOK bool
	if a.Hash != nil {
		passOK = a.Hash.Verify(password)
	} else {
		passOK = a.Plain != "" && subtle.ConstantTimeCompare([]byte(a.Plain), []byte(password)) == 1
	}
	return emailOK && passOK
}

// Sessions issues and validates bearer tokens for the admin. Tokens live
// in memory; a restart logs the admin out.
type Sessions struct {
	mu     sync.Mutex
	admin  Admin
	ttl    time.Duration
	now    func() time.Time
	tokens map[string]time.Time
}

func NewSessions(admin Admin, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		admin:  admin,
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]time.Time),
	}
}

// Login verifies the credentials and issues a session token.
func (s *Sessions) Login(email, password string) (string, error) {
	if !s.admin.verify(email, password) {
		return "", ErrBadCredentials
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = s.now().Add(s.ttl)
	s.mu.Unlock()
	return token, nil
}

// Validate reports whether the token names a live session. Expired tokens
// are dropped on the way out.
func (s *Sessions) Validate(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Expire ends the session for token. Unknown tokens are ignored.
func (s *Sessions) Expire(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
