// Package auth is the access control facade: it turns credential
// verification into sessions the HTTP layer can carry in a cookie.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/docpanel/docpanel/pkg/credentials"
)

// SessionDuration is how long sessions last
const SessionDuration = 12 * time.Hour

type session struct {
	username  string
	expiresAt time.Time
}

// Service verifies operator credentials and tracks live sessions. Sessions
// are process-local; restarting the server logs everyone out.
type Service struct {
	creds *credentials.Store

	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration

	logger zerolog.Logger
}

// NewService creates an auth service over the credential store.
func NewService(creds *credentials.Store, logger zerolog.Logger) *Service {
	return &Service{
		creds:    creds,
		sessions: make(map[string]session),
		ttl:      SessionDuration,
		logger:   logger,
	}
}

// Login verifies the credentials and mints a session. The returned id is an
// opaque token; false means the credentials did not verify, with no further
// detail.
func (s *Service) Login(username, password string) (string, bool) {
	if !s.creds.Verify(username, password) {
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return "", false
	}

	id, err := generateSessionID()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate session id")
		return "", false
	}

	s.mu.Lock()
	s.sessions[id] = session{username: username, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	s.logger.Info().Str("username", username).Msg("login successful")
	return id, true
}

// Authenticate resolves a session id to its username. Expired sessions are
// evicted on sight.
func (s *Service) Authenticate(sessionID string) (string, bool) {
	s.mu.RLock()
	sess, exists := s.sessions[sessionID]
	s.mu.RUnlock()

	if !exists {
		return "", false
	}
	if time.Now().After(sess.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return "", false
	}
	return sess.username, true
}

// Logout discards a session. Unknown ids are a no-op.
func (s *Service) Logout(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// generateSessionID returns 32 random bytes, hex encoded.
func generateSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
