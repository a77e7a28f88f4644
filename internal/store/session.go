package store

import (
	"go.uber.org/zap"

	"github.com/celerix-dev/celerix-hk/pkg/schema"
	"github.com/celerix-dev/celerix-hk/pkg/sdk"
)

// SessionStore is a live projection of the host platform session.
// It holds no state: every read goes back to the identity provider.
type SessionStore struct {
	identity sdk.IdentityProvider
	logger   *zap.Logger
}

// NewSessionStore wraps an identity provider.
func NewSessionStore(identity sdk.IdentityProvider, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{identity: identity, logger: logger}
}

// CurrentUser returns the user of the current session, or nil.
func (s *SessionStore) CurrentUser() *schema.WebAppUser {
	session := s.session()
	if session == nil {
		return nil
	}
	return session.User
}

// IsAuthenticated reports whether a host session is present.
func (s *SessionStore) IsAuthenticated() bool {
	return s.session() != nil
}

func (s *SessionStore) session() *schema.Session {
	if s.identity == nil {
		return nil
	}
	session, err := s.identity.TryGetSession()
	if err != nil {
		s.logger.Debug("Session state unavailable", zap.Error(err))
		return nil
	}
	return session
}
