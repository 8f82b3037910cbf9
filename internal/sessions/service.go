package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/trstyle/storefront-services/internal/analytics"
)

// Service wraps repository operations with session lifecycle logic and
// reports session-established / session-cleared events to analytics.
type Service struct {
	repo   Repository
	notify analytics.Notifier
}

func NewService(r Repository, notify analytics.Notifier) *Service {
	if notify == nil {
		notify = analytics.NopNotifier{}
	}
	return &Service{repo: r, notify: notify}
}

// CreateSession stores a new refresh session and returns the refresh token
func (s *Service) CreateSession(ctx context.Context, userKey, provider string, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	refresh := hex.EncodeToString(b)
	sess := &Session{
		RefreshToken: refresh,
		UserKey:      userKey,
		Provider:     provider,
		ExpiresAt:    time.Now().UTC().Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	s.notify.Notify(ctx, "session_established", map[string]interface{}{"provider": provider})
	return refresh, nil
}

// ValidateRefresh returns the session if refresh token is valid and not expired
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	sess, err := s.repo.GetByRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		// cleanup expired session
		_ = s.repo.DeleteByRefresh(ctx, refresh)
		return nil, nil
	}
	return sess, nil
}

// DeleteRefresh removes the session and reports the session-cleared event.
func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	if err := s.repo.DeleteByRefresh(ctx, refresh); err != nil {
		return err
	}
	s.notify.Notify(ctx, "session_cleared", nil)
	return nil
}
