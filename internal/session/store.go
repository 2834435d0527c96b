// Package session maps bearer tokens to authenticated users with an idle
// expiry policy. The store is touched from two execution contexts: the
// service loop (issue/resolve/touch/revoke on every authenticated request)
// and a background sweeper that evicts idle tokens. All map access happens
// under one mutex so a lookup is never observed mid-eviction.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/misasha/hotel-reservation/internal/utils"
)

type entry struct {
	userID     int
	lastAccess time.Time
}

// Store owns the token map and the sweeper goroutine.
type Store struct {
	secret   string
	lifetime time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	tokens map[string]entry

	now  func() time.Time
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewStore builds a store whose tokens expire after the given idle lifetime.
func NewStore(secret string, lifetime time.Duration, log *zap.Logger) *Store {
	return &Store{
		secret:   secret,
		lifetime: lifetime,
		log:      log,
		tokens:   map[string]entry{},
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Issue mints a token for the user and records the current time as its last
// access. Any previous token for the same user is invalidated first: one
// active session per identity.
func (s *Store) Issue(userID int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, e := range s.tokens {
		if e.userID == userID {
			delete(s.tokens, token)
			break
		}
	}

	// The jti claim makes collisions with a live token practically
	// impossible; the loop keeps the uniqueness guarantee unconditional.
	for {
		token, err := utils.NewSessionToken(s.secret, userID)
		if err != nil {
			return "", err
		}
		if _, exists := s.tokens[token]; exists {
			continue
		}
		s.tokens[token] = entry{userID: userID, lastAccess: s.now()}
		return token, nil
	}
}

// Resolve returns the user owning the token. Forged or corrupted tokens are
// rejected on signature alone; valid signatures are then checked against the
// live map, which is authoritative for revocation and idle expiry.
func (s *Store) Resolve(token string) (int, bool) {
	if _, err := utils.SessionUserID(s.secret, token); err != nil {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[token]
	if !ok {
		return 0, false
	}
	return e.userID, true
}

// Touch refreshes the token's last access time. Called on every
// authenticated request so active sessions never idle out.
func (s *Store) Touch(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.tokens[token]; ok {
		e.lastAccess = s.now()
		s.tokens[token] = e
	}
}

// Revoke removes the token. Explicit logout.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// StartSweeper launches the background eviction loop. Each tick scans all
// entries and drops those idle past the lifetime.
func (s *Store) StartSweeper(interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop signals the sweeper and joins it. The store must not be used after
// Stop returns.
func (s *Store) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.lifetime)
	for token, e := range s.tokens {
		if e.lastAccess.Before(cutoff) {
			delete(s.tokens, token)
			s.log.Debug("session expired", zap.Int("user_id", e.userID))
		}
	}
}
