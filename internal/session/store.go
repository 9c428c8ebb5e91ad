package session

import (
	"sync"

	"go.uber.org/zap"
)

// Storage keys, matching the original client's persisted names.
const (
	keyToken = "token"
	keyEmail = "email"
)

// Snapshot is an immutable view of the session state.
type Snapshot struct {
	Token string
	Email string
}

// LoggedIn reports whether a credential is present.
func (s Snapshot) LoggedIn() bool {
	return s.Token != ""
}

// Store holds the bearer credential and user identity, persists them across
// runs and notifies subscribers on every change. It never retries: this is
// pure state holding, persistence failures are logged and tolerated.
type Store struct {
	mu      sync.Mutex
	storage Storage
	logger  *zap.Logger

	token string
	email string
	subs  []func(Snapshot)
}

// NewStore builds a session store, initializing from storage when values are
// present. A nil storage keeps the session in memory only.
func NewStore(storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{storage: storage, logger: logger}

	if storage != nil {
		if token, ok, err := storage.Get(keyToken); err != nil {
			logger.Warn("failed to restore credential", zap.Error(err))
		} else if ok {
			s.token = token
		}
		if email, ok, err := storage.Get(keyEmail); err != nil {
			logger.Warn("failed to restore identity", zap.Error(err))
		} else if ok {
			s.email = email
		}
	}
	return s
}

// Token returns the stored credential, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Identity returns the stored display identity.
func (s *Store) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// Snapshot returns both values in one consistent read.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Token: s.token, Email: s.email}
}

// SetCredential stores the bearer token. An empty token clears the
// persisted value. Dependents fetching per-session data are notified.
func (s *Store) SetCredential(token string) {
	s.mu.Lock()
	s.token = token
	s.persistLocked(keyToken, token)
	snap := Snapshot{Token: s.token, Email: s.email}
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// SetIdentity stores the display identity.
func (s *Store) SetIdentity(email string) {
	s.mu.Lock()
	s.email = email
	s.persistLocked(keyEmail, email)
	snap := Snapshot{Token: s.token, Email: s.email}
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// SetAuth stores credential and identity in one atomic mutation.
func (s *Store) SetAuth(token, email string) {
	s.mu.Lock()
	s.token = token
	s.email = email
	s.persistLocked(keyToken, token)
	s.persistLocked(keyEmail, email)
	snap := Snapshot{Token: token, Email: email}
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// Clear removes credential and identity together; there is no intermediate
// state where only one of them is gone.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.email = ""
	s.persistLocked(keyToken, "")
	s.persistLocked(keyEmail, "")
	subs := s.subsLocked()
	s.mu.Unlock()

	notify(subs, Snapshot{})
}

// Subscribe registers an observer invoked after every mutation with the new
// snapshot. Observers run outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) persistLocked(key, value string) {
	if s.storage == nil {
		return
	}
	var err error
	if value == "" {
		err = s.storage.Delete(key)
	} else {
		err = s.storage.Set(key, value)
	}
	if err != nil {
		s.logger.Warn("failed to persist session value", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) subsLocked() []func(Snapshot) {
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	return subs
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
