// Package state holds the process-wide authentication state: the profile
// associated with each signed-in principal, loaded on demand and invalidated
// by subscription when an administrator changes a row. The store is an
// explicit object passed to its consumers; there is no package-level
// singleton.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

// ProfileLoader fetches the profile row for a principal id.
// ports.ProfileRepository satisfies it.
type ProfileLoader interface {
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
}

// Invalidation is delivered to subscribers whenever a principal's cached
// profile is replaced or dropped.
type Invalidation struct {
	PrincipalID string
	// Profile is the new value, nil when the entry was dropped or the
	// principal has no profile row.
	Profile *domain.Profile
}

type entry struct {
	profile *domain.Profile
	loaded  bool
	// issued is the monotonic token handed to the most recent refresh;
	// applied is the token of the refresh whose result is currently held.
	// A completion carrying a token older than applied is discarded, so
	// overlapping refreshes cannot clobber a newer result.
	issued   uint64
	applied  uint64
	inflight int
}

// Store caches per-principal profiles with subscription-based invalidation.
type Store struct {
	loader ProfileLoader
	log    zerolog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	subs    map[int]chan Invalidation
	nextSub int
}

// NewStore returns an empty Store backed by the given loader.
func NewStore(loader ProfileLoader, log zerolog.Logger) *Store {
	return &Store{
		loader:  loader,
		log:     log,
		entries: make(map[string]*entry),
		subs:    make(map[int]chan Invalidation),
	}
}

// Get returns the cached profile for the principal, loading it when absent.
// A nil profile with nil error means the principal has no profile row.
func (s *Store) Get(ctx context.Context, principalID string) (*domain.Profile, error) {
	s.mu.Lock()
	if e, ok := s.entries[principalID]; ok && e.loaded {
		p := e.profile
		s.mu.Unlock()
		return p, nil
	}
	s.mu.Unlock()
	return s.RefreshProfile(ctx, principalID)
}

// Loading reports whether a refresh for the principal is currently in flight.
func (s *Store) Loading(principalID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[principalID]
	return ok && e.inflight > 0
}

// RefreshProfile re-fetches the profile and replaces the held value. The
// operation is idempotent; callers use it after any server-side mutation to
// the profile row. Overlapping refreshes are resolved by the monotonic token:
// only a completion at least as new as the currently applied one wins.
func (s *Store) RefreshProfile(ctx context.Context, principalID string) (*domain.Profile, error) {
	s.mu.Lock()
	e := s.ensure(principalID)
	e.issued++
	token := e.issued
	e.inflight++
	s.mu.Unlock()

	profile, err := s.loader.FindByID(ctx, principalID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		s.mu.Lock()
		e.inflight--
		s.mu.Unlock()
		return nil, err
	}
	// A missing row is held as a nil profile, not an error: "authenticated
	// but not registered" is a state the guard and login flow must observe.
	if errors.Is(err, domain.ErrProfileNotFound) {
		profile = nil
	}

	s.mu.Lock()
	e.inflight--
	if token < e.applied {
		stale := e.profile
		s.mu.Unlock()
		s.log.Debug().Str("principal_id", principalID).Msg("stale profile refresh discarded")
		return stale, nil
	}
	e.applied = token
	e.profile = profile
	e.loaded = true
	s.mu.Unlock()

	s.publish(Invalidation{PrincipalID: principalID, Profile: profile})
	return profile, nil
}

// Invalidate drops the cached entry so the next Get re-reads the row.
func (s *Store) Invalidate(principalID string) {
	s.mu.Lock()
	if e, ok := s.entries[principalID]; ok {
		e.profile = nil
		e.loaded = false
		// Raise the applied watermark past every issued token so an
		// in-flight fetch started before the invalidation cannot land.
		e.applied = e.issued + 1
		e.issued = e.applied
	}
	s.mu.Unlock()
	s.publish(Invalidation{PrincipalID: principalID})
}

// Subscribe registers an invalidation listener. The returned channel is
// buffered; slow consumers drop notifications rather than block the store.
func (s *Store) Subscribe() (int, <-chan Invalidation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Invalidation, 16)
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe removes the listener and closes its channel.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Store) ensure(principalID string) *entry {
	e, ok := s.entries[principalID]
	if !ok {
		e = &entry{}
		s.entries[principalID] = e
	}
	return e
}

func (s *Store) publish(inv Invalidation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- inv:
		default:
			s.log.Warn().Int("subscriber", id).Msg("invalidation dropped, subscriber lagging")
		}
	}
}
