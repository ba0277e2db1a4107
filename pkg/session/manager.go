package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/noahunallar/braid"
	"github.com/noahunallar/braid/internal/logging"
	"github.com/noahunallar/braid/pkg/domain"
	"github.com/noahunallar/braid/pkg/ports"
)

// Factory builds a fresh store for a session: the full slice registration,
// hooks and interceptors, with initial sub-states. The manager hydrates the
// result from a persisted snapshot when one exists.
type Factory func() (*braid.Store, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring dispatch cycles for one
// session never interleave. It uses reference counting to garbage collect
// unused locks.
type Manager struct {
	store   ports.SnapshotStore
	factory Factory

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL. Defaults to 30s.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new session manager over the given snapshot store.
func NewManager(store ports.SnapshotStore, factory Factory, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		factory: factory,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock runs fn while holding the in-process lock for the session, plus
// the distributed lock when a locker is configured.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(ctx context.Context) error) error {
	entry := m.acquire(sessionID)
	defer m.release(sessionID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock", "session_id", sessionID, "err", err)
			}
		}()
	}

	return fn(ctx)
}

// Update runs fn against the session's store under the session lock and
// persists the resulting snapshot. A session that does not exist yet starts
// from the factory's initial state.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(store *braid.Store) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		store, err := m.factory()
		if err != nil {
			return fmt.Errorf("failed to build store: %w", err)
		}

		snap, err := m.store.Load(ctx, sessionID)
		switch {
		case err == nil:
			if err := store.Hydrate(snap); err != nil {
				return fmt.Errorf("failed to hydrate session %q: %w", sessionID, err)
			}
		case errors.Is(err, domain.ErrSessionNotFound):
			// Fresh session.
		default:
			return fmt.Errorf("failed to load session %q: %w", sessionID, err)
		}

		if err := fn(store); err != nil {
			return err
		}

		if err := m.store.Save(ctx, sessionID, store.Snapshot(sessionID)); err != nil {
			return fmt.Errorf("failed to save session %q: %w", sessionID, err)
		}
		return nil
	})
}

// Load retrieves the persisted snapshot for a session.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List returns the persisted session IDs.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}
