package plancache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/strips/internal/logging"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/aretw0/strips/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a problem.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// SolveFunc runs a search for the problem behind a key.
type SolveFunc func(ctx context.Context) (*domain.Result, error)

// Entry is what the Manager returns for a key.
type Entry struct {
	Record *domain.PlanRecord
	// Result is nil when the record came from the store.
	Result *domain.Result
	Cached bool
}

// Manager orchestrates plan lookups, ensuring a problem is searched once.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.PlanStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
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

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager backed by store.
func NewManager(store ports.PlanStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Load retrieves a stored record.
func (m *Manager) Load(ctx context.Context, key string) (*domain.PlanRecord, error) {
	var rec *domain.PlanRecord
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		rec, err = m.store.Load(ctx, key)
		return err
	})
	return rec, err
}

// LoadOrSolve returns the stored record for key or runs solve to produce it.
// Definitive outcomes are saved; a failed save is logged and does not fail
// the call, since the caller already has its answer.
func (m *Manager) LoadOrSolve(ctx context.Context, key, problem string, solve SolveFunc) (*Entry, error) {
	var entry *Entry
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		rec, err := m.store.Load(ctx, key)
		if err == nil {
			m.logger.Debug("plan cache hit", "key", key, "outcome", rec.Outcome)
			entry = &Entry{Record: rec, Cached: true}
			return nil
		}
		if !errors.Is(err, domain.ErrPlanNotFound) {
			return fmt.Errorf("failed to check plan cache: %w", err)
		}

		res, err := solve(ctx)
		if err != nil {
			return err
		}
		rec = domain.NewPlanRecord(key, problem, res)
		entry = &Entry{Record: rec, Result: res}

		if !rec.Cacheable() {
			return nil
		}
		if err := m.store.Save(ctx, key, rec); err != nil {
			m.logger.Warn("Failed to save plan record",
				"key", key,
				"err", err,
			)
		}
		return nil
	})
	return entry, err
}

// Delete removes the record from the store.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying plan store.
func (m *Manager) Store() ports.PlanStore {
	return m.store
}

// WithLock executes a function while holding the lock for the key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// The search context may be done by now; release with a fresh one.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
