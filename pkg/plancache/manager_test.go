package plancache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/strips/internal/testutils"
	"github.com/aretw0/strips/pkg/adapters/memory"
	redisadapter "github.com/aretw0/strips/pkg/adapters/redis"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/aretw0/strips/pkg/plancache"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSolve simulates a slow search to provoke races if locking is missing.
func countingSolve(calls *atomic.Int32, outcome domain.Outcome) plancache.SolveFunc {
	return func(ctx context.Context) (*domain.Result, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return &domain.Result{RunID: "run", Outcome: outcome}, nil
	}
}

func TestManager_LoadOrSolve_CachesDefinitiveOutcomes(t *testing.T) {
	for _, outcome := range []domain.Outcome{domain.OutcomeSolved, domain.OutcomeUnsolvable} {
		t.Run(string(outcome), func(t *testing.T) {
			m := plancache.NewManager(memory.NewStore())
			ctx := context.Background()
			var calls atomic.Int32

			first, err := m.LoadOrSolve(ctx, "k", "p", countingSolve(&calls, outcome))
			require.NoError(t, err)
			assert.False(t, first.Cached)
			require.NotNil(t, first.Result)

			second, err := m.LoadOrSolve(ctx, "k", "p", countingSolve(&calls, outcome))
			require.NoError(t, err)
			assert.True(t, second.Cached)
			assert.Nil(t, second.Result)
			assert.Equal(t, outcome, second.Record.Outcome)
			assert.Equal(t, "p", second.Record.Problem)
			assert.EqualValues(t, 1, calls.Load())
		})
	}
}

func TestManager_LoadOrSolve_SkipsBudgetExceeded(t *testing.T) {
	store := memory.NewStore()
	m := plancache.NewManager(store)
	ctx := context.Background()
	var calls atomic.Int32

	for range 2 {
		entry, err := m.LoadOrSolve(ctx, "k", "p", countingSolve(&calls, domain.OutcomeBudgetExceeded))
		require.NoError(t, err)
		assert.False(t, entry.Cached)
	}
	assert.EqualValues(t, 2, calls.Load())

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestManager_LoadOrSolve_Concurrent(t *testing.T) {
	m := plancache.NewManager(memory.NewStore())
	ctx := context.Background()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := m.LoadOrSolve(ctx, "same", "p", countingSolve(&calls, domain.OutcomeSolved))
			assert.NoError(t, err)
			assert.NotNil(t, entry)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load(), "the problem must be searched once")
}

func TestManager_LoadOrSolve_SolveError(t *testing.T) {
	store := memory.NewStore()
	m := plancache.NewManager(store)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := m.LoadOrSolve(ctx, "k", "p", func(context.Context) (*domain.Result, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, err = store.Load(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

type brokenStore struct {
	*memory.Store
	loadErr, saveErr error
}

func (s *brokenStore) Load(ctx context.Context, key string) (*domain.PlanRecord, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.Store.Load(ctx, key)
}

func (s *brokenStore) Save(ctx context.Context, key string, rec *domain.PlanRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Store.Save(ctx, key, rec)
}

func TestManager_StoreFailures(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32

	down := errors.New("store down")
	m := plancache.NewManager(&brokenStore{Store: memory.NewStore(), loadErr: down})
	_, err := m.LoadOrSolve(ctx, "k", "p", countingSolve(&calls, domain.OutcomeSolved))
	assert.ErrorIs(t, err, down)
	assert.Zero(t, calls.Load(), "no search when the cache cannot be read")

	m = plancache.NewManager(&brokenStore{Store: memory.NewStore(), saveErr: down})
	entry, err := m.LoadOrSolve(ctx, "k", "p", countingSolve(&calls, domain.OutcomeSolved))
	require.NoError(t, err, "a failed save still returns the answer")
	assert.Equal(t, domain.OutcomeSolved, entry.Record.Outcome)
}

func TestManager_LoadAndDelete(t *testing.T) {
	m := plancache.NewManager(memory.NewStore())
	ctx := context.Background()
	var calls atomic.Int32

	_, err := m.Load(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	_, err = m.LoadOrSolve(ctx, "k", "p", countingSolve(&calls, domain.OutcomeSolved))
	require.NoError(t, err)

	rec, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "k", rec.Key)

	keys, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Load(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisadapter.NewFromClient(client)
	locker := redisadapter.NewLocker(client, redisadapter.DefaultPrefix)

	// Two managers model two replicas sharing redis.
	a := plancache.NewManager(store, plancache.WithLocker(locker), plancache.WithLockTTL(5*time.Second))
	b := plancache.NewManager(store, plancache.WithLocker(locker))
	ctx := context.Background()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for _, m := range []*plancache.Manager{a, b, a, b} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.LoadOrSolve(ctx, "shared", "p", countingSolve(&calls, domain.OutcomeSolved))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	assert.False(t, mr.Exists(redisadapter.DefaultPrefix+"lock:shared"), "lock must be released")
}

func TestFingerprint(t *testing.T) {
	d, p := testutils.Intersection()

	k1, err := plancache.Fingerprint(d, p)
	require.NoError(t, err)
	k2, err := plancache.Fingerprint(d, p)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 16)

	blocked := testutils.IntersectionProblem(testutils.IntersectionCars, "cross-se cross-ne north")
	k3, err := plancache.Fingerprint(d, blocked)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}
