package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/strips/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPlanStoreContract runs a suite of tests to verify that a PlanStore implementation
// adheres to the defined interface contract.
func RunPlanStoreContract(t *testing.T, store PlanStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	record := func(k string) *domain.PlanRecord {
		return &domain.PlanRecord{
			Key:       k,
			RunID:     "run-1",
			Problem:   "four-cars",
			Outcome:   domain.OutcomeSolved,
			Actions:   []string{"arrive a1 south-ent", "drive a1 south-ent cross-se north"},
			Expanded:  12,
			Generated: 30,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		rec := record(key)
		require.NoError(t, store.Save(ctx, key, rec), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.Outcome, loaded.Outcome)
		assert.Equal(t, rec.Actions, loaded.Actions)
		assert.Equal(t, rec.Expanded, loaded.Expanded)
		assert.True(t, rec.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		rec := record(key)
		rec.Outcome = domain.OutcomeUnsolvable
		rec.Actions = nil
		require.NoError(t, store.Save(ctx, key, rec))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeUnsolvable, loaded.Outcome)
		assert.Empty(t, loaded.Actions)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, record(key)))
		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrPlanNotFound, "Load after Delete should return ErrPlanNotFound")
		assert.NoError(t, store.Delete(ctx, key), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		_ = store.Save(ctx, id1, record(id1))
		_ = store.Save(ctx, id2, record(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}
