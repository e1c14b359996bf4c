package ports

import (
	"context"

	"github.com/aretw0/strips/pkg/domain"
)

// PlanStore defines the interface for persisting search outcomes.
// Keys are problem fingerprints, so a solved problem is never searched twice.
type PlanStore interface {
	// Save persists the record under key, replacing any previous one.
	Save(ctx context.Context, key string, rec *domain.PlanRecord) error

	// Load retrieves the record for key.
	// Returns domain.ErrPlanNotFound if there is none.
	Load(ctx context.Context, key string) (*domain.PlanRecord, error)

	// Delete removes the record for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the stored keys.
	List(ctx context.Context) ([]string, error)
}
