package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/strips/pkg/plancache"
)

// ErrCacheDisabled is returned by the plan cache commands when the backend is "none".
var ErrCacheDisabled = errors.New("plan cache is disabled")

func openCache(ctx context.Context, env *Env) (*plancache.Manager, func() error, error) {
	m, closeFn, err := NewCache(ctx, env.Config.Cache, env.Logger)
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, ErrCacheDisabled
	}
	return m, closeFn, nil
}

// RunPlansList prints the keys of the stored plan records.
func RunPlansList(ctx context.Context, env *Env, out io.Writer) error {
	m, closeFn, err := openCache(ctx, env)
	if err != nil {
		return err
	}
	defer closeFn()

	keys, err := m.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}
	if len(keys) == 0 {
		fmt.Fprintln(out, "No stored plans found.")
		return nil
	}
	for _, k := range keys {
		fmt.Fprintln(out, k)
	}
	return nil
}

// RunPlansInspect prints one stored record as JSON.
func RunPlansInspect(ctx context.Context, env *Env, out io.Writer, key string) error {
	m, closeFn, err := openCache(ctx, env)
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := m.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load plan '%s': %w", key, err)
	}
	return writeJSON(out, rec)
}

// RunPlansRemove deletes stored records. Every key is attempted; the first
// failure is returned.
func RunPlansRemove(ctx context.Context, env *Env, out io.Writer, keys []string) error {
	m, closeFn, err := openCache(ctx, env)
	if err != nil {
		return err
	}
	defer closeFn()

	var errs []error
	for _, key := range keys {
		if err := m.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove '%s': %w", key, err))
			continue
		}
		fmt.Fprintf(out, "Removed plan '%s'\n", key)
	}
	return errors.Join(errs...)
}
