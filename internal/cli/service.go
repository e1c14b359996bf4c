package cli

import (
	"context"

	"github.com/aretw0/strips"
	"github.com/aretw0/strips/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// NewService builds the plan service used by the servers: the configured
// plan cache, the search settings and, when reg is not nil, search metrics
// registered on reg.
func NewService(ctx context.Context, env *Env, reg prometheus.Registerer) (*strips.Service, func() error, error) {
	cache, closeCache, err := NewCache(ctx, env.Config.Cache, env.Logger)
	if err != nil {
		return nil, nil, err
	}

	var extra []strips.Option
	if reg != nil {
		extra = append(extra, strips.WithSearchHooks(observability.NewMetrics(reg).Hooks()))
	}
	return strips.NewService(cache, env.PlannerOptions(extra...)...), closeCache, nil
}
