package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/strips"
	"github.com/aretw0/strips/internal/config"
	"github.com/aretw0/strips/internal/logging"
)

// Options contains the global settings given on the command line. They
// override the config file.
type Options struct {
	ConfigPath  string
	Problem     string
	LogLevel    string
	LogFormat   string
	Budget      int
	Timeout     time.Duration
	Workers     int
	Generator   string
	PruneStatic bool
	Positive    bool

	// Changed reports whether a flag was set explicitly. When nil, non-zero
	// values count as set.
	Changed func(name string) bool
}

func (o Options) changed(name string, nonZero bool) bool {
	if o.Changed == nil {
		return nonZero
	}
	return o.Changed(name)
}

// Env is what every command runs with: the merged config and a logger.
type Env struct {
	Config   *config.Config
	Logger   *slog.Logger
	Problem  string
	Positive bool
}

// Setup loads the config file, applies the flags and creates the logger,
// which writes to stderr.
func Setup(opts Options, stderr io.Writer) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.changed("log-level", opts.LogLevel != "") {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.changed("log-format", opts.LogFormat != "") {
		cfg.Log.Format = opts.LogFormat
	}
	if opts.changed("budget", opts.Budget != 0) {
		cfg.Search.MaxExpansions = opts.Budget
	}
	if opts.changed("timeout", opts.Timeout != 0) {
		cfg.Search.Timeout = opts.Timeout
	}
	if opts.changed("workers", opts.Workers != 0) {
		cfg.Search.Workers = opts.Workers
	}
	if opts.changed("generator", opts.Generator != "") {
		cfg.Search.Generator = opts.Generator
	}
	if opts.changed("prune-static", opts.PruneStatic) {
		cfg.Grounding.PruneStatic = opts.PruneStatic
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	return &Env{
		Config:   cfg,
		Logger:   logging.NewWriter(stderr, level, cfg.Log.Format),
		Problem:  opts.Problem,
		Positive: opts.Positive,
	}, nil
}

// PlannerOptions translates the settings into facade options.
func (e *Env) PlannerOptions(extra ...strips.Option) []strips.Option {
	s := e.Config.Search
	opts := []strips.Option{
		strips.WithLogger(e.Logger),
		strips.WithBudget(s.MaxExpansions),
		strips.WithTimeout(s.Timeout),
		strips.WithWorkers(s.Workers),
		strips.WithGenerator(s.Generator),
		strips.WithStaticPruning(e.Config.Grounding.PruneStatic),
		strips.WithPositiveNormalForm(e.Positive),
	}
	return append(opts, extra...)
}

// Open loads the selected problem of the model at paths.
func (e *Env) Open(ctx context.Context, paths []string, extra ...strips.Option) (*strips.Planner, error) {
	p, err := strips.Open(ctx, paths, e.Problem, e.PlannerOptions(extra...)...)
	if err != nil {
		return nil, err
	}
	e.Logger.Debug("Model loaded",
		"problem", p.Problem().Name,
		"atoms", p.Task().Atoms.Len(),
		"actions", len(p.Task().Actions),
	)
	return p, nil
}
