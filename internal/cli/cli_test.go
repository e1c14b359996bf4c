package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/strips/internal/config"
	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/aretw0/strips/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const examples = "../../examples/intersection"

var (
	solvable = []string{filepath.Join(examples, "domain.yaml"), filepath.Join(examples, "problem.yaml")}
	blocked  = []string{filepath.Join(examples, "domain.yaml"), filepath.Join(examples, "problem-blocked.yaml")}
)

func newEnv(t *testing.T, opts Options) *Env {
	t.Helper()
	env, err := Setup(opts, io.Discard)
	require.NoError(t, err)
	return env
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{errors.New("boom"), ExitFailure},
		{fmt.Errorf("%w (max_expansions)", domain.ErrBudgetExceeded), ExitBudgetExceeded},
		{domain.ErrUnsolvable, ExitUnsolvable},
		{fmt.Errorf("load: %w", domain.ErrTypeMismatch), ExitInvalidModel},
		{config.ErrInvalidConfig, ExitInvalidModel},
		{domain.ErrGoalNotReached, ExitInvalidPlan},
		{context.Canceled, ExitInterrupted},
		{(&domain.Result{Outcome: domain.OutcomeBudgetExceeded, Reason: domain.ReasonCanceled}).Err(), ExitInterrupted},
		{(&domain.Result{Outcome: domain.OutcomeBudgetExceeded, Reason: domain.ReasonDeadline}).Err(), ExitBudgetExceeded},
		{&ExitError{Code: 42, Err: domain.ErrUnsolvable}, 42},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "%v", tt.err)
	}
}

func TestSetup(t *testing.T) {
	t.Run("Flags Override File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "strips.yaml")
		require.NoError(t, os.WriteFile(path, []byte("search:\n  max_expansions: 50\n  workers: 2\n"), 0644))

		env := newEnv(t, Options{
			ConfigPath: path,
			Budget:     10,
			Workers:    4,
			Changed:    func(name string) bool { return name == "budget" },
		})
		assert.Equal(t, 10, env.Config.Search.MaxExpansions)
		assert.Equal(t, 2, env.Config.Search.Workers, "workers was not set on the command line")
	})

	t.Run("Non-zero Values Without Changed", func(t *testing.T) {
		env := newEnv(t, Options{Timeout: time.Second, Generator: "linear", PruneStatic: true})
		assert.Equal(t, time.Second, env.Config.Search.Timeout)
		assert.Equal(t, "linear", env.Config.Search.Generator)
		assert.True(t, env.Config.Grounding.PruneStatic)
	})

	t.Run("Invalid Flag", func(t *testing.T) {
		_, err := Setup(Options{LogLevel: "loud"}, io.Discard)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("Missing Config", func(t *testing.T) {
		_, err := Setup(Options{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")}, io.Discard)
		assert.ErrorIs(t, err, config.ErrConfigNotFound)
	})

	t.Run("Logger Writes To Stderr", func(t *testing.T) {
		var stderr bytes.Buffer
		env, err := Setup(Options{LogLevel: "debug", LogFormat: "json"}, &stderr)
		require.NoError(t, err)
		env.Logger.Debug("hello")
		assert.Contains(t, stderr.String(), `"msg":"hello"`)
	})
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	base := config.Default().Cache

	t.Run("None", func(t *testing.T) {
		cfg := base
		cfg.Backend = config.CacheNone
		m, closeFn, err := NewCache(ctx, cfg, newEnv(t, Options{}).Logger)
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.NoError(t, closeFn())
	})

	t.Run("File", func(t *testing.T) {
		cfg := base
		cfg.Backend = config.CacheFile
		cfg.File.Dir = t.TempDir()
		m, _, err := NewCache(ctx, cfg, newEnv(t, Options{}).Logger)
		require.NoError(t, err)
		require.NotNil(t, m)
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := base
		cfg.Backend = config.CacheRedis
		cfg.Redis.Addr = mr.Addr()
		m, closeFn, err := NewCache(ctx, cfg, newEnv(t, Options{}).Logger)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.NoError(t, closeFn())
	})

	t.Run("Redis Unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := base
		cfg.Backend = config.CacheRedis
		cfg.Redis.Addr = addr
		_, _, err := NewCache(ctx, cfg, newEnv(t, Options{}).Logger)
		assert.ErrorContains(t, err, "failed to connect to redis")
	})

	t.Run("Unknown", func(t *testing.T) {
		cfg := base
		cfg.Backend = "etcd"
		_, _, err := NewCache(ctx, cfg, newEnv(t, Options{}).Logger)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestRunSolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Text", func(t *testing.T) {
		var out bytes.Buffer
		err := RunSolve(ctx, newEnv(t, Options{}), &out, SolveOptions{Paths: solvable})
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		assert.Len(t, lines, 16)
		assert.True(t, strings.HasPrefix(lines[0], "arrive "))
	})

	t.Run("JSON", func(t *testing.T) {
		var out bytes.Buffer
		err := RunSolve(ctx, newEnv(t, Options{}), &out, SolveOptions{Paths: solvable, Format: FormatJSON, NoCache: true})
		require.NoError(t, err)

		var resp ports.SolveResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.Equal(t, domain.OutcomeSolved, resp.Outcome)
		assert.Len(t, resp.Plan, 16)
		assert.False(t, resp.Cached)
	})

	t.Run("Cached In File Store", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "plans")
		path := filepath.Join(t.TempDir(), "strips.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cache:\n  backend: file\n  file:\n    dir: "+dir+"\n"), 0644))
		env := newEnv(t, Options{ConfigPath: path})

		var first, second bytes.Buffer
		require.NoError(t, RunSolve(ctx, env, &first, SolveOptions{Paths: solvable, Format: FormatJSON}))
		require.NoError(t, RunSolve(ctx, env, &second, SolveOptions{Paths: solvable, Format: FormatJSON}))

		var a, b ports.SolveResponse
		require.NoError(t, json.Unmarshal(first.Bytes(), &a))
		require.NoError(t, json.Unmarshal(second.Bytes(), &b))
		assert.False(t, a.Cached)
		assert.True(t, b.Cached)
		assert.Equal(t, a.Plan, b.Plan)
		assert.Equal(t, a.RunID, b.RunID)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Unsolvable", func(t *testing.T) {
		var out bytes.Buffer
		err := RunSolve(ctx, newEnv(t, Options{}), &out, SolveOptions{Paths: blocked})
		assert.ErrorIs(t, err, domain.ErrUnsolvable)
		assert.Equal(t, ExitUnsolvable, ExitCode(err))
		assert.Empty(t, out.String())
	})

	t.Run("Budget", func(t *testing.T) {
		var out bytes.Buffer
		err := RunSolve(ctx, newEnv(t, Options{Budget: 1}), &out, SolveOptions{Paths: solvable})
		assert.ErrorIs(t, err, domain.ErrBudgetExceeded)
		assert.Equal(t, ExitBudgetExceeded, ExitCode(err))
	})

	t.Run("Interrupted", func(t *testing.T) {
		env := newEnv(t, Options{})
		p, err := env.Open(ctx, solvable)
		require.NoError(t, err)

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		res, err := p.Solve(canceled)
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonCanceled, res.Reason)
		assert.ErrorIs(t, res.Err(), domain.ErrBudgetExceeded)
		assert.Equal(t, ExitInterrupted, ExitCode(res.Err()))

		err = RunSolve(canceled, env, io.Discard, SolveOptions{Paths: solvable, NoCache: true})
		require.Error(t, err)
		assert.Equal(t, ExitInterrupted, ExitCode(err))
	})

	t.Run("Bad Format", func(t *testing.T) {
		err := RunSolve(ctx, newEnv(t, Options{}), io.Discard, SolveOptions{Paths: solvable, Format: "xml"})
		assert.ErrorContains(t, err, "unknown output format")
	})

	t.Run("Missing Model", func(t *testing.T) {
		err := RunSolve(ctx, newEnv(t, Options{}), io.Discard, SolveOptions{})
		assert.ErrorIs(t, err, domain.ErrMalformed)
		assert.Equal(t, ExitInvalidModel, ExitCode(err))
	})
}

func TestRunGround(t *testing.T) {
	var out bytes.Buffer
	err := RunGround(context.Background(), newEnv(t, Options{PruneStatic: true}), &out, GroundOptions{
		Paths:   solvable,
		Actions: true,
	})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "task:    four-cars\n")
	assert.Contains(t, s, "actions: 16\n")
	assert.Contains(t, s, "agents:  a1, a2, a3, a4\n")
	assert.Contains(t, s, "  drive a1 cross-se cross-ne north\n")
	assert.NotContains(t, s, "initial state:")
}

func TestRunValidate(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t, Options{})

	var solved bytes.Buffer
	require.NoError(t, RunSolve(ctx, env, &solved, SolveOptions{Paths: solvable, NoCache: true}))

	t.Run("Valid From Stdin", func(t *testing.T) {
		var out bytes.Buffer
		in := strings.NewReader("# plan\n" + solved.String())
		err := RunValidate(ctx, env, in, &out, ValidateOptions{Paths: solvable, Plan: "-"})
		require.NoError(t, err)
		assert.Equal(t, "Plan is valid (16 steps)\n", out.String())
	})

	t.Run("Goal Not Reached", func(t *testing.T) {
		lines := strings.Split(strings.TrimSpace(solved.String()), "\n")
		path := filepath.Join(t.TempDir(), "plan.txt")
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines[:15], "\n")), 0644))

		var out bytes.Buffer
		err := RunValidate(ctx, env, nil, &out, ValidateOptions{Paths: solvable, Plan: path, Format: FormatJSON})
		assert.ErrorIs(t, err, domain.ErrGoalNotReached)
		assert.Equal(t, ExitInvalidPlan, ExitCode(err))

		var resp ports.ValidateResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.False(t, resp.Valid)
		assert.Equal(t, 15, resp.Length)
	})

	t.Run("Unknown Action", func(t *testing.T) {
		err := RunValidate(ctx, env, strings.NewReader("fly a1 south-ent north-ex\n"), io.Discard,
			ValidateOptions{Paths: solvable, Plan: "-"})
		assert.ErrorIs(t, err, domain.ErrUnknownSymbol)
		assert.Equal(t, ExitInvalidPlan, ExitCode(err))
	})

	t.Run("Missing Plan File", func(t *testing.T) {
		err := RunValidate(ctx, env, nil, io.Discard, ValidateOptions{Paths: solvable, Plan: "does-not-exist.txt"})
		assert.ErrorContains(t, err, "failed to open plan")
	})
}

func TestRunAgents(t *testing.T) {
	var out bytes.Buffer
	err := RunAgents(context.Background(), newEnv(t, Options{}), &out, solvable, FormatText)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "AGENT")
	for _, a := range []string{"a1", "a2", "a3", "a4"} {
		assert.Regexp(t, a+`\s+\d+\s+solved\s+4`, s)
	}
	assert.Contains(t, s, "verdict: single_agent_solvable")

	t.Run("Blocked JSON", func(t *testing.T) {
		var out bytes.Buffer
		err := RunAgents(context.Background(), newEnv(t, Options{}), &out, blocked, FormatJSON)
		require.NoError(t, err)

		var report agentsJSON
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.Equal(t, "non_robust_single_agent", report.Verdict)
		require.Len(t, report.Agents, 4)
		assert.Equal(t, "unsolvable", report.Agents[0].Outcome)
	})
}

func TestRunGraph(t *testing.T) {
	ctx := context.Background()

	t.Run("Solved Plan", func(t *testing.T) {
		var out bytes.Buffer
		err := RunGraph(ctx, newEnv(t, Options{}), nil, &out, GraphOptions{Paths: solvable})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out.String(), "graph TD\n"))
		assert.Contains(t, out.String(), "class s16 goal;")
	})

	t.Run("Unsolvable", func(t *testing.T) {
		err := RunGraph(ctx, newEnv(t, Options{}), nil, io.Discard, GraphOptions{Paths: blocked})
		assert.ErrorIs(t, err, domain.ErrUnsolvable)
	})

	t.Run("Given Plan", func(t *testing.T) {
		var out bytes.Buffer
		in := strings.NewReader("arrive a1 south-ent\n")
		err := RunGraph(ctx, newEnv(t, Options{}), in, &out, GraphOptions{Paths: solvable, Plan: "-"})
		require.NoError(t, err)
		assert.Contains(t, out.String(), `s0 -- "arrive a1 south-ent" --> s1`)
		assert.NotContains(t, out.String(), "class s1 goal;")
	})
}

func TestRunExport(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t, Options{})
	dir := t.TempDir()

	var out bytes.Buffer
	paths := append(slices.Clone(solvable), filepath.Join(examples, "problem-blocked.yaml"))
	require.NoError(t, RunExport(ctx, env, &out, paths, dir))
	assert.Contains(t, out.String(), "Exported domain intersection and 2 problem(s)")

	env.Problem = "four-cars"
	var plan bytes.Buffer
	require.NoError(t, RunSolve(ctx, env, &plan, SolveOptions{Paths: []string{dir}, NoCache: true}))
	assert.Len(t, strings.Split(strings.TrimSpace(plan.String()), "\n"), 16)
}

func TestNewService(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t, Options{})
	reg := prometheus.NewRegistry()

	svc, closeFn, err := NewService(ctx, env, reg)
	require.NoError(t, err)
	defer closeFn()

	data, err := os.ReadFile(filepath.Join(examples, "domain.yaml"))
	require.NoError(t, err)
	prob, err := os.ReadFile(filepath.Join(examples, "problem.yaml"))
	require.NoError(t, err)
	model, err := document.Unmarshal(append(append(data, '\n'), prob...))
	require.NoError(t, err)

	resp, err := svc.Solve(ctx, ports.SolveRequest{Model: *model})
	require.NoError(t, err)
	assert.Len(t, resp.Plan, 16)

	resp, err = svc.Solve(ctx, ports.SolveRequest{Model: *model})
	require.NoError(t, err)
	assert.True(t, resp.Cached, "the default memory cache serves the second request")

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "strips_searches_total")
}

func TestPlansCommands(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "strips.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  backend: file\n  file:\n    dir: "+dir+"\n"), 0644))
	env := newEnv(t, Options{ConfigPath: path})

	var out bytes.Buffer
	require.NoError(t, RunPlansList(ctx, env, &out))
	assert.Equal(t, "No stored plans found.\n", out.String())

	require.NoError(t, RunSolve(ctx, env, io.Discard, SolveOptions{Paths: solvable}))

	out.Reset()
	require.NoError(t, RunPlansList(ctx, env, &out))
	key := strings.TrimSpace(out.String())
	assert.Len(t, key, 16, "keys are hex fingerprints")

	out.Reset()
	require.NoError(t, RunPlansInspect(ctx, env, &out, key))
	var rec domain.PlanRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "four-cars", rec.Problem)
	assert.Len(t, rec.Actions, 16)

	out.Reset()
	require.NoError(t, RunPlansRemove(ctx, env, &out, []string{key}))
	assert.Contains(t, out.String(), "Removed plan")

	err := RunPlansInspect(ctx, env, io.Discard, key)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	disabled := newEnv(t, Options{})
	disabled.Config.Cache.Backend = config.CacheNone
	assert.ErrorIs(t, RunPlansList(ctx, disabled, io.Discard), ErrCacheDisabled)
}

func TestNewCache_Encryption(t *testing.T) {
	ctx := context.Background()
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	dir := t.TempDir()

	cfg := config.Default().Cache
	cfg.Backend = config.CacheFile
	cfg.File.Dir = dir
	cfg.Encryption.Key = key
	env := newEnv(t, Options{})
	env.Config.Cache = cfg

	require.NoError(t, RunSolve(ctx, env, io.Discard, SolveOptions{Paths: solvable}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sealed"`)
	assert.NotContains(t, string(raw), "arrive a1")

	var out bytes.Buffer
	require.NoError(t, RunSolve(ctx, env, &out, SolveOptions{Paths: solvable, Format: FormatJSON}))
	assert.Contains(t, out.String(), `"cached": true`)

	t.Run("Bad Key", func(t *testing.T) {
		bad := cfg
		bad.Encryption.Key = base64.StdEncoding.EncodeToString([]byte("short"))
		_, _, err := NewCache(ctx, bad, env.Logger)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)

		bad.Encryption.Key = "%%%"
		_, _, err = NewCache(ctx, bad, env.Logger)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}
