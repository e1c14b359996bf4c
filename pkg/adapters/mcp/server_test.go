package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/strips"
	"github.com/aretw0/strips/internal/testutils"
	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelYAML(t *testing.T, without ...string) string {
	t.Helper()
	b := document.FromModel(testutils.IntersectionDomain(), testutils.IntersectionProblem(testutils.IntersectionCars, without...))
	data, err := document.Marshal(b)
	require.NoError(t, err)
	return string(data)
}

func newServer() *Server {
	return NewServer(strips.NewService(nil), nil)
}

func TestHandleSolve(t *testing.T) {
	s := newServer()
	ctx := context.Background()

	resp, err := s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"model": modelYAML(t)})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSolved, resp.Outcome)
	assert.Len(t, resp.Plan, 16)

	resp, err = s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"model":          modelYAML(t),
		"max_expansions": float64(1),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeBudgetExceeded, resp.Outcome)

	resp, err = s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"model": modelYAML(t, "cross-se cross-ne north")})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUnsolvable, resp.Outcome)
}

func TestHandleSolve_ModelAsObject(t *testing.T) {
	s := newServer()
	model := map[string]interface{}{
		"domain": map[string]interface{}{
			"name":       "lamp",
			"predicates": []interface{}{"lit"},
			"actions": []interface{}{
				map[string]interface{}{"name": "light", "effect": []interface{}{"lit"}},
			},
		},
		"problem": map[string]interface{}{
			"name": "dark",
			"goal": []interface{}{"lit"},
		},
	}

	resp, err := s.handleSolve(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"model": model})
	require.NoError(t, err)
	assert.Equal(t, []string{"light"}, resp.Plan)
}

func TestHandleSolve_BadModel(t *testing.T) {
	s := newServer()
	ctx := context.Background()

	_, err := s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
	assert.Error(t, err)

	_, err = s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"model": 42})
	assert.Error(t, err)

	_, err = s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"model": "domain: [unclosed"})
	assert.ErrorIs(t, err, domain.ErrMalformed)
}

func TestHandleGround(t *testing.T) {
	s := newServer()

	resp, err := s.handleGround(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"model": modelYAML(t)})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, resp.Agents)
	assert.Contains(t, resp.Actions, "arrive a1 south-ent")
}

func TestHandleValidate(t *testing.T) {
	s := newServer()
	ctx := context.Background()
	model := modelYAML(t)

	solved, err := s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"model": model})
	require.NoError(t, err)

	resp, err := s.handleValidate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"model": model,
		"plan":  strings.Join(solved.Plan, "\n"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Valid, resp.Error)

	resp, err = s.handleValidate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"model": model,
		"plan":  "drive a1 cross-se cross-ne north",
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Error, "step 1")
}
