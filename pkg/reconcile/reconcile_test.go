package reconcile_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mcpsync/pkg/document"
	mcperrors "github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/reconcile"
)

func servers(t *testing.T, pairs ...string) *document.ServerMap {
	t.Helper()
	require.Zero(t, len(pairs)%2, "pairs must be name/definition couples")
	m := document.NewServerMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i], json.RawMessage(pairs[i+1]))
	}
	return m
}

func TestMergeUnion(t *testing.T) {
	// Three files with maps {"a":1}, {"b":2}, {"a":1,"c":3}: "a" is
	// identical so no conflict, union is {"a","b","c"}.
	reg, conflicts := reconcile.Merge([]reconcile.Source{
		{Path: "f1.json", Servers: servers(t, "a", `{"command":"one"}`)},
		{Path: "f2.json", Servers: servers(t, "b", `{"command":"two"}`)},
		{Path: "f3.json", Servers: servers(t, "a", `{"command":"one"}`, "c", `{"command":"three"}`)},
	})

	assert.Empty(t, conflicts)
	assert.Equal(t, []string{"a", "b", "c"}, reg.Names())

	a, ok := reg.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"f1.json", "f3.json"}, a.Origins)
}

func TestMergeFirstSeenWins(t *testing.T) {
	reg, conflicts := reconcile.Merge([]reconcile.Source{
		{Path: "f1.json", Servers: servers(t, "x", `{"command":"A"}`)},
		{Path: "f2.json", Servers: servers(t, "x", `{"command":"B"}`)},
	})

	x, ok := reg.Get("x")
	require.True(t, ok)
	assert.JSONEq(t, `{"command":"A"}`, string(x.Definition))

	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, "x", c.Name)
	assert.Equal(t, "f1.json", c.Winner.Path)
	assert.JSONEq(t, `{"command":"A"}`, string(c.Winner.Definition))
	require.Len(t, c.Losers, 1)
	assert.Equal(t, "f2.json", c.Losers[0].Path)
	assert.JSONEq(t, `{"command":"B"}`, string(c.Losers[0].Definition))
}

func TestMergeStructuralEquality(t *testing.T) {
	// Key order and whitespace differences are not conflicts.
	reg, conflicts := reconcile.Merge([]reconcile.Source{
		{Path: "f1.json", Servers: servers(t, "x", `{"command":"a","args":["1"]}`)},
		{Path: "f2.json", Servers: servers(t, "x", `{ "args": ["1"], "command": "a" }`)},
	})

	assert.Empty(t, conflicts)
	assert.Equal(t, 1, reg.Len())
}

func TestMergeThreeWayConflictAggregates(t *testing.T) {
	_, conflicts := reconcile.Merge([]reconcile.Source{
		{Path: "f1.json", Servers: servers(t, "x", `{"v":1}`)},
		{Path: "f2.json", Servers: servers(t, "x", `{"v":2}`)},
		{Path: "f3.json", Servers: servers(t, "x", `{"v":3}`)},
	})

	require.Len(t, conflicts, 1)
	assert.Len(t, conflicts[0].Losers, 2)
}

func TestMergeEmptySources(t *testing.T) {
	reg, conflicts := reconcile.Merge(nil)
	assert.Zero(t, reg.Len())
	assert.Empty(t, conflicts)

	reg, conflicts = reconcile.Merge([]reconcile.Source{{Path: "f1.json", Servers: nil}})
	assert.Zero(t, reg.Len())
	assert.Empty(t, conflicts)
}

func TestMergeIdempotence(t *testing.T) {
	sources := []reconcile.Source{
		{Path: "f1.json", Servers: servers(t, "a", `{"v":1}`, "b", `{"v":2}`)},
		{Path: "f2.json", Servers: servers(t, "b", `{"v":9}`)},
	}

	first, firstConflicts := reconcile.Merge(sources)

	// A second run over the already-merged state sees no new conflicts and
	// the same registry.
	merged := []reconcile.Source{
		{Path: "f1.json", Servers: first.ServerMap()},
		{Path: "f2.json", Servers: first.ServerMap()},
	}
	second, secondConflicts := reconcile.Merge(merged)

	require.Len(t, firstConflicts, 1)
	assert.Empty(t, secondConflicts)
	assert.Equal(t, first.Names(), second.Names())
	for _, name := range first.Names() {
		a, _ := first.Get(name)
		b, _ := second.Get(name)
		assert.JSONEq(t, string(a.Definition), string(b.Definition))
	}
}

func TestRemove(t *testing.T) {
	reg, _ := reconcile.Merge([]reconcile.Source{
		{Path: "f1.json", Servers: servers(t,
			"x", `{"v":1}`,
			"y", `{"v":2}`,
			"z", `{"v":3}`,
		)},
	})

	t.Run("removes exactly the requested names", func(t *testing.T) {
		out, err := reg.Remove("x", "y")
		require.NoError(t, err)
		assert.Equal(t, []string{"z"}, out.Names())

		// Original registry is untouched.
		assert.Equal(t, 3, reg.Len())
	})

	t.Run("unknown names reported together", func(t *testing.T) {
		_, err := reg.Remove("x", "nope", "also-nope")
		require.Error(t, err)
		assert.True(t, mcperrors.IsNotFound(err))

		var unknown *mcperrors.UnknownServersError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, []string{"nope", "also-nope"}, unknown.Names)
	})
}

func TestRegistrySorted(t *testing.T) {
	reg, _ := reconcile.Merge([]reconcile.Source{
		{Path: "f1.json", Servers: servers(t, "zeta", `{}`, "alpha", `{}`, "mid", `{}`)},
	})

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, reg.Names())
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Sorted())
}

func ExampleMerge() {
	m1 := document.NewServerMap()
	m1.Set("github", json.RawMessage(`{"command":"gh-mcp"}`))
	m2 := document.NewServerMap()
	m2.Set("github", json.RawMessage(`{"command":"other"}`))

	reg, conflicts := reconcile.Merge([]reconcile.Source{
		{Path: "claude.json", Servers: m1},
		{Path: "cursor.json", Servers: m2},
	})

	entry, _ := reg.Get("github")
	fmt.Println(string(entry.Definition))
	fmt.Println(len(conflicts))
	// Output:
	// {"command":"gh-mcp"}
	// 1
}
