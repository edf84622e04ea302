package differ_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mcpsync/pkg/differ"
	"github.com/agentstation/mcpsync/pkg/document"
)

func serverMap(pairs ...string) *document.ServerMap {
	m := document.NewServerMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i], json.RawMessage(pairs[i+1]))
	}
	return m
}

func TestDiff(t *testing.T) {
	current := serverMap(
		"keep", `{"v":1}`,
		"change", `{"v":2}`,
		"drop", `{"v":3}`,
	)
	desired := serverMap(
		"keep", `{"v":1}`,
		"change", `{"v":20}`,
		"new", `{"v":4}`,
	)

	cs := differ.Diff(current, desired)

	assert.Equal(t, []string{"new"}, cs.Added)
	assert.Equal(t, []string{"drop"}, cs.Removed)
	require.Len(t, cs.Changed, 1)
	assert.Equal(t, "change", cs.Changed[0].Name)
	assert.JSONEq(t, `{"v":2}`, string(cs.Changed[0].Old))
	assert.JSONEq(t, `{"v":20}`, string(cs.Changed[0].New))
	assert.Equal(t, 3, cs.Total())
	assert.False(t, cs.IsEmpty())
}

func TestDiffNoChanges(t *testing.T) {
	// Structural equality: whitespace and key order are not changes.
	current := serverMap("x", `{"a":1,"b":2}`)
	desired := serverMap("x", `{ "b": 2, "a": 1 }`)

	cs := differ.Diff(current, desired)
	assert.True(t, cs.IsEmpty())
	assert.Equal(t, "no changes", cs.String())
}

func TestDiffEmptyCurrent(t *testing.T) {
	cs := differ.Diff(document.NewServerMap(), serverMap("a", `{}`, "b", `{}`))
	assert.Equal(t, []string{"a", "b"}, cs.Added)
	assert.Empty(t, cs.Removed)
	assert.Empty(t, cs.Changed)
}

func TestChangesetString(t *testing.T) {
	cs := differ.Diff(
		serverMap("old", `{"v":1}`, "edit", `{"v":1}`),
		serverMap("edit", `{"v":2}`, "new", `{"v":1}`),
	)
	s := cs.String()
	assert.Contains(t, s, "1 added (new)")
	assert.Contains(t, s, "1 changed (edit)")
	assert.Contains(t, s, "1 removed (old)")
}
