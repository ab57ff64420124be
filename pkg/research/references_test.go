package research

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReferenceIndex(t *testing.T) {
	results := []SearchResult{
		{Sources: []string{"a", "b"}},
		{Sources: []string{"b", "c"}},
	}

	refs := BuildReferenceIndex(results)

	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, refs.Map())
	assert.Equal(t, []string{"a", "b", "c"}, refs.URLs())
	assert.Equal(t, 3, refs.Len())
}

func TestBuildReferenceIndexSkipsEmptyAndDuplicates(t *testing.T) {
	results := []SearchResult{
		{Sources: []string{"", "x", "x"}},
		{Sources: nil},
		{Sources: []string{"y", "", "x"}},
	}

	refs := BuildReferenceIndex(results)

	assert.Equal(t, []string{"x", "y"}, refs.URLs())
	n, ok := refs.Number("y")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = refs.Number("")
	assert.False(t, ok)
	assert.Equal(t, "[1]", refs.Citation("x"))
	assert.Equal(t, "", refs.Citation("missing"))
}

func TestReferenceIndexNilSafe(t *testing.T) {
	var refs *ReferenceIndex
	assert.Equal(t, 0, refs.Len())
	assert.Empty(t, refs.URLs())
	assert.Equal(t, "", refs.Citation("a"))
}

func TestReferenceIndexJSON(t *testing.T) {
	refs := BuildReferenceIndex([]SearchResult{{Sources: []string{"u1", "u2"}}})

	data, err := json.Marshal(refs)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"number":1,"url":"u1"},{"number":2,"url":"u2"}]`, string(data))
}
