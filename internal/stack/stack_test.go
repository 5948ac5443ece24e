package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_PushPopOrder(t *testing.T) {
	e := New()
	e.Push("Name", "", "a")
	e.Push("Name", "", "b")
	e.Push("Name", "", "c")

	v, ok := e.PopSingle("Name")
	require.True(t, ok)
	assert.Equal(t, "c", v)

	all := e.PopAll("Name")
	assert.Equal(t, []any{"a", "b"}, all)
	assert.Equal(t, 0, e.Len("Name"))

	_, ok = e.PopSingle("Name")
	assert.False(t, ok)
	_, ok = e.PopSingle("Missing")
	assert.False(t, ok)
}

func TestEngine_KeyCollisionRekeys(t *testing.T) {
	e := New()
	e.Push("Code", "A", "first")
	e.Push("Code", "A", "second")

	// Neither entry is lost; the explicit key no longer resolves because
	// both were re-keyed.
	assert.Equal(t, 2, e.Len("Code"))
	_, ok := e.GetByKey("Code", "A")
	assert.False(t, ok)
	assert.Equal(t, []any{"first", "second"}, e.PopAll("Code"))
}

func TestEngine_GetByKey(t *testing.T) {
	e := New()
	e.Push("Codelist", "CL_FREQ", 1)
	e.Push("Codelist", "CL_UNIT", 2)

	v, ok := e.GetByKey("Codelist", "CL_FREQ")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// GetByKey does not consume.
	assert.Equal(t, 2, e.Len("Codelist"))
}

func TestEngine_GetSingle(t *testing.T) {
	e := New()
	_, ok := e.GetSingle("Reference")
	assert.False(t, ok)

	e.Push("Reference", "", "only")
	v, ok := e.GetSingle("Reference")
	require.True(t, ok)
	assert.Equal(t, "only", v)

	e.Push("Reference", "", "another")
	_, ok = e.GetSingle("Reference")
	assert.False(t, ok, "two entries are not a single")
}

func TestEngine_StashUnstash(t *testing.T) {
	e := New()
	e.Push("Name", "", "scheme name")
	e.Stash("Name", "Description")

	// The inner element sees empty stacks.
	assert.Equal(t, 0, e.Len("Name"))
	e.Push("Name", "", "item name")

	v, ok := e.PopSingle("Name")
	require.True(t, ok)
	assert.Equal(t, "item name", v)

	require.NoError(t, e.Unstash())
	assert.Equal(t, 0, e.StashDepth())

	v, ok = e.PopSingle("Name")
	require.True(t, ok)
	assert.Equal(t, "scheme name", v, "outer fragment restored")
}

func TestEngine_UnstashKeepsInnerLeftovers(t *testing.T) {
	e := New()
	e.Push("Name", "", "outer")
	e.Stash("Name")
	e.Push("Name", "", "inner")
	require.NoError(t, e.Unstash())

	// Stashed entries come back before anything pushed since the stash.
	assert.Equal(t, []any{"outer", "inner"}, e.PopAll("Name"))
}

func TestEngine_UnstashWithoutStash(t *testing.T) {
	e := New()
	assert.Error(t, e.Unstash())
}

func TestEngine_PopAllFunc(t *testing.T) {
	e := New()
	for _, n := range []int{1, 2, 3, 4} {
		e.Push("N", "", n)
	}
	even := e.PopAllFunc("N", func(v any) bool { return v.(int)%2 == 0 })
	assert.Equal(t, []any{2, 4}, even)
	assert.Equal(t, []any{1, 3}, e.PopAll("N"))
}

func TestEngine_Scan(t *testing.T) {
	e := New()
	e.Push("Codelist", "CL_A", "a")
	e.Push("ConceptScheme", "CS", "cs")
	e.Push("Codelist", "CL_B", "b")

	var seen []string
	e.Scan(
		func(name string) bool { return name == "Codelist" },
		func(_ string, v any) bool {
			seen = append(seen, v.(string))
			return true
		})
	assert.Equal(t, []string{"a", "b"}, seen)

	// Early stop.
	seen = nil
	e.Scan(
		func(string) bool { return true },
		func(_ string, v any) bool {
			seen = append(seen, v.(string))
			return false
		})
	assert.Len(t, seen, 1)
}

func TestEngine_UncollectedHonorsMarkIgnore(t *testing.T) {
	e := New()
	placeholder := &struct{ id string }{"EXT"}
	e.Push("DataStructure", "EXT", placeholder)
	e.Push("Observation", "", "orphan")
	e.MarkIgnore(placeholder)

	left := e.Uncollected()
	assert.Equal(t, []string{"Observation"}, left)

	e.PopAll("Observation")
	assert.Empty(t, e.Uncollected())
}

func TestEngine_Remove(t *testing.T) {
	e := New()
	e.Push("Tmp", "", 1)
	e.Push("Tmp", "", 2)
	assert.Equal(t, []any{1, 2}, e.Remove("Tmp"))
	assert.Equal(t, 0, e.Len("Tmp"))
}
