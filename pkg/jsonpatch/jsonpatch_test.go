package jsonpatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapTarget is a flat target over a fixed field set.
type mapTarget struct {
	fields map[string]string
}

func newMapTarget(fields map[string]string) *mapTarget {
	return &mapTarget{fields: fields}
}

func (m *mapTarget) Get(field string) (string, bool) {
	v, ok := m.fields[field]
	return v, ok
}

func (m *mapTarget) Set(field, value string) bool {
	if _, ok := m.fields[field]; !ok {
		return false
	}
	m.fields[field] = value
	return true
}

func (m *mapTarget) Clear(field string) bool {
	if _, ok := m.fields[field]; !ok {
		return false
	}
	m.fields[field] = ""
	return true
}

func TestApply_ReplaceAndAdd(t *testing.T) {
	target := newMapTarget(map[string]string{"login": "alice", "firstName": ""})

	errs := Apply(Document{
		{Op: OpReplace, Path: "/login", Value: "bob"},
		{Op: OpAdd, Path: "/firstName", Value: "Bob"},
	}, target)

	require.Empty(t, errs)
	assert.Equal(t, "bob", target.fields["login"])
	assert.Equal(t, "Bob", target.fields["firstName"])
}

func TestApply_Remove(t *testing.T) {
	target := newMapTarget(map[string]string{"firstName": "Alice"})

	errs := Apply(Document{{Op: OpRemove, Path: "/firstName"}}, target)

	require.Empty(t, errs)
	assert.Equal(t, "", target.fields["firstName"])
}

func TestApply_MoveAndCopy(t *testing.T) {
	t.Run("move clears the source", func(t *testing.T) {
		target := newMapTarget(map[string]string{"firstName": "Alice", "lastName": ""})

		errs := Apply(Document{{Op: OpMove, From: "/firstName", Path: "/lastName"}}, target)

		require.Empty(t, errs)
		assert.Equal(t, "", target.fields["firstName"])
		assert.Equal(t, "Alice", target.fields["lastName"])
	})

	t.Run("copy keeps the source", func(t *testing.T) {
		target := newMapTarget(map[string]string{"firstName": "Alice", "lastName": ""})

		errs := Apply(Document{{Op: OpCopy, From: "/firstName", Path: "/lastName"}}, target)

		require.Empty(t, errs)
		assert.Equal(t, "Alice", target.fields["firstName"])
		assert.Equal(t, "Alice", target.fields["lastName"])
	})
}

func TestApply_Test(t *testing.T) {
	target := newMapTarget(map[string]string{"login": "alice"})

	t.Run("matching value passes", func(t *testing.T) {
		errs := Apply(Document{{Op: OpTest, Path: "/login", Value: "alice"}}, target)
		assert.Empty(t, errs)
	})

	t.Run("mismatch is reported", func(t *testing.T) {
		errs := Apply(Document{{Op: OpTest, Path: "/login", Value: "bob"}}, target)
		require.Len(t, errs["login"], 1)
		assert.Contains(t, errs["login"][0], "does not match")
	})
}

func TestApply_UnknownField(t *testing.T) {
	target := newMapTarget(map[string]string{"login": "alice"})

	errs := Apply(Document{{Op: OpReplace, Path: "/nickname", Value: "x"}}, target)

	require.Len(t, errs["nickname"], 1)
	assert.Contains(t, errs["nickname"][0], `unknown field "nickname"`)
	assert.Equal(t, "alice", target.fields["login"])
}

func TestApply_NonStringValue(t *testing.T) {
	target := newMapTarget(map[string]string{"login": "alice"})

	errs := Apply(Document{{Op: OpReplace, Path: "/login", Value: float64(42)}}, target)

	require.Len(t, errs["login"], 1)
	assert.Contains(t, errs["login"][0], "must be a string")
	assert.Equal(t, "alice", target.fields["login"])
}

func TestApply_CollectsAllErrors(t *testing.T) {
	target := newMapTarget(map[string]string{"login": "alice", "firstName": ""})

	errs := Apply(Document{
		{Op: OpReplace, Path: "/nope", Value: "x"},
		{Op: OpReplace, Path: "/firstName", Value: "Bob"},
		{Op: "rename", Path: "/login"},
	}, target)

	// Failed ops are reported, the valid one still applies.
	assert.Len(t, errs, 2)
	assert.Equal(t, "Bob", target.fields["firstName"])
	assert.Contains(t, errs["login"][0], `unsupported operation "rename"`)
}

func TestApply_MissingPath(t *testing.T) {
	target := newMapTarget(map[string]string{"login": "alice"})

	errs := Apply(Document{{Op: OpReplace, Value: "x"}}, target)

	require.Len(t, errs["path"], 1)
	assert.Contains(t, errs["path"][0], "missing path")
}
