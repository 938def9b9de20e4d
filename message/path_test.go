package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWellKnownPaths(t *testing.T) {
	m := NewUser("hello")
	assert.Same(t, m, m.Get(PathRoot, nil).(*Message))
	assert.Equal(t, "hello", m.Get(PathText, nil))
}

func TestSetText(t *testing.T) {
	m := NewAI("foo")
	require.NoError(t, m.Set(PathText, "bar"))
	assert.Equal(t, "bar", m.Text())

	// Root path also addresses the text slot.
	require.NoError(t, m.Set(PathRoot, "baz"))
	assert.Equal(t, "baz", m.Text())

	// Non-string text is a type error.
	assert.Error(t, m.Set(PathText, 42))
}

func TestSetGetDuality(t *testing.T) {
	m := NewAI("foo")

	require.NoError(t, m.Set("x", 1))
	assert.Equal(t, 1, m.Get("x", nil))

	require.NoError(t, m.Set("a.b.c", "deep"))
	assert.Equal(t, "deep", m.Get("a.b.c", nil))

	// Intermediate containers were created.
	_, ok := m.Get("a.b", nil).(map[string]any)
	assert.True(t, ok)
}

func TestSetIndexedPaths(t *testing.T) {
	m := NewAI("foo", func(o *Options) {
		o.Metadata = map[string]any{"x": map[string]any{"k": []any{0, 1}}}
	})

	require.NoError(t, m.Set("x.k[0]", 9))
	assert.Equal(t, 9, m.Get("x.k[0]", nil))
	assert.Equal(t, 1, m.Get("x.k[1]", nil))

	// Appending at len is allowed.
	require.NoError(t, m.Set("x.k[2]", 2))
	assert.Equal(t, 2, m.Get("x.k[2]", nil))

	// Beyond len is an error.
	assert.Error(t, m.Set("x.k[9]", 0))

	// Indexing a non-sequence is an error.
	assert.Error(t, m.Set("x.k[0][0]", 0))
}

func TestGetDefaults(t *testing.T) {
	m := NewUser("hi")
	assert.Equal(t, "fallback", m.Get("nope", "fallback"))
	assert.Equal(t, "fallback", m.Get("a.b[3].c", "fallback"))
	assert.Nil(t, m.Get("nope", nil))

	// Malformed paths also fall back to the default, never panic.
	assert.Equal(t, "fallback", m.Get("a..b", "fallback"))
	assert.Equal(t, "fallback", m.Get("a[", "fallback"))
}

func TestDeletionWithMissing(t *testing.T) {
	m := NewAI("foo", func(o *Options) {
		o.Metadata = map[string]any{"y": 2, "x": map[string]any{"k": []any{0, 1}}}
	})

	require.NoError(t, m.Set("y", Missing))
	assert.Equal(t, "gone", m.Get("y", "gone"))

	// Sequence elements are spliced out.
	require.NoError(t, m.Set("x.k[0]", Missing))
	assert.Equal(t, []any{1}, m.Get("x.k", nil))

	// Deleting an absent path is a silent no-op.
	require.NoError(t, m.Set("never.was", Missing))
}

func TestNoOpSetLeavesNoRecord(t *testing.T) {
	m := NewAI("foo", func(o *Options) { o.Metadata = map[string]any{"x": 1} })

	m.UpdateScope(func() {
		require.NoError(t, m.Set("x", 1))
		require.NoError(t, m.Set(PathText, "foo"))
		assert.False(t, m.Modified())
	})
}

func TestSetRecordsUpdates(t *testing.T) {
	m := NewAI("foo", func(o *Options) { o.Metadata = map[string]any{"x": 1} })

	m.UpdateScope(func() {
		require.NoError(t, m.Set("x", 2))
		require.NoError(t, m.Set("fresh", "v"))
		require.NoError(t, m.Set(PathText, "bar"))

		updates := m.Updates()
		require.Len(t, updates, 3)
		assert.Equal(t, FieldUpdate{Path: "x", OldValue: 1, NewValue: 2}, updates["x"])
		assert.Equal(t, any(Missing), updates["fresh"].OldValue)
		assert.Equal(t, "v", updates["fresh"].NewValue)
		assert.Equal(t, FieldUpdate{Path: PathText, OldValue: "foo", NewValue: "bar"}, updates[PathText])
	})
}

func TestPyglovStyleExample(t *testing.T) {
	// m.set('text', 'bar'); m.set('x.k[0]', 1); m.set('y', MISSING)
	m := NewAI("foo", func(o *Options) {
		o.Metadata = map[string]any{"x": map[string]any{"k": []any{0, 1}}, "y": 2}
	})
	require.NoError(t, m.Set("text", "bar"))
	require.NoError(t, m.Set("x.k[0]", 1))
	require.NoError(t, m.Set("y", Missing))

	want := NewAI("bar", func(o *Options) {
		o.Metadata = map[string]any{"x": map[string]any{"k": []any{1, 1}}}
	})
	assert.True(t, m.Equal(want))
}
