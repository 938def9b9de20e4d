package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds root -> m1 -> m2 -> m3 with each source pointing backward.
func chain() (root, m1, m2, m3 *Message) {
	root = NewUser("root")
	m1 = NewAI("m1", func(o *Options) { o.Source = root })
	m2 = NewAI("m2", func(o *Options) { o.Source = m1 })
	m3 = NewAI("m3", func(o *Options) { o.Source = m2 })
	return
}

func TestRoot(t *testing.T) {
	root, _, _, m3 := chain()
	assert.Same(t, root, m3.Root())
	assert.Same(t, root, root.Root())
}

func TestTraceChronologicalOrder(t *testing.T) {
	root, m1, m2, m3 := chain()
	got := m3.Trace("")
	require.Len(t, got, 4)
	assert.Same(t, root, got[0])
	assert.Same(t, m1, got[1])
	assert.Same(t, m2, got[2])
	assert.Same(t, m3, got[3])
}

func TestTraceFiltered(t *testing.T) {
	_, m1, _, m3 := chain()
	m1.Tag("special")
	m3.Tag("special")

	got := m3.Trace("special")
	require.Len(t, got, 2)
	assert.Same(t, m1, got[0])
	assert.Same(t, m3, got[1])
}

func TestLast(t *testing.T) {
	_, m1, _, m3 := chain()
	m1.Tag("special")

	assert.Same(t, m1, m3.Last("special"))
	assert.Nil(t, m3.Last("absent"))
}

func TestLMAccessors(t *testing.T) {
	root, m1, m2, m3 := chain()
	root.Tag(TagLMInput)
	m1.Tag(TagLMResponse)
	m2.Tag(TagLMInput)
	m3.Tag(TagLMOutput)

	inputs := m3.LMInputs()
	require.Len(t, inputs, 2)
	assert.Same(t, root, inputs[0])
	assert.Same(t, m2, inputs[1])

	require.Len(t, m3.LMResponses(), 1)
	require.Len(t, m3.LMOutputs(), 1)

	assert.Same(t, m2, m3.LMInput())
	assert.Same(t, m1, m3.LMResponse())
	assert.Same(t, m3, m3.LMOutput())
	assert.Nil(t, m2.LMOutput())
}

func TestSourceIsSharedNotCopied(t *testing.T) {
	root, _, _, m3 := chain()
	root.Tag("late-tag")
	// Tags applied after linking are visible through the chain.
	assert.Same(t, root, m3.Last("late-tag"))
}
