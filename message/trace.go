package message

import "slices"

// Well-known provenance tags applied along the source chain.
const (
	// TagLMInput marks a message sent to the model.
	TagLMInput = "lm-input"
	// TagLMResponse marks a raw model response before post-processing.
	TagLMResponse = "lm-response"
	// TagLMOutput marks a model response after post-processing.
	TagLMOutput = "lm-output"
	// TagRendered marks a message produced by template rendering.
	TagRendered = "rendered"
	// TagTransformed marks a message produced by a transform.
	TagTransformed = "transformed"
)

// Root follows source links to the first message of the chain. Chains are
// acyclic by construction discipline; this is never validated at runtime, so
// a cyclic chain loops forever. The same precondition applies to Trace and
// Last.
func (m *Message) Root() *Message {
	root := m
	for root.source != nil {
		root = root.source
	}
	return root
}

// Trace returns the source chain in chronological (oldest-first) order,
// filtered to messages carrying tag. An empty tag matches every message.
func (m *Message) Trace(tag string) []*Message {
	var chain []*Message
	for cur := m; cur != nil; cur = cur.source {
		if tag == "" || cur.HasTag(tag) {
			chain = append(chain, cur)
		}
	}
	slices.Reverse(chain)
	return chain
}

// Last walks backward through source links and returns the first message
// carrying tag, or nil when the chain is exhausted. This is the early-exit
// counterpart to filtering Trace's full result.
func (m *Message) Last(tag string) *Message {
	for cur := m; cur != nil; cur = cur.source {
		if cur.HasTag(tag) {
			return cur
		}
	}
	return nil
}

// LMInputs returns every message in the chain sent to the model.
func (m *Message) LMInputs() []*Message { return m.Trace(TagLMInput) }

// LMResponses returns every raw model response in the chain.
func (m *Message) LMResponses() []*Message { return m.Trace(TagLMResponse) }

// LMOutputs returns every post-processed model output in the chain.
func (m *Message) LMOutputs() []*Message { return m.Trace(TagLMOutput) }

// LMInput returns the latest message sent to the model, or nil.
func (m *Message) LMInput() *Message { return m.Last(TagLMInput) }

// LMResponse returns the latest raw model response, or nil.
func (m *Message) LMResponse() *Message { return m.Last(TagLMResponse) }

// LMOutput returns the latest post-processed model output, or nil.
func (m *Message) LMOutput() *Message { return m.Last(TagLMOutput) }
