package message

import (
	"fmt"
	"strings"

	"github.com/hupe1980/msgflow/modality"
)

// DefaultSeparator joins chunks when fusing them back into text.
const DefaultSeparator = "\n"

// Chunk is one segment of a message's text: a maximal run of plain text or a
// single modality reference. Concrete chunk types implement the unexported
// isChunk marker enabling a closed set.
type Chunk interface{ isChunk() }

// TextChunk is a plain text segment.
type TextChunk struct {
	Text string
}

// isChunk implements the Chunk interface for TextChunk.
func (TextChunk) isChunk() {}

// ModalityChunk is a non-text payload segment.
type ModalityChunk struct {
	Modality modality.Modality
}

// isChunk implements the Chunk interface for ModalityChunk.
func (ModalityChunk) isChunk() {}

// Text is shorthand for a TextChunk.
func Text(s string) Chunk { return TextChunk{Text: s} }

// Object is shorthand for a ModalityChunk.
func Object(m modality.Modality) Chunk { return ModalityChunk{Modality: m} }

// indexFrom returns the index of the first occurrence of sub in s at or
// after from, or -1.
func indexFrom(s, sub string, from int) int {
	i := strings.Index(s[from:], sub)
	if i == -1 {
		return -1
	}
	return i + from
}

// Chunk splits the message text into alternating text and modality segments
// by scanning left to right for modality reference markers.
//
// A reference whose name does not resolve (via GetModality with chain search)
// is folded into the surrounding text span rather than treated as an error;
// likewise a start delimiter with no matching end delimiter degrades to plain
// trailing text (untrimmed). Resolved spans contribute the preceding text,
// trimmed, then the modality object. Empty text segments are omitted.
func (m *Message) Chunk() []Chunk {
	var chunks []Chunk
	addText := func(piece string) {
		if piece != "" {
			chunks = append(chunks, TextChunk{Text: piece})
		}
	}

	text := m.text
	chunkStart := 0
	refEnd := 0
	for chunkStart < len(text) {
		refStart := indexFrom(text, modality.RefStart, refEnd)
		if refStart == -1 {
			addText(strings.TrimSpace(text[chunkStart:]))
			break
		}
		varStart := refStart + len(modality.RefStart)
		refEnd = indexFrom(text, modality.RefEnd, varStart)
		if refEnd == -1 {
			addText(text[chunkStart:])
			break
		}
		name := strings.TrimSpace(text[varStart:refEnd])
		if obj := m.GetModality(name, true); obj != nil {
			addText(strings.TrimSpace(text[chunkStart:refStart]))
			chunks = append(chunks, ModalityChunk{Modality: obj})
			chunkStart = refEnd + len(modality.RefEnd)
		}
	}
	return chunks
}

// FromChunks fuses chunks into a single message of the given role,
// concatenating segments with separator. Each modality chunk is replaced by
// a marker for a synthetic reference name (obj0, obj1, ... in chunk order)
// and recorded in metadata under that name; objects already owned elsewhere
// are stored as non-owning references instead of being re-bound. Leading and
// trailing whitespace of the fused text is trimmed.
func FromChunks(role Role, chunks []Chunk, separator string) *Message {
	var fused strings.Builder
	refIndex := 0
	metadata := make(map[string]any)

	for i, c := range chunks {
		if i > 0 {
			fused.WriteString(separator)
		}
		switch chunk := c.(type) {
		case TextChunk:
			fused.WriteString(chunk.Text)
		case ModalityChunk:
			name := fmt.Sprintf("obj%d", refIndex)
			fused.WriteString(modality.TextMarker(name))
			metadata[name] = modality.MaybeRef(chunk.Modality, name)
			refIndex++
		}
	}
	return New(role, strings.TrimSpace(fused.String()), func(o *Options) {
		o.Metadata = metadata
	})
}

// GetModality resolves a named modality against this message's metadata. If
// absent and searchChain is true the lookup recurses through the source
// chain; otherwise it returns nil.
func (m *Message) GetModality(name string, searchChain bool) modality.Modality {
	if obj, ok := m.Get(name, nil).(modality.Modality); ok {
		return obj
	}
	if searchChain && m.source != nil {
		return m.source.GetModality(name, searchChain)
	}
	return nil
}

// ReferredModalities returns the modality objects referenced from this
// message's text, keyed by each object's self-declared referred name.
func (m *Message) ReferredModalities() map[string]modality.Modality {
	refs := make(map[string]modality.Modality)
	for _, c := range m.Chunk() {
		if mc, ok := c.(ModalityChunk); ok {
			refs[mc.Modality.ReferredName()] = mc.Modality
		}
	}
	return refs
}
