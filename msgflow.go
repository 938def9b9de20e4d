// Package msgflow models the conversational records exchanged in LLM
// applications: messages carrying natural-language text, a sender, a
// path-addressable metadata tree, provenance tags and a backward source
// link. Chains of source links let auditing and evaluation code reconstruct
// how an output was derived — which message was sent to the model, what the
// model returned and what post-processing produced.
//
// Most applications interact with the sub-packages directly:
//   - message: the Message entity, path get/set, update scopes, chunking
//     and source-chain tracing
//   - modality: embedding non-text payloads (images, blobs) by reference
//   - store: in-memory conversation threads over message chains
//   - scoring: evaluation harness reading messages
//   - provider/openai, provider/anthropic: SDK content conversion
//
// This package re-exports the common surface so simple callers need a
// single import.
package msgflow

import (
	"github.com/hupe1980/msgflow/message"
	"github.com/hupe1980/msgflow/modality"
)

// Message is the core conversational record.
type Message = message.Message

// Role identifies the origin of a message.
type Role = message.Role

// Chunk is one text or modality segment of a message.
type Chunk = message.Chunk

// Modality is a non-text payload embeddable by reference in message text.
type Modality = modality.Modality

// Roles of the closed variant set.
const (
	RoleUser   = message.RoleUser
	RoleAI     = message.RoleAI
	RoleSystem = message.RoleSystem
	RoleMemory = message.RoleMemory
)

// Well-known provenance tags.
const (
	TagLMInput     = message.TagLMInput
	TagLMResponse  = message.TagLMResponse
	TagLMOutput    = message.TagLMOutput
	TagRendered    = message.TagRendered
	TagTransformed = message.TagTransformed
)

// Constructors re-exported for single-import callers.
var (
	NewUser    = message.NewUser
	NewAI      = message.NewAI
	NewSystem  = message.NewSystem
	NewMemory  = message.NewMemory
	FromValue  = message.FromValue
	FromChunks = message.FromChunks
)
