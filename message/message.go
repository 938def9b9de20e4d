package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"

	"github.com/hupe1980/msgflow/modality"
)

// Role identifies the origin of a message. The set is closed; roles carry no
// behavior beyond a default sender identity.
type Role int

const (
	// RoleUser marks messages sent by a human user.
	RoleUser Role = iota
	// RoleAI marks messages produced by a model or agent.
	RoleAI
	// RoleSystem marks messages injected by the system or environment.
	RoleSystem
	// RoleMemory marks messages replayed from a memory store.
	RoleMemory
)

// String returns the lowercase wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAI:
		return "ai"
	case RoleSystem:
		return "system"
	case RoleMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// DefaultSender returns the sender identity used when none is supplied.
func (r Role) DefaultSender() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAI:
		return "AI"
	case RoleSystem:
		return "System"
	case RoleMemory:
		return "Memory"
	default:
		return "Unknown"
	}
}

// ParseRole maps a wire name back to its Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "user":
		return RoleUser, nil
	case "ai":
		return RoleAI, nil
	case "system":
		return RoleSystem, nil
	case "memory":
		return RoleMemory, nil
	default:
		return 0, fmt.Errorf("message: unknown role %q", s)
	}
}

// ErrNoSuchField is returned by Field when the requested metadata key is
// absent. An absent key signals a programmer error (typo or missing upstream
// write), not a recoverable runtime state; use Get for defaulted lookups.
var ErrNoSuchField = errors.New("message: no such field")

// Message is a structured conversational record: text, sender, a metadata
// tree addressable by dotted/indexed paths, provenance tags and a backward
// source link forming an acyclic chain.
//
// The updates/errors collections are volatile per-instance state scoped by
// UpdateScope; they are not part of the message's persisted identity and are
// excluded from equality and serialization.
type Message struct {
	role     Role
	text     string
	sender   string
	metadata map[string]any
	tags     []string
	source   *Message

	updates map[string]FieldUpdate
	errors  []error
}

// Options configures message construction.
type Options struct {
	// Sender overrides the role's default sender identity.
	Sender string
	// Metadata seeds the metadata tree (shallow-copied).
	Metadata map[string]any
	// Tags seeds the tag list (copied, duplicates preserved as given).
	Tags []string
	// Source links the new message to the message it was derived from.
	Source *Message
}

// New creates a message with the given role and text. Unset options fall
// back to the role's default sender, empty metadata and no tags.
func New(role Role, text string, optFns ...func(o *Options)) *Message {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	sender := opts.Sender
	if sender == "" {
		sender = role.DefaultSender()
	}
	metadata := make(map[string]any, len(opts.Metadata))
	for k, v := range opts.Metadata {
		metadata[k] = v
	}
	return &Message{
		role:     role,
		text:     text,
		sender:   sender,
		metadata: metadata,
		tags:     slices.Clone(opts.Tags),
		source:   opts.Source,
	}
}

// NewUser creates a user message.
func NewUser(text string, optFns ...func(o *Options)) *Message {
	return New(RoleUser, text, optFns...)
}

// NewAI creates a model/agent message.
func NewAI(text string, optFns ...func(o *Options)) *Message {
	return New(RoleAI, text, optFns...)
}

// NewSystem creates a system message.
func NewSystem(text string, optFns ...func(o *Options)) *Message {
	return New(RoleSystem, text, optFns...)
}

// NewMemory creates a memory record message.
func NewMemory(text string, optFns ...func(o *Options)) *Message {
	return New(RoleMemory, text, optFns...)
}

// FromValue promotes a value into a message of the given role: messages pass
// through unchanged, modality objects become a single-reference message with
// the object bound under "object", and strings become plain text messages.
func FromValue(role Role, value any) (*Message, error) {
	switch v := value.(type) {
	case *Message:
		return v, nil
	case modality.Modality:
		return New(role, modality.TextMarker("object"), func(o *Options) {
			o.Metadata = map[string]any{"object": modality.MaybeRef(v, "object")}
		}), nil
	case string:
		return New(role, v), nil
	default:
		return nil, fmt.Errorf("message: cannot create a message from %T", value)
	}
}

// Role returns the message's role tag.
func (m *Message) Role() Role { return m.role }

// Text returns the natural-language content.
func (m *Message) Text() string { return m.text }

// Sender returns the sender identity.
func (m *Message) Sender() string { return m.sender }

// Metadata returns a shallow copy of the metadata tree. Mutations must go
// through Set so they are tracked; writing to the returned map has no
// effect on the message.
func (m *Message) Metadata() map[string]any {
	md := make(map[string]any, len(m.metadata))
	for k, v := range m.metadata {
		md[k] = v
	}
	return md
}

// Tags returns a copy of the tag list in append order.
func (m *Message) Tags() []string { return slices.Clone(m.tags) }

// Source returns the message this one was derived from, or nil at the root.
func (m *Message) Source() *Message { return m.source }

// SetSource links this message to the message it was derived from. The
// referenced message is shared, never copied; the link does not own it.
func (m *Message) SetSource(source *Message) { m.source = source }

// FromUser reports whether the message carries the user role.
func (m *Message) FromUser() bool { return m.role == RoleUser }

// FromAgent reports whether the message carries the AI role.
func (m *Message) FromAgent() bool { return m.role == RoleAI }

// FromSystem reports whether the message carries the system role.
func (m *Message) FromSystem() bool { return m.role == RoleSystem }

// FromMemory reports whether the message carries the memory role.
func (m *Message) FromMemory() bool { return m.role == RoleMemory }

// Tag appends tag unless already present. Tagging is metadata-about-metadata
// and deliberately bypasses update tracking.
func (m *Message) Tag(tag string) {
	if !slices.Contains(m.tags, tag) {
		m.tags = append(m.tags, tag)
	}
}

// HasTag reports whether the message carries tag.
func (m *Message) HasTag(tag string) bool {
	return slices.Contains(m.tags, tag)
}

// Field returns the metadata value stored directly under name, dereferencing
// non-owning modality references. Unlike Get, an absent key is a hard error
// wrapping ErrNoSuchField.
func (m *Message) Field(name string) (any, error) {
	v, ok := m.metadata[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchField, name)
	}
	return deref(v), nil
}

// Result returns the structured output of the message, conventionally stored
// in metadata under "result". Nil until a transform writes it.
func (m *Message) Result() any { return m.Get(PathResult, nil) }

// SetResult stores the structured output of the message.
func (m *Message) SetResult(value any) {
	// A bare "result" key cannot fail structural assignment.
	_ = m.Set(PathResult, value)
}

// Equal reports content equality. Strings compare against text alone;
// messages compare role, text, sender and metadata. Anything else is unequal.
func (m *Message) Equal(other any) bool {
	switch o := other.(type) {
	case string:
		return m.text == o
	case *Message:
		return o != nil &&
			m.role == o.role &&
			m.text == o.text &&
			m.sender == o.sender &&
			reflect.DeepEqual(m.metadata, o.metadata)
	default:
		return false
	}
}

// Hash returns a content hash derived from text alone. Messages differing
// only in sender or metadata intentionally collide.
func (m *Message) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(m.text))
	return h.Sum64()
}

// String implements fmt.Stringer, returning the natural-language text.
func (m *Message) String() string { return m.text }

// messageJSON is the generic serialization shape: (role, text, sender,
// metadata, tags). The source link and volatile update state are excluded.
type messageJSON struct {
	Role     string         `json:"role"`
	Text     string         `json:"text"`
	Sender   string         `json:"sender"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (m *Message) MarshalJSON() ([]byte, error) {
	var md map[string]any
	if len(m.metadata) > 0 {
		md = m.metadata
	}
	return json.Marshal(messageJSON{
		Role:     m.role.String(),
		Text:     m.text,
		Sender:   m.sender,
		Metadata: md,
		Tags:     m.tags,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded message has no
// source link and fresh update state.
func (m *Message) UnmarshalJSON(data []byte) error {
	var mj messageJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}
	role, err := ParseRole(mj.Role)
	if err != nil {
		return err
	}
	if mj.Metadata == nil {
		mj.Metadata = map[string]any{}
	}
	*m = Message{
		role:     role,
		text:     mj.Text,
		sender:   mj.Sender,
		metadata: mj.Metadata,
		tags:     mj.Tags,
	}
	return nil
}
