package message

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/hupe1980/msgflow/modality"
)

// Well-known paths understood by Get and Set.
const (
	// PathRoot addresses the message itself.
	PathRoot = ""
	// PathText addresses the text slot.
	PathText = "text"
	// PathResult is the conventional metadata slot for structured output.
	PathResult = "result"
)

// missingValue is the type of the Missing sentinel.
type missingValue struct{}

// String implements fmt.Stringer.
func (missingValue) String() string { return "MISSING" }

// Missing is the sentinel assigned through Set to delete the entry at a
// path. Deleting an absent path is a silent no-op.
var Missing missingValue

// pathSegment is one parsed token of a dotted/indexed path: either a map key
// or a sequence index.
type pathSegment struct {
	key   string
	index int
	isIdx bool
}

// parsePath tokenizes paths of the form "a.b[0].c" into key and index
// segments.
func parsePath(path string) ([]pathSegment, error) {
	var segs []pathSegment
	i := 0
	expectKey := true
	for i < len(path) {
		switch {
		case path[i] == '[':
			end := strings.IndexByte(path[i:], ']')
			if end == -1 {
				return nil, fmt.Errorf("message: unterminated index in path %q", path)
			}
			idx, err := strconv.Atoi(path[i+1 : i+end])
			if err != nil {
				return nil, fmt.Errorf("message: invalid index in path %q: %w", path, err)
			}
			segs = append(segs, pathSegment{index: idx, isIdx: true})
			i += end + 1
			expectKey = false
		case path[i] == '.':
			i++
			expectKey = true
		default:
			end := strings.IndexAny(path[i:], ".[")
			if end == -1 {
				end = len(path) - i
			}
			key := path[i : i+end]
			if key == "" || !expectKey {
				return nil, fmt.Errorf("message: malformed path %q", path)
			}
			segs = append(segs, pathSegment{key: key})
			i += end
			expectKey = false
		}
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("message: empty path")
	}
	return segs, nil
}

// deref unwraps non-owning modality references.
func deref(v any) any {
	if r, ok := v.(modality.Ref); ok {
		return r.Value
	}
	return v
}

// Get returns the value addressed by path: "" yields the message itself,
// "text" yields the text, anything else resolves inside metadata. Unknown or
// malformed paths yield def; Get never fails. Non-owning modality references
// are dereferenced transparently.
func (m *Message) Get(path string, def any) any {
	if path == PathRoot {
		return m
	}
	if path == PathText {
		return m.text
	}
	segs, err := parsePath(path)
	if err != nil {
		return def
	}
	v, ok := lookup(m.metadata, segs)
	if !ok {
		return def
	}
	return deref(v)
}

// lookup walks a metadata tree of nested map[string]any / []any containers.
func lookup(node any, segs []pathSegment) (any, bool) {
	cur := node
	for _, s := range segs {
		if s.isIdx {
			list, ok := cur.([]any)
			if !ok || s.index < 0 || s.index >= len(list) {
				return nil, false
			}
			cur = list[s.index]
			continue
		}
		mp, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = mp[s.key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set assigns value at path. "" and "text" replace the text (value must be a
// string); any other path performs a structural update inside metadata,
// creating intermediate containers as needed. Assigning Missing deletes the
// entry. Rebinding a path to a deep-equal value is a silent no-op and leaves
// no update record.
func (m *Message) Set(path string, value any) error {
	if path == PathRoot || path == PathText {
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("message: text must be a string, got %T", value)
		}
		if text == m.text {
			return nil
		}
		old := m.text
		m.text = text
		m.recordUpdate(PathText, old, text)
		return nil
	}

	segs, err := parsePath(path)
	if err != nil {
		return err
	}
	old, existed := lookup(m.metadata, segs)

	if _, isDelete := value.(missingValue); isDelete {
		if !existed {
			return nil
		}
		if err := remove(m.metadata, segs); err != nil {
			return err
		}
		m.recordUpdate(path, old, Missing)
		return nil
	}

	if existed && reflect.DeepEqual(deref(old), deref(value)) {
		return nil
	}
	if err := assign(m.metadata, segs, value); err != nil {
		return err
	}
	var oldValue any = Missing
	if existed {
		oldValue = old
	}
	m.recordUpdate(path, oldValue, value)
	return nil
}

// assignNode writes value into node at segs, allocating intermediate
// containers for absent locations. It returns the (possibly re-allocated)
// node so slice growth propagates to the parent.
func assignNode(node any, segs []pathSegment, value any) (any, error) {
	s := segs[0]
	if s.isIdx {
		var list []any
		switch n := node.(type) {
		case nil:
			list = nil
		case []any:
			list = n
		default:
			return nil, fmt.Errorf("message: cannot index %T with [%d]", node, s.index)
		}
		switch {
		case s.index >= 0 && s.index < len(list):
		case s.index == len(list):
			list = append(list, nil)
		default:
			return nil, fmt.Errorf("message: index %d out of range (len %d)", s.index, len(list))
		}
		if len(segs) == 1 {
			list[s.index] = value
			return list, nil
		}
		child, err := assignNode(list[s.index], segs[1:], value)
		if err != nil {
			return nil, err
		}
		list[s.index] = child
		return list, nil
	}

	var mp map[string]any
	switch n := node.(type) {
	case nil:
		mp = map[string]any{}
	case map[string]any:
		mp = n
	default:
		return nil, fmt.Errorf("message: cannot key %T with %q", node, s.key)
	}
	if len(segs) == 1 {
		mp[s.key] = value
		return mp, nil
	}
	child, err := assignNode(mp[s.key], segs[1:], value)
	if err != nil {
		return nil, err
	}
	mp[s.key] = child
	return mp, nil
}

// assign writes value into the metadata root.
func assign(root map[string]any, segs []pathSegment, value any) error {
	_, err := assignNode(root, segs, value)
	return err
}

// remove deletes the entry addressed by segs. Map entries are deleted;
// sequence elements are spliced out. The caller has already verified the
// path resolves.
func remove(root map[string]any, segs []pathSegment) error {
	parent := any(root)
	if len(segs) > 1 {
		p, ok := lookup(root, segs[:len(segs)-1])
		if !ok {
			return fmt.Errorf("message: path parent not found")
		}
		parent = p
	}
	last := segs[len(segs)-1]
	if last.isIdx {
		list, ok := parent.([]any)
		if !ok || last.index < 0 || last.index >= len(list) {
			return fmt.Errorf("message: cannot delete index [%d] from %T", last.index, parent)
		}
		spliced := append(list[:last.index:last.index], list[last.index+1:]...)
		// Reattach the shortened slice under its own parent.
		return assign(root, segs[:len(segs)-1], spliced)
	}
	mp, ok := parent.(map[string]any)
	if !ok {
		return fmt.Errorf("message: cannot delete key %q from %T", last.key, parent)
	}
	delete(mp, last.key)
	return nil
}
