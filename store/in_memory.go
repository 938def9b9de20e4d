package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/msgflow/message"
)

// ErrThreadNotFound is returned when a thread id is unknown to the store.
var ErrThreadNotFound = errors.New("store: thread not found")

// Thread is a named conversation: an ordered list of messages whose source
// links record per-message provenance.
type Thread struct {
	ID       string
	Messages []*message.Message
	Created  time.Time
	Updated  time.Time
}

// Store is the minimal contract for conversation-thread persistence.
type Store interface {
	Create() (*Thread, error)
	Get(threadID string) (*Thread, error)
	Append(threadID string, msg *message.Message) error
	History(threadID string) ([]*message.Message, error)
}

// InMemoryStore is a volatile Store implementation keeping threads in a
// process local map. It is safe for concurrent access. Returned threads and
// histories are defensive copies of the ordering; the messages themselves
// are shared since the store never mutates them.
type InMemoryStore struct {
	mu      sync.RWMutex
	threads map[string]*Thread
}

// Compile-time assertion that InMemoryStore satisfies Store.
var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory thread store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{threads: make(map[string]*Thread)}
}

// Create allocates a new empty thread with a generated id.
func (s *InMemoryStore) Create() (*Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	t := &Thread{ID: uuid.NewString(), Created: now, Updated: now}
	s.threads[t.ID] = t
	return t.clone(), nil
}

// Get returns a copy of an existing thread.
func (s *InMemoryStore) Get(threadID string) (*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThreadNotFound, threadID)
	}
	return t.clone(), nil
}

// Append adds a message to a thread. When the message carries no source link
// yet, it is linked to the thread's previous message so the stored history
// doubles as a source chain.
func (s *InMemoryStore) Append(threadID string, msg *message.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrThreadNotFound, threadID)
	}
	if msg.Source() == nil && len(t.Messages) > 0 {
		msg.SetSource(t.Messages[len(t.Messages)-1])
	}
	t.Messages = append(t.Messages, msg)
	t.Updated = time.Now()
	return nil
}

// History returns a copy of the thread's message list in append order.
func (s *InMemoryStore) History(threadID string) ([]*message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThreadNotFound, threadID)
	}
	msgs := make([]*message.Message, len(t.Messages))
	copy(msgs, t.Messages)
	return msgs, nil
}

// LastWithTag walks the provenance chain of the thread's newest message and
// returns the first message carrying tag, or nil.
func (s *InMemoryStore) LastWithTag(threadID, tag string) (*message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThreadNotFound, threadID)
	}
	if len(t.Messages) == 0 {
		return nil, nil
	}
	return t.Messages[len(t.Messages)-1].Last(tag), nil
}

// clone copies the thread shell and message ordering; messages are shared.
func (t *Thread) clone() *Thread {
	msgs := make([]*message.Message, len(t.Messages))
	copy(msgs, t.Messages)
	return &Thread{ID: t.ID, Messages: msgs, Created: t.Created, Updated: t.Updated}
}
