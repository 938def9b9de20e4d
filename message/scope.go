package message

// FieldUpdate records a single tracked mutation: the affected path, the
// value it held before (Missing when the path was absent) and the value
// written (Missing on deletion).
type FieldUpdate struct {
	Path     string
	OldValue any
	NewValue any
}

// recordUpdate inserts an update record keyed by path into the current
// scope. A later write to the same path replaces the earlier record.
func (m *Message) recordUpdate(path string, oldValue, newValue any) {
	if m.updates == nil {
		m.updates = make(map[string]FieldUpdate)
	}
	m.updates[path] = FieldUpdate{Path: path, OldValue: oldValue, NewValue: newValue}
}

// UpdateScope runs fn inside a fresh update scope: updates and errors
// accumulated while fn executes are visible through Updates/Errors during
// the call, then merged back into the enclosing scope when fn returns
// (updates merged by path with the inner write winning, errors appended).
// The merge runs on every exit path, including panics, so scopes nest with
// strict LIFO semantics: an outer scope ends up seeing the union of
// everything that happened inside the scopes it wraps.
//
// Not safe for concurrent use; scopes are a single-goroutine discipline.
func (m *Message) UpdateScope(fn func()) {
	prevUpdates, prevErrors := m.updates, m.errors
	m.updates, m.errors = make(map[string]FieldUpdate), nil

	defer func() {
		if prevUpdates == nil {
			prevUpdates = make(map[string]FieldUpdate)
		}
		for path, u := range m.updates {
			prevUpdates[path] = u
		}
		m.updates = prevUpdates
		m.errors = append(prevErrors, m.errors...)
	}()

	fn()
}

// ApplyUpdates replays recorded field updates (for example, edits captured
// on another message instance) onto this message. Each new value is rebound
// through Set, so the replay is itself tracked in the current scope.
func (m *Message) ApplyUpdates(updates map[string]FieldUpdate) error {
	for path, u := range updates {
		if err := m.Set(path, u.NewValue); err != nil {
			return err
		}
	}
	return nil
}

// Updates returns a copy of the update records accumulated in the current
// scope, keyed by path.
func (m *Message) Updates() map[string]FieldUpdate {
	updates := make(map[string]FieldUpdate, len(m.updates))
	for path, u := range m.updates {
		updates[path] = u
	}
	return updates
}

// Modified reports whether any field changed in the current scope.
func (m *Message) Modified() bool { return len(m.updates) > 0 }

// AddError records an error produced while mutating the message in the
// current scope.
func (m *Message) AddError(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Errors returns a copy of the errors accumulated in the current scope.
func (m *Message) Errors() []error {
	errs := make([]error, len(m.errors))
	copy(errs, m.errors)
	return errs
}

// HasErrors reports whether any error was recorded in the current scope.
func (m *Message) HasErrors() bool { return len(m.errors) > 0 }
