// Package fsm implements named-state machines whose states decide their own transitions.
package fsm

import (
	"github.com/oomph-ac/sandbox/assert"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/input"
	"github.com/oomph-ac/sandbox/oerror"
)

// State is a single named state of a Machine owned by a C. A state value is registered once
// and reused every time the machine enters it, so Enter must reset whatever the state tracks.
type State[C any] interface {
	Name() string
	// Enter is called after the machine switched to the state. prev is nil for the first state.
	Enter(m *Machine[C], prev State[C])
	// Exit is called before the machine leaves the state.
	Exit(m *Machine[C])
	// Update runs once per tick while the state is current and is the only place transitions
	// are made.
	Update(m *Machine[C], dt float32, in input.Snapshot)
}

// Machine holds the registered states of an owner and the one that is currently active.
type Machine[C any] struct {
	owner   C
	states  map[string]State[C]
	current State[C]

	onTransition func(from, to string)
}

// New creates an empty machine for owner.
func New[C any](owner C) *Machine[C] {
	return &Machine[C]{owner: owner, states: make(map[string]State[C])}
}

// Owner returns the value the machine drives.
func (m *Machine[C]) Owner() C {
	return m.owner
}

// Register adds states to the machine. Registering two states with the same name panics.
func (m *Machine[C]) Register(states ...State[C]) {
	for _, s := range states {
		_, exists := m.states[s.Name()]
		assert.IsTrue(!exists, game.ErrorDuplicateState, s.Name())
		m.states[s.Name()] = s
	}
}

// OnTransition sets a function called after every state change.
func (m *Machine[C]) OnTransition(f func(from, to string)) {
	m.onTransition = f
}

// SetState switches to the state registered under name. Switching to the current state does
// nothing; otherwise the current state exits before the new one enters.
func (m *Machine[C]) SetState(name string) error {
	if m.current != nil && m.current.Name() == name {
		return nil
	}
	next, ok := m.states[name]
	if !ok {
		return oerror.New(game.ErrorUnknownState, name)
	}

	prev := m.current
	if prev != nil {
		prev.Exit(m)
	}
	m.current = next
	next.Enter(m, prev)

	if m.onTransition != nil {
		from := ""
		if prev != nil {
			from = prev.Name()
		}
		m.onTransition(from, name)
	}
	return nil
}

// MustSetState is SetState for names known to be registered. It panics otherwise.
func (m *Machine[C]) MustSetState(name string) {
	err := m.SetState(name)
	assert.IsTrue(err == nil, "fsm: %v", err)
}

// Update runs the current state, if any.
func (m *Machine[C]) Update(dt float32, in input.Snapshot) {
	if m.current != nil {
		m.current.Update(m, dt, in)
	}
}

// Current returns the active state, or nil before the first SetState.
func (m *Machine[C]) Current() State[C] {
	return m.current
}

// CurrentName returns the name of the active state, or an empty string.
func (m *Machine[C]) CurrentName() string {
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}
