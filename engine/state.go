// SPDX-License-Identifier: MIT

package engine

import "fmt"

// State is a participant's position within one trial.
type State int

const (
	Idle State = iota
	AwaitingBlock
	Computing
	AwaitingGatherAck
)

var stateNames = [...]string{"Idle", "AwaitingBlock", "Computing", "AwaitingGatherAck"}

// String implements fmt.Stringer.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return stateNames[s]
}

// next is the only legal successor of s.
func (s State) next() State { return (s + 1) % State(len(stateNames)) }

// TransitionHook observes every successful transition of a participant.
type TransitionHook func(rank int, from, to State)

// Machine enforces the strictly sequential per-trial lifecycle. It is owned
// by a single participant and is not safe for concurrent use.
type Machine struct {
	rank  int
	state State
	hook  TransitionHook
}

// NewMachine returns a machine in Idle for rank. hook may be nil.
func NewMachine(rank int, hook TransitionHook) *Machine {
	return &Machine{rank: rank, state: Idle, hook: hook}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Advance moves to to, which must be the successor of the current state.
func (m *Machine) Advance(to State) error {
	if to != m.state.next() {
		return fmt.Errorf("%w: rank %d: %s -> %s", ErrIllegalTransition, m.rank, m.state, to)
	}
	from := m.state
	m.state = to
	if m.hook != nil {
		m.hook(m.rank, from, to)
	}

	return nil
}

// Reset returns the machine to Idle after a failed trial. The hook is not
// invoked: an aborted trial has no legal transition.
func (m *Machine) Reset() { m.state = Idle }
