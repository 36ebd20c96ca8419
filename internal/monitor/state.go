package monitor

import "github.com/slok/wsc/internal/model"

// State is the state of a monitoring session.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateStreaming
	StatePolling
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StatePolling:
		return "polling"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// EventKind is the kind of input of the session state machine.
type EventKind int

const (
	// EventStreamOpened is the push channel being established.
	EventStreamOpened EventKind = iota
	// EventStatus is a decoded task status, from the push channel or a poll.
	EventStatus
	// EventMalformed is a payload that could not be decoded.
	EventMalformed
	// EventTransportFailure is a push channel failure or a failed poll.
	EventTransportFailure
	// EventStop is an explicit cancellation.
	EventStop
)

// Event is an input of the session state machine.
type Event struct {
	Kind EventKind
	// Status is set on EventStatus events.
	Status model.TaskStatus
}

// Machine is the state machine of a single monitoring session. It is pure, the
// session goroutine feeds it and acts on the result.
type Machine struct {
	state State
	last  model.TaskStatus
}

// NewMachine returns a machine for a session that is opening its push channel.
func NewMachine() *Machine {
	return &Machine{state: StateConnecting}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Apply transitions the machine with ev and returns true when the status carried by
// the event must be delivered to the handler.
func (m *Machine) Apply(ev Event) (deliver bool) {
	switch m.state {
	case StateIdle, StateTerminal:
		return false
	}

	switch ev.Kind {
	case EventStop:
		m.state = StateIdle
		return false

	case EventStreamOpened:
		if m.state == StateConnecting {
			m.state = StateStreaming
		}
		return false

	case EventMalformed:
		return false

	case EventTransportFailure:
		// Polling failures keep polling, push failures fall back to polling.
		m.state = StatePolling
		return false

	case EventStatus:
		if ev.Status.IsTerminal() {
			m.state = StateTerminal
			m.last = ev.Status
			return true
		}

		if ev.Status.Rank() == 0 || ev.Status.Rank() < m.last.Rank() {
			return false
		}

		if m.state == StateConnecting {
			m.state = StateStreaming
		}
		m.last = ev.Status
		return true
	}

	return false
}
