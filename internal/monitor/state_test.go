package monitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/monitor"
)

func status(s model.TaskStatus) monitor.Event {
	return monitor.Event{Kind: monitor.EventStatus, Status: s}
}

func TestMachine(t *testing.T) {
	var (
		opened    = monitor.Event{Kind: monitor.EventStreamOpened}
		malformed = monitor.Event{Kind: monitor.EventMalformed}
		failure   = monitor.Event{Kind: monitor.EventTransportFailure}
		stop      = monitor.Event{Kind: monitor.EventStop}
	)

	tests := map[string]struct {
		events     []monitor.Event
		expDeliver []bool
		expState   monitor.State
	}{
		"A new machine should be connecting.": {
			expState: monitor.StateConnecting,
		},
		"Opening the stream should start streaming.": {
			events:     []monitor.Event{opened},
			expDeliver: []bool{false},
			expState:   monitor.StateStreaming,
		},
		"Non terminal statuses should be delivered while streaming.": {
			events:     []monitor.Event{opened, status(model.TaskStatusPending), status(model.TaskStatusInProgress), status(model.TaskStatusInProgress)},
			expDeliver: []bool{false, true, true, true},
			expState:   monitor.StateStreaming,
		},
		"A status before the open event should start streaming.": {
			events:     []monitor.Event{status(model.TaskStatusPending)},
			expDeliver: []bool{true},
			expState:   monitor.StateStreaming,
		},
		"A terminal status should be delivered once and end the session.": {
			events:     []monitor.Event{opened, status(model.TaskStatusInProgress), status(model.TaskStatusSucceeded), status(model.TaskStatusSucceeded), status(model.TaskStatusFailed)},
			expDeliver: []bool{false, true, true, false, false},
			expState:   monitor.StateTerminal,
		},
		"A malformed payload should not transition.": {
			events:     []monitor.Event{opened, malformed, status(model.TaskStatusPending)},
			expDeliver: []bool{false, false, true},
			expState:   monitor.StateStreaming,
		},
		"A transport failure while connecting should start polling.": {
			events:     []monitor.Event{failure},
			expDeliver: []bool{false},
			expState:   monitor.StatePolling,
		},
		"A transport failure while streaming should start polling.": {
			events:     []monitor.Event{opened, status(model.TaskStatusPending), failure, status(model.TaskStatusInProgress)},
			expDeliver: []bool{false, true, false, true},
			expState:   monitor.StatePolling,
		},
		"Poll failures should keep polling.": {
			events:     []monitor.Event{failure, failure, malformed, status(model.TaskStatusFailed)},
			expDeliver: []bool{false, false, false, true},
			expState:   monitor.StateTerminal,
		},
		"A status regression should not be delivered.": {
			events:     []monitor.Event{opened, status(model.TaskStatusInProgress), status(model.TaskStatusPending)},
			expDeliver: []bool{false, true, false},
			expState:   monitor.StateStreaming,
		},
		"An unknown status should not be delivered.": {
			events:     []monitor.Event{opened, status(model.TaskStatus("weird"))},
			expDeliver: []bool{false, false},
			expState:   monitor.StateStreaming,
		},
		"Stopping should return to idle and ignore everything after.": {
			events:     []monitor.Event{opened, stop, status(model.TaskStatusSucceeded), failure},
			expDeliver: []bool{false, false, false, false},
			expState:   monitor.StateIdle,
		},
		"Stopping a terminal session should keep it terminal.": {
			events:     []monitor.Event{status(model.TaskStatusSucceeded), stop},
			expDeliver: []bool{true, false},
			expState:   monitor.StateTerminal,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			m := monitor.NewMachine()
			var gotDeliver []bool
			for _, ev := range test.events {
				gotDeliver = append(gotDeliver, m.Apply(ev))
			}

			if len(test.expDeliver) == 0 {
				assert.Empty(gotDeliver)
			} else {
				assert.Equal(test.expDeliver, gotDeliver)
			}
			assert.Equal(test.expState, m.State())
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "polling", monitor.StatePolling.String())
	assert.Equal(t, "unknown", monitor.State(99).String())
}
