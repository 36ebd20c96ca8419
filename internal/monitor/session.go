package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/taskwire"
)

var errNotTerminal = errors.New("task not terminal yet")

// session tracks one task. All the statuses are handled sequentially on the session
// goroutine.
type session struct {
	token        string
	taskID       string
	handler      Handler
	client       TaskClient
	pollInterval time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	logger       log.Logger

	mu      sync.Mutex
	machine *Machine

	// serialMu is shared by all the sessions of a monitor.
	serialMu  *sync.Mutex
	deliverMu sync.Mutex
	stopped   atomic.Bool
	inHandler atomic.Bool
}

func (s *session) apply(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Apply(ev)
}

func (s *session) state() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

func (s *session) run() {
	defer s.cancel()

	if ended := s.stream(); ended {
		return
	}
	s.poll()
}

// stream consumes the push channel, it returns false when the session must fall back
// to polling.
func (s *session) stream() (ended bool) {
	stream, err := s.client.OpenStream(s.ctx, s.taskID)
	if err != nil {
		if s.ctx.Err() != nil {
			return true
		}
		s.logger.Warningf("Could not open push channel, falling back to polling: %s", err)
		s.apply(Event{Kind: EventTransportFailure})
		return false
	}
	defer stream.Close()

	s.apply(Event{Kind: EventStreamOpened})
	s.logger.Debugf("Push channel opened")

	for {
		data, err := stream.Recv()
		if err != nil {
			if s.ctx.Err() != nil {
				return true
			}
			s.logger.Warningf("Push channel failed, falling back to polling: %s", err)
			s.apply(Event{Kind: EventTransportFailure})
			return false
		}

		t, err := taskwire.Decode(data)
		if err != nil {
			s.logger.Errorf("Dropping push message: %s", err)
			s.apply(Event{Kind: EventMalformed})
			continue
		}

		if s.handleStatus(t) {
			return true
		}
	}
}

// poll checks the task status at a fixed interval until a terminal status or the
// session is stopped. Failed checks are retried on the next tick.
func (s *session) poll() {
	s.logger.Debugf("Polling task status every %s", s.pollInterval)

	err := retry.Do(s.ctx, retry.NewConstant(s.pollInterval), func(ctx context.Context) error {
		t, err := s.client.CheckTask(ctx, s.taskID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ev := Event{Kind: EventTransportFailure}
			if errors.Is(err, taskwire.ErrMalformed) {
				ev = Event{Kind: EventMalformed}
			}
			s.apply(ev)
			s.logger.Warningf("Task status check failed: %s", err)
			return retry.RetryableError(err)
		}

		if s.handleStatus(t) {
			return nil
		}
		return retry.RetryableError(errNotTerminal)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Errorf("Polling ended: %s", err)
	}
}

// handleStatus feeds a status to the machine and delivers it, it returns true when
// the session has ended.
func (s *session) handleStatus(t *model.Task) (ended bool) {
	if t.ID == "" {
		t.ID = s.taskID
	}
	if t.ID != s.taskID {
		s.logger.Errorf("Dropping status of unexpected task %s", t.ID)
		s.apply(Event{Kind: EventMalformed})
		return s.ctx.Err() != nil
	}

	if !s.apply(Event{Kind: EventStatus, Status: t.Status}) {
		return s.ctx.Err() != nil
	}

	s.deliver(*t)

	if t.Status.IsTerminal() {
		s.logger.Debugf("Task reached terminal status %s", t.Status)
		s.stopped.Store(true)
		s.cancel()
		return true
	}

	return s.ctx.Err() != nil
}

func (s *session) deliver(t model.Task) {
	s.serialMu.Lock()
	defer s.serialMu.Unlock()
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.inHandler.Store(true)
	defer s.inHandler.Store(false)

	if s.stopped.Load() {
		s.logger.Debugf("Discarding %s status of stopped session", t.Status)
		return
	}

	s.handler(t)
}

// stop cancels the session. Unless it is called while a handler call of the session is
// in progress, it waits for the in progress delivery so no handler call happens after it
// returns. Handler calls of all the sessions are serialized, so a call that stop didn't
// wait for never overlaps the next session deliveries.
func (s *session) stop() {
	s.stopped.Store(true)
	s.cancel()
	s.apply(Event{Kind: EventStop})

	if s.inHandler.Load() {
		return
	}
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
}
