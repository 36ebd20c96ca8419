// Package monitor tracks the status of a single backend task at a time. It listens on
// the task push channel and falls back to polling when the channel fails, delivering
// normalized statuses to a handler until the task reaches a terminal status.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/wsc/internal/api"
	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
)

// DefaultPollInterval is the fallback polling interval.
const DefaultPollInterval = 2 * time.Second

// Handler receives the statuses of the monitored task. Calls never overlap and,
// once a terminal status has been delivered, the handler is not called again.
type Handler func(t model.Task)

// TaskClient is the backend where task statuses are pulled and pushed from.
type TaskClient interface {
	CheckTask(ctx context.Context, taskID string) (*model.Task, error)
	OpenStream(ctx context.Context, taskID string) (api.Stream, error)
}

// MonitorConfig is the configuration for the task monitor.
type MonitorConfig struct {
	Client       TaskClient
	PollInterval time.Duration
	Logger       log.Logger
}

func (c *MonitorConfig) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("client is required")
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "monitor.Monitor"})
	return nil
}

// Monitor owns the monitoring session of the current task. Starting a new session
// always stops the previous one.
type Monitor struct {
	client       TaskClient
	pollInterval time.Duration
	logger       log.Logger

	mu      sync.Mutex
	current *session

	serialMu sync.Mutex
}

// NewMonitor creates a new task monitor.
func NewMonitor(cfg MonitorConfig) (*Monitor, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Monitor{
		client:       cfg.Client,
		pollInterval: cfg.PollInterval,
		logger:       cfg.Logger,
	}, nil
}

// StartMonitoring stops any active session and starts tracking taskID. It returns
// immediately, statuses are delivered to onUpdate from the session goroutine.
func (m *Monitor) StartMonitoring(taskID string, onUpdate Handler) error {
	if taskID == "" {
		return fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}
	if onUpdate == nil {
		return fmt.Errorf("update handler is required: %w", model.ErrNotValid)
	}

	ctx, cancel := context.WithCancel(context.Background())
	token := ulid.Make().String()
	s := &session{
		token:        token,
		taskID:       taskID,
		handler:      onUpdate,
		client:       m.client,
		pollInterval: m.pollInterval,
		ctx:          ctx,
		cancel:       cancel,
		machine:      NewMachine(),
		serialMu:     &m.serialMu,
		logger:       m.logger.WithValues(log.Kv{"task": taskID, "session": token}),
	}

	m.mu.Lock()
	old := m.current
	m.current = s
	m.mu.Unlock()

	if old != nil {
		old.stop()
		m.logger.Debugf("Monitoring of task %s superseded by task %s", old.taskID, taskID)
	}

	go s.run()

	return nil
}

// StopMonitoring tears down the active session, if any. When it returns the handler of
// the stopped session will not be called again. If another goroutine is running that
// handler right now, StopMonitoring doesn't wait for it, but the handler of the next
// session is only called after it returns.
func (m *Monitor) StopMonitoring() {
	m.mu.Lock()
	old := m.current
	m.current = nil
	m.mu.Unlock()

	if old != nil {
		old.stop()
		m.logger.Debugf("Monitoring of task %s stopped", old.taskID)
	}
}

// State returns the state of the current session, idle if there is none.
func (m *Monitor) State() State {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()

	if s == nil {
		return StateIdle
	}
	return s.state()
}

// CheckOnce gets the current status of a task without starting a session.
func (m *Monitor) CheckOnce(ctx context.Context, taskID string) (*model.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	t, err := m.client.CheckTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("could not check task: %w", err)
	}

	return t, nil
}
