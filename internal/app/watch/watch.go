package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/monitor"
	"github.com/slok/wsc/internal/storage"
)

// ErrTaskFailed is returned when the watched task ends failed.
var ErrTaskFailed = errors.New("task failed")

// Monitor tracks a single task at a time.
type Monitor interface {
	StartMonitoring(taskID string, onUpdate monitor.Handler) error
	StopMonitoring()
}

// ServiceConfig is the configuration for the watch service.
type ServiceConfig struct {
	Monitor    Monitor
	Repository storage.TaskRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Monitor == nil {
		return fmt.Errorf("monitor is required")
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Watch"})

	return nil
}

// Service watches a task until it ends, journaling every status.
type Service struct {
	monitor Monitor
	repo    storage.TaskRepository
	logger  log.Logger
}

// NewService creates a new watch service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		monitor: cfg.Monitor,
		repo:    cfg.Repository,
		logger:  cfg.Logger,
	}, nil
}

// Request represents the watch request parameters.
type Request struct {
	TaskID string
	// Kind is journaled with the task, unknown keeps the journaled one.
	Kind model.TaskKind
	// OnUpdate is called with every status, optional.
	OnUpdate func(t model.Task)
}

// Run blocks until the task reaches a terminal status or the context is cancelled.
// A failed task is returned together with ErrTaskFailed.
func (s *Service) Run(ctx context.Context, req Request) (*model.Task, error) {
	if req.TaskID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}
	if req.Kind == "" {
		req.Kind = model.TaskKindUnknown
	}
	logger := s.logger.WithValues(log.Kv{"task": req.TaskID})

	// Buffered so the handler never blocks, only one terminal status is delivered.
	terminal := make(chan model.Task, 1)
	handler := func(t model.Task) {
		rec := model.TaskRecord{Task: t, Kind: req.Kind, UpdatedAt: time.Now().UTC()}
		if err := s.repo.UpsertTask(ctx, rec); err != nil {
			logger.Warningf("Could not journal task status: %s", err)
		}

		if req.OnUpdate != nil {
			req.OnUpdate(t)
		}

		if t.Status.IsTerminal() {
			terminal <- t
		}
	}

	if err := s.monitor.StartMonitoring(req.TaskID, handler); err != nil {
		return nil, fmt.Errorf("could not start monitoring: %w", err)
	}
	logger.Infof("Watching task")

	select {
	case <-ctx.Done():
		s.monitor.StopMonitoring()
		return nil, ctx.Err()
	case t := <-terminal:
		s.monitor.StopMonitoring()
		logger.Infof("Task ended with %s status", t.Status)
		if t.Status == model.TaskStatusFailed {
			return &t, fmt.Errorf("%w: %s", ErrTaskFailed, t.Error)
		}
		return &t, nil
	}
}
