package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/storage"
)

// Checker gets the current status of a backend task.
type Checker interface {
	CheckOnce(ctx context.Context, taskID string) (*model.Task, error)
}

// ServiceConfig is the configuration for the status service.
type ServiceConfig struct {
	Checker    Checker
	Repository storage.TaskRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Checker == nil {
		return fmt.Errorf("checker is required")
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service retrieves the status of a task from the backend and journals it.
type Service struct {
	checker Checker
	repo    storage.TaskRepository
	logger  log.Logger
}

// NewService creates a new status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		checker: cfg.Checker,
		repo:    cfg.Repository,
		logger:  cfg.Logger,
	}, nil
}

// Request represents the status request parameters.
type Request struct {
	TaskID string
}

// Run checks the task once. The local journal supplies the task kind and creation time
// and is updated with the checked status. If the backend doesn't know the task, a
// terminal journaled status is returned instead.
func (s *Service) Run(ctx context.Context, req Request) (*model.TaskRecord, error) {
	if req.TaskID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}
	s.logger.Debugf("getting status for task: %s", req.TaskID)

	rec, err := s.repo.GetTask(ctx, req.TaskID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("could not get task record: %w", err)
		}
		rec = &model.TaskRecord{Kind: model.TaskKindUnknown}
	}

	t, err := s.checker.CheckOnce(ctx, req.TaskID)
	if err != nil {
		if rec.ID != "" && rec.Status.IsTerminal() {
			s.logger.Warningf("could not check task, using journaled status: %s", err)
			return rec, nil
		}
		return nil, fmt.Errorf("could not check task status: %w", err)
	}

	if rec.Status.IsTerminal() {
		s.logger.Debugf("task already terminal in journal")
		return rec, nil
	}

	rec.Task = *t
	rec.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpsertTask(ctx, *rec); err != nil {
		return nil, fmt.Errorf("could not journal task status: %w", err)
	}

	return rec, nil
}
