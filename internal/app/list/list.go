package list

import (
	"context"
	"fmt"

	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/storage"
)

// ServiceConfig is the configuration for the list service.
type ServiceConfig struct {
	Repository storage.TaskRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service lists the journaled tasks with optional filtering.
type Service struct {
	repo   storage.TaskRepository
	logger log.Logger
}

// NewService creates a new list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the list request parameters.
type Request struct {
	// KindFilter is an optional filter to only show tasks of this kind.
	KindFilter *model.TaskKind
	// StatusFilter is an optional filter to only show tasks with this status.
	StatusFilter *model.TaskStatus
	// Limit caps the number of tasks, 0 means no limit.
	Limit int
}

// Run lists the tasks, most recently updated first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.TaskRecord, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("limit can't be negative: %w", model.ErrNotValid)
	}

	opts := storage.ListTasksOpts{Limit: req.Limit}
	if req.KindFilter != nil {
		opts.Kind = *req.KindFilter
	}
	if req.StatusFilter != nil {
		opts.Status = *req.StatusFilter
	}
	s.logger.Debugf("listing tasks with filter: %+v", opts)

	recs, err := s.repo.ListTasks(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	s.logger.Debugf("found %d tasks", len(recs))
	return recs, nil
}
