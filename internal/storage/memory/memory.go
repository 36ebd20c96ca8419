package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/storage"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.TaskRepository.
type Repository struct {
	tasks  map[string]model.TaskRecord
	mu     sync.RWMutex
	logger log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		tasks:  make(map[string]model.TaskRecord),
		logger: cfg.Logger,
	}, nil
}

// UpsertTask inserts or updates a task record, terminal records are kept.
func (r *Repository) UpsertTask(ctx context.Context, rec model.TaskRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}
	if rec.Kind == "" {
		rec.Kind = model.TaskKindUnknown
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[rec.ID]
	switch {
	case !ok:
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = rec.UpdatedAt
		}
	case existing.Status.IsTerminal():
		r.logger.Debugf("Task %s already terminal, record kept", rec.ID)
		return nil
	default:
		rec.CreatedAt = existing.CreatedAt
		if rec.Kind == model.TaskKindUnknown {
			rec.Kind = existing.Kind
		}
	}

	r.tasks[rec.ID] = rec
	r.logger.Debugf("Task %s recorded as %s", rec.ID, rec.Status)

	return nil
}

// GetTask retrieves a task record by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.TaskRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	return &rec, nil
}

// ListTasks returns the task records, most recently updated first.
func (r *Repository) ListTasks(ctx context.Context, opts storage.ListTasksOpts) ([]model.TaskRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var recs []model.TaskRecord
	for _, rec := range r.tasks {
		if opts.Kind != "" && rec.Kind != opts.Kind {
			continue
		}
		if opts.Status != "" && rec.Status != opts.Status {
			continue
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].UpdatedAt.Equal(recs[j].UpdatedAt) {
			return recs[i].UpdatedAt.After(recs[j].UpdatedAt)
		}
		return recs[i].ID > recs[j].ID
	})

	if opts.Limit > 0 && len(recs) > opts.Limit {
		recs = recs[:opts.Limit]
	}

	return recs, nil
}

var _ storage.TaskRepository = &Repository{}
