package lib

import (
	"context"
	"fmt"

	"github.com/slok/wsc/internal/app/list"
	"github.com/slok/wsc/internal/app/status"
	"github.com/slok/wsc/internal/app/watch"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/monitor"
)

// WatchOpts are the optional settings of [Client.Watch].
type WatchOpts struct {
	// Kind is journaled with the task. Default: keep the journaled kind.
	Kind TaskKind
	// OnUpdate receives every status update, calls never overlap.
	OnUpdate func(t Task)
}

// Watch follows a task until it succeeds or fails, or ctx is cancelled.
//
// The last status is returned. A failed task is returned together with
// [ErrTaskFailed].
func (c *Client) Watch(ctx context.Context, taskID string, opts *WatchOpts) (*Task, error) {
	if opts == nil {
		opts = &WatchOpts{}
	}

	m, err := c.newMonitor()
	if err != nil {
		return nil, err
	}

	svc, err := watch.NewService(watch.ServiceConfig{
		Monitor:    m,
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create watch service: %w", err)
	}

	kind := model.TaskKindUnknown
	if opts.Kind != "" {
		kind = model.TaskKind(opts.Kind)
	}

	req := watch.Request{TaskID: taskID, Kind: kind}
	if opts.OnUpdate != nil {
		onUpdate := opts.OnUpdate
		req.OnUpdate = func(t model.Task) { onUpdate(fromInternalTask(t)) }
	}

	t, err := svc.Run(ctx, req)
	if t == nil {
		return nil, err
	}
	task := fromInternalTask(*t)
	return &task, err
}

// TaskStatus checks the current status of a task once, the journal is updated with it.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*TaskRecord, error) {
	m, err := c.newMonitor()
	if err != nil {
		return nil, err
	}

	svc, err := status.NewService(status.ServiceConfig{
		Checker:    m,
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create status service: %w", err)
	}

	rec, err := svc.Run(ctx, status.Request{TaskID: taskID})
	if err != nil {
		return nil, err
	}
	r := fromInternalTaskRecord(*rec)
	return &r, nil
}

// ListTasksOpts filters [Client.ListTasks].
type ListTasksOpts struct {
	Kind   *TaskKind
	Status *TaskStatus
	// Limit caps the number of records, 0 means no limit.
	Limit int
}

// ListTasks returns the journaled tasks, most recently updated first.
func (c *Client) ListTasks(ctx context.Context, opts *ListTasksOpts) ([]TaskRecord, error) {
	svc, err := list.NewService(list.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create list service: %w", err)
	}

	req := list.Request{}
	if opts != nil {
		req.Limit = opts.Limit
		if opts.Kind != nil {
			k := model.TaskKind(*opts.Kind)
			req.KindFilter = &k
		}
		if opts.Status != nil {
			s := model.TaskStatus(*opts.Status)
			req.StatusFilter = &s
		}
	}

	recs, err := svc.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	return fromInternalTaskRecordList(recs), nil
}

func (c *Client) newMonitor() (*monitor.Monitor, error) {
	m, err := monitor.NewMonitor(monitor.MonitorConfig{
		Client:       c.api,
		PollInterval: c.pollInterval,
		Logger:       c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create task monitor: %w", err)
	}
	return m, nil
}
