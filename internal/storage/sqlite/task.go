package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/storage"
)

// UpsertTask inserts or updates a task record. Records already in a terminal status
// are left untouched and an unknown kind keeps the stored one.
func (r *Repository) UpsertTask(ctx context.Context, rec model.TaskRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}
	if rec.Kind == "" {
		rec.Kind = model.TaskKindUnknown
	}

	now := time.Now().UTC()
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}

	var result *string
	if len(rec.Result) > 0 {
		s := string(rec.Result)
		result = &s
	}

	query := `
		INSERT INTO task_records (id, kind, status, progress, message, result, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = CASE WHEN excluded.kind = ? THEN task_records.kind ELSE excluded.kind END,
			status = excluded.status,
			progress = excluded.progress,
			message = excluded.message,
			result = excluded.result,
			error = excluded.error,
			updated_at = excluded.updated_at
		WHERE task_records.status NOT IN (?, ?)
	`

	res, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.Kind,
		rec.Status,
		rec.Progress,
		rec.Message,
		result,
		rec.Error,
		rec.CreatedAt.Unix(),
		rec.UpdatedAt.Unix(),
		model.TaskKindUnknown,
		model.TaskStatusSucceeded,
		model.TaskStatusFailed,
	)
	if err != nil {
		return fmt.Errorf("could not upsert task: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		r.logger.Debugf("Task %s already terminal, record kept", rec.ID)
		return nil
	}

	r.logger.Debugf("Task %s recorded as %s", rec.ID, rec.Status)
	return nil
}

// GetTask retrieves a task record by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.TaskRecord, error) {
	query := `
		SELECT id, kind, status, progress, message, result, error, created_at, updated_at
		FROM task_records
		WHERE id = ?
	`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}

	return &rec, nil
}

// ListTasks returns the task records, most recently updated first.
func (r *Repository) ListTasks(ctx context.Context, opts storage.ListTasksOpts) ([]model.TaskRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, opts.Kind)
	}
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}

	query := `
		SELECT id, kind, status, progress, message, result, error, created_at, updated_at
		FROM task_records
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY updated_at DESC, created_at DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	var recs []model.TaskRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return recs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (model.TaskRecord, error) {
	var rec model.TaskRecord
	var result sql.NullString
	var createdAt, updatedAt int64

	err := s.Scan(
		&rec.ID,
		&rec.Kind,
		&rec.Status,
		&rec.Progress,
		&rec.Message,
		&result,
		&rec.Error,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return model.TaskRecord{}, err
	}

	if result.Valid {
		rec.Result = json.RawMessage(result.String)
	}
	rec.CreatedAt = timeFromUnix(createdAt)
	rec.UpdatedAt = timeFromUnix(updatedAt)

	return rec, nil
}

var _ storage.TaskRepository = &Repository{}
