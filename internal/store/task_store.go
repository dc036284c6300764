package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TaskStore tracks, per instrument and calendar day, whether a scan has
// completed and the freshest input file mtime it saw. The scan harness
// records each completed day here with MarkDone; its skip decision is
// made from the output file's mtime (output.ShouldSkip), not from this
// store.
type TaskStore struct {
	db *DB
}

// NewTaskStore wraps db for scan-completion bookkeeping.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

// TaskStatus is the completion record for one instrument/day pair.
type TaskStatus struct {
	Instrument    string
	DayKey        string
	DoneAt        *time.Time
	InputMaxMtime *time.Time
}

// Get returns the task status for instrument/dayKey, or a zero-value
// status with DoneAt and InputMaxMtime both nil if no row exists yet.
func (s *TaskStore) Get(ctx context.Context, instrument, dayKey string) (TaskStatus, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT done_at, input_max_mtime FROM scan_tasks
		WHERE instrument = ? AND day_key = ?
	`, instrument, dayKey)

	var doneAt, inputMaxMtime sql.NullString
	err := row.Scan(&doneAt, &inputMaxMtime)
	if err == sql.ErrNoRows {
		return TaskStatus{Instrument: instrument, DayKey: dayKey}, nil
	}
	if err != nil {
		return TaskStatus{}, fmt.Errorf("query scan task: %w", err)
	}

	status := TaskStatus{Instrument: instrument, DayKey: dayKey}
	if doneAt.Valid {
		t, err := time.Parse(TimeFormat, doneAt.String)
		if err != nil {
			return TaskStatus{}, fmt.Errorf("parse done_at %q: %w", doneAt.String, err)
		}
		status.DoneAt = &t
	}
	if inputMaxMtime.Valid {
		t, err := time.Parse(TimeFormat, inputMaxMtime.String)
		if err != nil {
			return TaskStatus{}, fmt.Errorf("parse input_max_mtime %q: %w", inputMaxMtime.String, err)
		}
		status.InputMaxMtime = &t
	}
	return status, nil
}

// MarkDone records that instrument/dayKey completed at doneAt, with
// inputMaxMtime as the freshest input file mtime observed during the run.
func (s *TaskStore) MarkDone(ctx context.Context, instrument, dayKey string, doneAt, inputMaxMtime time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_tasks (instrument, day_key, done_at, input_max_mtime)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (instrument, day_key) DO UPDATE SET
			done_at = excluded.done_at,
			input_max_mtime = excluded.input_max_mtime
	`, instrument, dayKey, doneAt.UTC().Format(TimeFormat), inputMaxMtime.UTC().Format(TimeFormat))
	if err != nil {
		return fmt.Errorf("mark scan task done: %w", err)
	}
	return nil
}

// NeedsRun reports whether instrument/dayKey should be (re-)scanned: true
// if the day has never completed, or if inputMaxMtime is newer than the
// mtime recorded at the last completed run.
func (s *TaskStore) NeedsRun(ctx context.Context, instrument, dayKey string, inputMaxMtime time.Time) (bool, error) {
	status, err := s.Get(ctx, instrument, dayKey)
	if err != nil {
		return false, err
	}
	if status.DoneAt == nil {
		return true, nil
	}
	if status.InputMaxMtime == nil {
		return true, nil
	}
	return inputMaxMtime.After(*status.InputMaxMtime), nil
}
