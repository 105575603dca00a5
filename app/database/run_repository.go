package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RunRepo struct {
	db *DB
}

var _ RunRepository = (*RunRepo)(nil)

func NewRunRepository(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

const runColumns = `id, started_at, finished_at, status, fetched_count,
	created_count, duplicate_count, error_text`

func (r *RunRepo) OpenRun(startedAt time.Time) (string, error) {
	id := uuid.NewString()

	_, err := r.db.Exec(`
		INSERT INTO runs (id, started_at, status)
		VALUES (?, ?, ?)
	`, id, startedAt.UTC(), RunStatusRunning)
	if err != nil {
		return "", fmt.Errorf("failed to open run: %w", err)
	}

	return id, nil
}

// FinalizeRun mutates the run row opened by OpenRun. Status is monotonic:
// only a running run may be finalized.
func (r *RunRepo) FinalizeRun(id string, status string, fetched, created, duplicates int, errorText string) error {
	result, err := r.db.Exec(`
		UPDATE runs
		SET finished_at = ?, status = ?, fetched_count = ?,
		    created_count = ?, duplicate_count = ?, error_text = ?
		WHERE id = ? AND status = ?
	`, time.Now().UTC(), status, fetched, created, duplicates, errorText,
		id, RunStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to finalize run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s is not in running state", id)
	}

	return nil
}

func (r *RunRepo) GetRun(id string) (*Run, error) {
	var run Run
	err := r.db.QueryRow(`
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status,
		&run.FetchedCount, &run.CreatedCount, &run.DuplicateCount, &run.ErrorText,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &run, nil
}

func (r *RunRepo) GetRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT `+runColumns+`
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(
			&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status,
			&run.FetchedCount, &run.CreatedCount, &run.DuplicateCount, &run.ErrorText,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

func (r *RunRepo) GetLastSuccessfulRun() (*Run, error) {
	var run Run
	err := r.db.QueryRow(`
		SELECT `+runColumns+`
		FROM runs
		WHERE status = ?
		ORDER BY finished_at DESC
		LIMIT 1
	`, RunStatusSuccess).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status,
		&run.FetchedCount, &run.CreatedCount, &run.DuplicateCount, &run.ErrorText,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last successful run: %w", err)
	}

	return &run, nil
}
