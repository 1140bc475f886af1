package repository

import (
	"database/sql"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
)

type SyncRunRepository struct {
	db *sql.DB
}

func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Insert(run *models.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, entity_type, requested, created, skipped, status, error, details, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)
	`

	// lib/pq binds []byte as bytea; jsonb wants text.
	var details interface{}
	if len(run.Details) > 0 {
		details = string(run.Details)
	}

	_, err := r.db.Exec(query,
		run.ID,
		run.EntityType,
		run.Requested,
		run.Created,
		run.Skipped,
		run.Status,
		run.Error,
		details,
		run.StartedAt,
		run.FinishedAt,
	)
	return err
}

func (r *SyncRunRepository) ListRecent(limit int) ([]*models.SyncRun, error) {
	query := `
		SELECT id, entity_type, requested, created, skipped, status, error, started_at, finished_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *SyncRunRepository) FindByID(id string) (*models.SyncRun, error) {
	query := `
		SELECT id, entity_type, requested, created, skipped, status, error, started_at, finished_at
		FROM sync_runs
		WHERE id = $1
	`

	run, err := scanRun(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func scanRun(scan func(dest ...interface{}) error) (*models.SyncRun, error) {
	run := &models.SyncRun{}
	var runErr sql.NullString

	err := scan(
		&run.ID,
		&run.EntityType,
		&run.Requested,
		&run.Created,
		&run.Skipped,
		&run.Status,
		&runErr,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	if runErr.Valid {
		run.Error = runErr.String
	}
	return run, nil
}
