package repository

import (
	"database/sql"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
)

type FieldMappingRepository struct {
	db *sql.DB
}

func NewFieldMappingRepository(db *sql.DB) *FieldMappingRepository {
	return &FieldMappingRepository{db: db}
}

// Seed inserts the given mappings when the table is empty. The table is
// only ever written here; at runtime it is read once at startup.
func (r *FieldMappingRepository) Seed(defaults []models.FieldMapping) error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM field_mappings`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO field_mappings (source_field, target_field, transform, is_reference, is_active, position)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range defaults {
		if _, err := stmt.Exec(m.SourceField, m.TargetField, m.Transform, m.IsReference, m.IsActive, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadActive returns the active mappings in table order.
func (r *FieldMappingRepository) LoadActive() ([]models.FieldMapping, error) {
	query := `
		SELECT id, source_field, target_field, transform, is_reference, is_active, created_at
		FROM field_mappings
		WHERE is_active = true
		ORDER BY position
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []models.FieldMapping
	for rows.Next() {
		var m models.FieldMapping
		var transform sql.NullString

		err := rows.Scan(
			&m.ID,
			&m.SourceField,
			&m.TargetField,
			&transform,
			&m.IsReference,
			&m.IsActive,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if transform.Valid {
			m.Transform = transform.String
		}
		mappings = append(mappings, m)
	}

	return mappings, rows.Err()
}
