package models

import "time"

// FieldMapping associates one ShotGrid field with one FileMaker field.
// The table is loaded once at startup and never mutated afterwards.
type FieldMapping struct {
	ID          string    `json:"id,omitempty"`
	SourceField string    `json:"source_field"`
	TargetField string    `json:"target_field"`
	Transform   string    `json:"transform,omitempty"`
	IsReference bool      `json:"is_reference"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}
