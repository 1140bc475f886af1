package models

import "time"

// Per-entity synchronization statuses.
const (
	StatusQueued  = "queued"
	StatusSkipped = "skipped"
	StatusCreated = "created"
	StatusFailed  = "failed"
)

// EntityStatus records the outcome for one source entity. Fields lists the
// target field names that were populated for queued/created entities.
type EntityStatus struct {
	SourceID int      `json:"sourceId"`
	Status   string   `json:"status"`
	Reason   string   `json:"reason,omitempty"`
	Fields   []string `json:"fields,omitempty"`
}

// SyncResult is the structured outcome of one synchronization request.
// Requested counts built records, not fetched entities. Diagnostics carries
// the raw FileMaker response only when the caller asked for it.
type SyncResult struct {
	OK          bool                   `json:"ok"`
	RunID       string                 `json:"run_id"`
	EntityType  string                 `json:"entity_type"`
	Requested   int                    `json:"requested"`
	Created     int                    `json:"created"`
	Skipped     int                    `json:"skipped"`
	Details     []EntityStatus         `json:"details"`
	Diagnostics map[string]interface{} `json:"diagnostics,omitempty"`
}

// SyncRun is the audit row persisted for each synchronization request.
type SyncRun struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	Requested  int       `json:"requested"`
	Created    int       `json:"created"`
	Skipped    int       `json:"skipped"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Details    []byte    `json:"-"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// SyncRun statuses.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)
