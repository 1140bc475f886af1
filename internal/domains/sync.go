package domains

import (
	"time"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
)

// RunEvent is the message published to the broker after a completed run.
type RunEvent struct {
	RunID      string `json:"run_id"`
	EntityType string `json:"entity_type"`
	Requested  int    `json:"requested"`
	Created    int    `json:"created"`
	Skipped    int    `json:"skipped"`
	Timestamp  string `json:"timestamp"`
}

// NewRunEvent builds a run event from a synchronization result.
func NewRunEvent(result *models.SyncResult) *RunEvent {
	return &RunEvent{
		RunID:      result.RunID,
		EntityType: result.EntityType,
		Requested:  result.Requested,
		Created:    result.Created,
		Skipped:    result.Skipped,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorResponse is the error body returned to HTTP callers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
