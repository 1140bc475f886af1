package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/api"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/domains"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/mapper"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
)

// SourceClient queries ShotGrid for entities by id set.
type SourceClient interface {
	Find(ctx context.Context, entityType string, ids []int, fields []string) ([]models.SourceEntity, error)
}

// TargetClient is the FileMaker Data API surface the sync needs.
type TargetClient interface {
	CreateSession(ctx context.Context) (string, error)
	CreateRecords(ctx context.Context, token string, records []models.TargetRecord) (*api.CreateRecordsResult, error)
	CloseSession(ctx context.Context, token string) error
}

// RunStore persists sync run audit rows.
type RunStore interface {
	Insert(run *models.SyncRun) error
}

// EventPublisher announces completed runs.
type EventPublisher interface {
	PublishRunEvent(event *domains.RunEvent) error
}

// SyncService runs one synchronization request end to end: fetch entities
// from ShotGrid, build FileMaker records through the mapping table, submit
// them under a scoped session, and aggregate the result. Audit persistence
// and event publishing are best-effort and never change the outcome.
type SyncService struct {
	source    SourceClient
	target    TargetClient
	table     *mapper.Table
	builder   *mapper.Builder
	runs      RunStore
	publisher EventPublisher
}

func NewSyncService(source SourceClient, target TargetClient, table *mapper.Table, runs RunStore, publisher EventPublisher) *SyncService {
	return &SyncService{
		source:    source,
		target:    target,
		table:     table,
		builder:   mapper.NewBuilder(table),
		runs:      runs,
		publisher: publisher,
	}
}

// Sync translates the entities named by ids into FileMaker records and
// creates them in one batch. Requested counts built records, not fetched
// entities. The raw FileMaker response is attached only when debug is set.
func (s *SyncService) Sync(ctx context.Context, entityType string, ids []int, debug bool) (*models.SyncResult, error) {
	run := &models.SyncRun{
		ID:         uuid.NewString(),
		EntityType: entityType,
		StartedAt:  time.Now().UTC(),
	}

	entities, err := s.source.Find(ctx, entityType, ids, s.table.RequestFields())
	if err != nil {
		qErr := &UpstreamQueryError{Err: err}
		s.finishFailed(run, qErr)
		return nil, qErr
	}

	records, statuses := s.builder.Build(entities)

	result := &models.SyncResult{
		RunID:      run.ID,
		EntityType: entityType,
		Requested:  len(records),
		Details:    statuses,
	}

	// Nothing to submit: report the skips without contacting FileMaker.
	if len(records) == 0 {
		result.OK = true
		result.Skipped = countStatus(statuses, models.StatusSkipped)
		s.finishSucceeded(run, result)
		return result, nil
	}

	var submitted *api.CreateRecordsResult
	err = withSession(ctx, s.target, func(token string) error {
		res, err := s.target.CreateRecords(ctx, token, records)
		if err != nil {
			return &SubmissionError{Err: err, Attempted: len(records)}
		}
		submitted = res
		return nil
	})
	if err != nil {
		s.finishFailed(run, err)
		return nil, err
	}

	promoteQueued(result.Details, submitted.Created)

	result.OK = true
	result.Created = submitted.Created
	result.Skipped = countStatus(result.Details, models.StatusSkipped)
	if debug {
		result.Diagnostics = submitted.Raw
	}

	s.finishSucceeded(run, result)
	return result, nil
}

// promoteQueued marks queued entities created, in order, up to the number
// of acknowledgments. FileMaker acks are positional; any queued entity past
// the ack count was silently rejected and is reported failed.
func promoteQueued(statuses []models.EntityStatus, acked int) {
	for i := range statuses {
		if statuses[i].Status != models.StatusQueued {
			continue
		}
		if acked > 0 {
			statuses[i].Status = models.StatusCreated
			acked--
		} else {
			statuses[i].Status = models.StatusFailed
			statuses[i].Reason = "no acknowledgment from target"
		}
	}
}

func countStatus(statuses []models.EntityStatus, status string) int {
	n := 0
	for _, st := range statuses {
		if st.Status == status {
			n++
		}
	}
	return n
}

func (s *SyncService) finishSucceeded(run *models.SyncRun, result *models.SyncResult) {
	run.Status = models.RunSucceeded
	run.Requested = result.Requested
	run.Created = result.Created
	run.Skipped = result.Skipped
	run.FinishedAt = time.Now().UTC()
	if details, err := json.Marshal(result.Details); err == nil {
		run.Details = details
	}
	s.persist(run)

	if s.publisher != nil {
		if err := s.publisher.PublishRunEvent(domains.NewRunEvent(result)); err != nil {
			log.Printf("[sync] Failed to publish run event: %v", err)
		}
	}
}

func (s *SyncService) finishFailed(run *models.SyncRun, cause error) {
	run.Status = models.RunFailed
	run.Error = cause.Error()
	run.FinishedAt = time.Now().UTC()
	s.persist(run)
}

func (s *SyncService) persist(run *models.SyncRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Insert(run); err != nil {
		log.Printf("[sync] Failed to persist run %s: %v", run.ID, err)
	}
}
