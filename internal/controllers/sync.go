package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/domains"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/services"
)

const defaultEntityType = "Element"

// SyncService is the core operation the handler drives.
type SyncService interface {
	Sync(ctx context.Context, entityType string, ids []int, debug bool) (*models.SyncResult, error)
}

// SyncHandler handles synchronization HTTP requests.
type SyncHandler struct {
	service SyncService
}

func NewSyncHandler(service SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// HandleSendPlates handles POST|GET /send_plates. Parameters come from the
// query string or the form body: entity_type (default "Element"),
// selected_ids (comma-separated, non-numeric tokens silently dropped) and
// debug.
func (h *SyncHandler) HandleSendPlates(w http.ResponseWriter, r *http.Request) {
	entityType := strings.TrimSpace(r.FormValue("entity_type"))
	if entityType == "" {
		entityType = defaultEntityType
	}

	ids := parseIDs(r.FormValue("selected_ids"))
	if len(ids) == 0 {
		h.respondError(w, http.StatusBadRequest, "invalid_ids", "No valid IDs provided")
		return
	}

	debug := parseBool(r.FormValue("debug"))
	if debug {
		log.Printf("[sync] Debug mode enabled for entity_type=%s ids=%v", entityType, ids)
	}

	result, err := h.service.Sync(r.Context(), entityType, ids, debug)
	if err != nil {
		h.respondSyncError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// HandleHealth handles GET /health
func (h *SyncHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *SyncHandler) respondSyncError(w http.ResponseWriter, err error) {
	log.Printf("[sync] Request failed: %v", err)

	var queryErr *services.UpstreamQueryError
	var sessionErr *services.SessionAcquisitionError
	var submitErr *services.SubmissionError

	switch {
	case errors.As(err, &queryErr):
		h.respondError(w, http.StatusBadGateway, "upstream_query_failed", err.Error())
	case errors.As(err, &sessionErr):
		h.respondError(w, http.StatusBadGateway, "session_acquisition_failed", err.Error())
	case errors.As(err, &submitErr):
		h.respondError(w, http.StatusBadGateway, "submission_failed", err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, "sync_failed", err.Error())
	}
}

// parseIDs parses a comma-separated id list, keeping positive integers and
// silently dropping everything else.
func parseIDs(raw string) []int {
	var ids []int
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.Atoi(token)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func (h *SyncHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *SyncHandler) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, domains.ErrorResponse{
		Error:   code,
		Message: message,
	})
}
