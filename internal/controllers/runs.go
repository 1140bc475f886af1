package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/repository"
)

const defaultRunsLimit = 20

// RunsHandler exposes the sync run audit trail.
type RunsHandler struct {
	repo *repository.SyncRunRepository
}

func NewRunsHandler(repo *repository.SyncRunRepository) *RunsHandler {
	return &RunsHandler{repo: repo}
}

func (h *RunsHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	runs, err := h.repo.ListRecent(limit)
	if err != nil {
		http.Error(w, "Failed to load runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

func (h *RunsHandler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	run, err := h.repo.FindByID(id)
	if err != nil {
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"run": run,
	})
}
