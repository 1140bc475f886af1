package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/mapper"
)

// MappingsHandler exposes the active mapping table, read-only. The table is
// loaded once at startup; edits go through the database and take effect on
// the next start.
type MappingsHandler struct {
	table *mapper.Table
}

func NewMappingsHandler(table *mapper.Table) *MappingsHandler {
	return &MappingsHandler{table: table}
}

func (h *MappingsHandler) HandleListMappings(w http.ResponseWriter, r *http.Request) {
	entries := h.table.Entries()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"mappings": entries,
		"count":    len(entries),
	})
}
