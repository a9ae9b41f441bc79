package api

import (
	"net/http"
)

// handleSchema reports the queryable tables and their columns so a client
// can render hints about what the chat can answer.
func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tables":      deps.Catalog.Tables(),
		"fingerprint": deps.Catalog.Fingerprint(),
	})
}
