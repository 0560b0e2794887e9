package devhost

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
)

// AdminHandler returns the host's HTTP admin surface: the built-in
// diagnostic routes plus everything node types registered through
// Runtime.Routes during Init. The app shell serves it; tests hit it
// directly with httptest.
func (h *Host) AdminHandler() http.Handler { return h.mux }

// registerAdminRoutes installs the built-in diagnostic endpoints on the
// admin mux. Node types add their own routes next to these during Init.
func (h *Host) registerAdminRoutes() {
	h.mux.HandleFunc("/health", h.handleHealth)
	h.mux.HandleFunc("/types", h.handleTypes)
	h.mux.HandleFunc("/flows", h.handleFlows)
	h.mux.HandleFunc("/status", h.handleStatus)
}

func (h *Host) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (h *Host) handleTypes(w http.ResponseWriter, _ *http.Request) {
	types := h.Types()
	sort.Strings(types)
	writeJSON(w, h, map[string]any{"types": types})
}

func (h *Host) handleFlows(w http.ResponseWriter, _ *http.Request) {
	flows := h.Flows()
	sort.Strings(flows)
	writeJSON(w, h, map[string]any{"flows": flows})
}

func (h *Host) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h, map[string]any{"status": h.board.snapshot()})
}

func writeJSON(w http.ResponseWriter, h *Host, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Admin response encoding failed.", "error", err)
	}
}
