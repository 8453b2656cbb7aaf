// Package ports exposes the monitoring results over HTTP.
package ports

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pietroscik/marinetraffic/core/model"
	"github.com/pietroscik/marinetraffic/core/report"
)

// Handler serves the latest per-port reports from the in-memory store.
type Handler struct {
	ports []model.Port
	store *report.MemoryStore
}

// NewHandler builds the API handler for the configured ports.
func NewHandler(ports []model.Port, store *report.MemoryStore) *Handler {
	return &Handler{ports: ports, store: store}
}

// Router returns the HTTP routes served by the handler.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/ports", h.listPorts).Methods(http.MethodGet)
	r.HandleFunc("/api/ports/{name}/report", h.portReport).Methods(http.MethodGet)
	r.HandleFunc("/api/reports", h.listReports).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	return r
}

func (h *Handler) listPorts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.ports)
}

func (h *Handler) listReports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.store.All())
}

func (h *Handler) portReport(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	rep, ok := h.store.Get(name)
	if !ok {
		http.Error(w, "no report for port "+name, http.StatusNotFound)
		return
	}
	writeJSON(w, rep)
}

// health reports ready once the first monitoring cycle has stored a report.
func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	if !h.store.Ready() {
		http.Error(w, "waiting for first cycle", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
