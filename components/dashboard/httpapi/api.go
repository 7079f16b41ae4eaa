package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-statboard/components/dashboard"
	"github.com/goliatone/go-statboard/components/dashboard/commands"
	"github.com/goliatone/go-statboard/components/dashboard/queries"
)

// Handlers exposes net/http endpoints backed by shared commands and queries.
type Handlers struct {
	Refresh gocommand.Commander[commands.RefreshDashboardInput]
	Board   gocommand.Querier[dashboard.ViewerContext, dashboard.BoardPayload]
	Region  gocommand.Querier[queries.RegionInput, dashboard.RegionPayload]
}

// HandleRefresh reloads the indicators named in the body, or all of them
// when the body is empty.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshDashboardInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleBoard writes the board payload as JSON.
func (h *Handlers) HandleBoard(w http.ResponseWriter, r *http.Request) {
	payload, err := h.Board.Query(r.Context(), viewerFromRequest(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, payload)
}

// HandleRegion writes one region as JSON.
func (h *Handlers) HandleRegion(w http.ResponseWriter, r *http.Request, regionID string) {
	payload, err := h.Region.Query(r.Context(), queries.RegionInput{
		Viewer:   viewerFromRequest(r),
		RegionID: regionID,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if dashboard.IsRegionNotFound(err) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, payload)
}

func viewerFromRequest(r *http.Request) dashboard.ViewerContext {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = r.Header.Get("Accept-Language")
	}
	return dashboard.ViewerContext{Locale: locale}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
