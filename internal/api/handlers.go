package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tacsim/internal/sim"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *routerHandlers) handleListMaps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"maps": h.store.MapNames()})
}

func (h *routerHandlers) handleGetMap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, ok := h.store.GetMap(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown map")
		return
	}

	sites := make([]string, 0, len(m.BombSites()))
	for _, s := range m.BombSites() {
		sites = append(sites, s.Name)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":           m.Name,
		"width":          m.Width,
		"height":         m.Height,
		"maxElevation":   m.MaxElevation(),
		"bombSites":      sites,
		"attackerSpawns": len(m.AttackerSpawns()),
		"defenderSpawns": len(m.DefenderSpawns()),
	})
}

func (h *routerHandlers) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	match, err := h.store.Create(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, match.Summary())
}

func (h *routerHandlers) handleListMatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": h.store.List()})
}

func (h *routerHandlers) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	summary, ok := h.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown match")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *routerHandlers) handlePlayRound(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	summary, err := h.store.PlayRound(id)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *routerHandlers) handlePlayAll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	summary, err := h.store.PlayAll(id)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *routerHandlers) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, ok := h.store.Snapshot(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no round simulated yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleGetEvents returns the latest round's event log. Payloads stay
// opaque JSON so replay tooling sees exactly what the round recorded.
func (h *routerHandlers) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	events, ok := h.store.Events(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no round simulated yet")
		return
	}

	out := make([]map[string]interface{}, 0, len(events))
	for _, ev := range events {
		out = append(out, map[string]interface{}{
			"type":     ev.Type.String(),
			"time":     ev.Time,
			"sequence": ev.Sequence,
			"round":    ev.Round,
			"playerId": ev.PlayerID,
			"payload":  json.RawMessage(ev.Payload),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": out})
}

func (h *routerHandlers) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.store.Delete(id) {
		writeError(w, http.StatusNotFound, "unknown match")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *routerHandlers) handleGetWeapons(w http.ResponseWriter, r *http.Request) {
	weapons := sim.GetAllWeapons()
	out := make([]map[string]interface{}, 0, len(weapons))
	for _, wp := range weapons {
		out = append(out, map[string]interface{}{
			"name":   wp.Name,
			"type":   wp.Type.String(),
			"cost":   wp.Cost,
			"tier":   wp.Tier,
			"damage": wp.Damage,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"weapons": out})
}
