package main

import (
	"net/http"
	"strconv"
	"strings"
)

// catalogAPI serves the read-mostly football data: teams, matches,
// predictions and trained-model metadata. Handlers are thin pass-throughs to
// the entity stores.
type catalogAPI struct {
	teams       TeamStore
	matches     MatchStore
	predictions PredictionStore
	models      MLModelStore
}

func newCatalogAPI(teams TeamStore, matches MatchStore, predictions PredictionStore, models MLModelStore) *catalogAPI {
	return &catalogAPI{teams: teams, matches: matches, predictions: predictions, models: models}
}

/* ---------- Route: GET /api/teams ---------- */

func (c *catalogAPI) handleListTeams(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)
	teams, total, err := c.teams.List(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"teams":     teams,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

/* ---------- Route: GET /api/teams/{id} ---------- */

// Team detail bundles the stats row and the recent ELO snapshots so the
// frontend renders a team page with one call.
func (c *catalogAPI) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		writeError(w, r, ErrNotFound)
		return
	}

	ctx := r.Context()
	team, err := c.teams.Get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := c.teams.StatsFor(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit := 12 // six months of twice-monthly snapshots
	if v := strings.TrimSpace(r.URL.Query().Get("elo_limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 100 {
			limit = n
		}
	}
	hist, err := c.teams.EloHistoryFor(ctx, id, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"team":        team,
		"stats":       stats,
		"elo_history": hist,
	})
}
