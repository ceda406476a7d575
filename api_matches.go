package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

/* ---------- Route: GET /api/matches ---------- */

// Filters: division_id, team_id, from/to (YYYY-MM-DD), or days=N for a
// trailing window (clamped 1..30). Paginated, newest first.
func (c *catalogAPI) handleListMatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := MatchFilter{}
	f.Page, f.PageSize = parsePage(r)

	if v := strings.TrimSpace(q.Get("division_id")); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.DivisionID = uint(n)
		}
	}
	if v := strings.TrimSpace(q.Get("team_id")); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.TeamID = uint(n)
		}
	}
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.From = t
		}
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.To = t
		}
	}
	if v := strings.TrimSpace(q.Get("days")); v != "" && f.From.IsZero() {
		days := 7
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 30 {
			days = n
		}
		f.From = time.Now().UTC().AddDate(0, 0, -days)
	}

	matches, total, err := c.matches.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"matches":   matches,
		"total":     total,
		"page":      f.Page,
		"page_size": f.PageSize,
	})
}

/* ---------- Route: GET /api/matches/{id} ---------- */

func (c *catalogAPI) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		writeError(w, r, ErrNotFound)
		return
	}

	ctx := r.Context()
	m, err := c.matches.Get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	preds, err := c.predictions.ListByMatch(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"match":       m,
		"predictions": preds,
		"total_goals": m.TotalGoals(),
		"elo_diff":    m.EloDiff(),
	})
}
