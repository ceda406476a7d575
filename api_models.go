package main

import "net/http"

/* ---------- Route: GET /api/models ---------- */

func (c *catalogAPI) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := c.models.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

/* ---------- Route: GET /api/models/active ---------- */

func (c *catalogAPI) handleActiveModels(w http.ResponseWriter, r *http.Request) {
	models, err := c.models.Active(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}
