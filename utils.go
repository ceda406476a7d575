package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorJSON writes the uniform error envelope for request-shape failures
// (bad JSON, missing fields) that never become APIError values.
func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Message: msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// idParam parses the {id} route parameter. Zero means unparseable.
func idParam(r *http.Request) uint {
	n, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

// parsePage reads page/page_size query params, clamped to sane bounds.
func parsePage(r *http.Request) (page, pageSize int) {
	page, pageSize = 1, 20
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			page = n
		}
	}
	if v := strings.TrimSpace(q.Get("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}

// recoverPanics is the outermost boundary: a panicking handler is logged
// with request context and the client sees only the bare 500 envelope.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[http] panic on %s %s: %v", r.Method, r.URL.Path, rec)
				errorJSON(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
