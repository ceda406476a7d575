package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func newRouter(cfg Settings, auth *authAPI, catalog *catalogAPI) chi.Router {
	r := chi.NewRouter()
	r.Use(recoverPanics)

	// allow comma-separated list of origins
	var origins []string
	for _, p := range strings.Split(cfg.CORSOrigin, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// ---- Routes
	// Auth
	r.Post("/auth/register", auth.handleRegister)
	r.Post("/auth/login", auth.handleLogin)
	r.Post("/auth/refresh", auth.handleRefresh)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.requireAuth)
		pr.Get("/auth/me", auth.handleMe)
		pr.Post("/api/predictions", catalog.handleCreatePrediction)
	})

	// Football data
	r.Get("/api/teams", catalog.handleListTeams)
	r.Get("/api/teams/{id}", catalog.handleGetTeam)
	r.Get("/api/matches", catalog.handleListMatches)
	r.Get("/api/matches/{id}", catalog.handleGetMatch)
	r.Get("/api/predictions", catalog.handleListPredictions)
	r.Get("/api/models", catalog.handleListModels)
	r.Get("/api/models/active", catalog.handleActiveModels)

	// Health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	return r
}

func main() {
	cfg, err := loadSettings()
	if err != nil {
		log.Fatalf("[env] %v", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Fatalf("[DB] %v", err)
	}
	if err := autoMigrate(db); err != nil {
		log.Fatalf("[DB] migrate failed: %v", err)
	}

	auth := newAuthAPI(cfg, newGormUserStore(db), newTokenService(cfg))
	catalog := newCatalogAPI(
		newGormTeamStore(db),
		newGormMatchStore(db),
		newGormPredictionStore(db),
		newGormMLModelStore(db),
	)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(cfg, auth, catalog),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Println("API listening on", addr, "CORS_ORIGIN:", cfg.CORSOrigin)
	log.Fatal(srv.ListenAndServe())
}
