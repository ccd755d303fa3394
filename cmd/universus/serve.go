package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// runServe exposes the aggregated views over JSON HTTP and, when an updater
// interval is configured, refreshes tracked worlds periodically in the
// background.
func (a *app) runServe(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler: a.createHandler(),
	}

	if a.cfg.Updater.Interval > 0 {
		worlds, err := a.trackedWorlds(ctx)
		if err != nil {
			return err
		}
		for _, world := range worlds {
			go a.updater.RunPeriodic(ctx, a.cfg.Updater.Interval, world)
		}
		a.logger.Info("periodic refresh enabled",
			"interval", a.cfg.Updater.Interval,
			"worlds", len(worlds),
		)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "port", a.cfg.Server.Port)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// trackedWorlds returns the distinct worlds that have tracked items.
func (a *app) trackedWorlds(ctx context.Context) ([]string, error) {
	items, err := a.service.TrackedItems(ctx, "")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var worlds []string
	for _, item := range items {
		if !seen[item.World] {
			seen[item.World] = true
			worlds = append(worlds, item.World)
		}
	}
	return worlds, nil
}

func (a *app) createHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		if err := a.store.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["store"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["store"] = "connected"
		}
		health.Components["updater"] = a.updater.State().String()

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/tracked", func(w http.ResponseWriter, r *http.Request) {
		items, err := a.service.TrackedItems(r.Context(), r.URL.Query().Get("world"))
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, map[string]any{"items": items})
	})

	mux.HandleFunc("/top", func(w http.ResponseWriter, r *http.Request) {
		world := r.URL.Query().Get("world")
		if world == "" {
			http.Error(w, "world parameter is required", http.StatusBadRequest)
			return
		}
		limit := queryInt(r, "limit", 10)

		items, err := a.service.TopItems(r.Context(), world, limit)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, map[string]any{"world": world, "items": items})
	})

	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		world := r.URL.Query().Get("world")
		itemID := queryInt(r, "item", 0)
		if world == "" || itemID == 0 {
			http.Error(w, "world and item parameters are required", http.StatusBadRequest)
			return
		}
		days := queryInt(r, "days", 30)

		snaps, trends, err := a.service.ItemReport(r.Context(), world, itemID, days)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, map[string]any{
			"world":     world,
			"item_id":   itemID,
			"snapshots": snaps,
			"trends":    trends,
		})
	})

	return mux
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
