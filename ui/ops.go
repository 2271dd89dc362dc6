package ui

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gocause/internal/config"
	"gocause/internal/orchestrator"
	"gocause/internal/session"
)

// NewOpsRouter builds the operational sidecar: liveness, an aggregate
// status view across sessions, and optionally pprof. It runs on its own
// port so operational traffic never mixes with the API.
func NewOpsRouter(cfg config.OpsConfig, manager *session.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if cfg.StatusEnabled {
		r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
			type entry struct {
				ID     string               `json:"id"`
				Name   string               `json:"name"`
				Status *orchestrator.Status `json:"status"`
			}

			sessions := manager.List()
			out := make([]entry, 0, len(sessions))
			for _, s := range sessions {
				e := entry{ID: s.ID.String(), Name: s.Name}
				_ = s.Do(func(o *orchestrator.Orchestrator) error {
					e.Status = o.GetStatus()
					return nil
				})
				out = append(out, e)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"sessions": out,
				"count":    len(out),
			})
		})
	}

	if cfg.PprofEnabled {
		r.Route("/debug/pprof", func(r chi.Router) {
			r.Get("/", pprof.Index)
			r.Get("/cmdline", pprof.Cmdline)
			r.Get("/profile", pprof.Profile)
			r.Get("/symbol", pprof.Symbol)
			r.Get("/trace", pprof.Trace)
			r.Get("/{name}", func(w http.ResponseWriter, req *http.Request) {
				pprof.Handler(chi.URLParam(req, "name")).ServeHTTP(w, req)
			})
		})
	}

	return r
}
