package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AngelCh415/ads-driver/internal/config"
	"github.com/AngelCh415/ads-driver/internal/driver"
	"github.com/AngelCh415/ads-driver/internal/models"
	"github.com/AngelCh415/ads-driver/internal/obs"
	"github.com/AngelCh415/ads-driver/internal/utils"
)

func NewRouter(log *slog.Logger, cfg config.Config, authn driver.Authenticator, gw driver.Gateway, m *obs.Metrics) http.Handler {
	h := &handlers{log: log, svc: cfg.Service, authn: authn, gw: gw, m: m}

	mux := chi.NewRouter()
	if cfg.Server.TrustProxy {
		mux.Use(middleware.RealIP)
	}
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(m.Instrument)
	if len(cfg.Server.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", models.HeaderToken, models.HeaderLogin, models.HeaderPassword},
			MaxAge:         300,
		}))
	}

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", m.Handler())

	mux.Group(func(r chi.Router) {
		r.Use(utils.RateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst))
		r.Use(utils.Timeout(cfg.Server.RequestTimeout, driver.TimeoutDetail, log))
		r.Use(utils.MaxBodyBytes(cfg.Server.MaxBodyBytes))

		r.Get("/info", h.info)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)
			r.Post("/accounts", h.accounts)
			r.Post("/check", h.check)
			r.Post("/stats", h.stats)
		})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
