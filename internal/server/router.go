package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/lavanderia-app/internal/config"
	"github.com/diewo77/lavanderia-app/internal/handlers"
	"github.com/diewo77/lavanderia-app/internal/middleware"
	"github.com/diewo77/lavanderia-app/internal/pricing"
	"github.com/diewo77/lavanderia-app/internal/services"
	"github.com/diewo77/lavanderia-app/internal/store"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config, log *logrus.Logger) http.Handler {
	st := store.New(db)
	svc := services.NewBoletaService()
	h := handlers.NewBoletaHandler(st, svc, pricing.Default(), cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Get("/", h.Home)
	r.Get("/boletas", h.List)
	r.Get("/export.csv", h.ExportCSV)
	r.Get("/logout", h.Logout)
	r.Get("/boleta/nueva", h.NewForm)
	r.Post("/boleta/nueva", h.Create)
	r.Get("/boleta/{id}", h.Detail)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"degraded"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	fs := http.FileServer(http.Dir("static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fs))

	return r
}
