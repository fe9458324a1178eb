package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"evcal/internal/config"
	"evcal/internal/event"
	"evcal/internal/http/handler"
	mw "evcal/internal/http/middleware"
	"evcal/internal/ics"
)

func NewRouter(cfg config.Config, db *gorm.DB, cats *event.Categories, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if cats == nil {
		cats = event.DefaultCategories()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(log.Named("http")))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	svc := &event.Service{DB: db, Categories: cats}
	hlog := log.Named("handler")

	eventH := &handler.EventHandler{Svc: svc, Loc: loc, Log: hlog}
	calH := &handler.CalendarHandler{Svc: svc, Categories: cats, Loc: loc, Log: hlog}
	exportH := &handler.ExportHandler{Svc: svc, Exporter: ics.NewExporter(cfg.ICSProdID), Log: hlog}

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", calH.ListCategories)
		r.Get("/calendar/{year}/{month}", calH.Month)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventH.List)
			r.Post("/", eventH.Create)

			r.Get("/day", eventH.Day)
			r.Get("/export", exportH.Export)
			r.Post("/import", exportH.Import)

			r.Get("/{id}", eventH.Get)
			r.Put("/{id}", eventH.Update)
			r.Delete("/{id}", eventH.Delete)
		})
	})

	return r
}
