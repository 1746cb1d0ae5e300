package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appMiddleware "github.com/imgdrop/service/internal/middleware"
	"github.com/imgdrop/service/internal/upload"
)

type routerDeps struct {
	uploads     *upload.Handler
	logger      *slog.Logger
	metrics     http.Handler
	corsOrigins []string
	staticDir   string
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(d.logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Liveness only.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if d.metrics != nil {
		r.Handle("/metrics", d.metrics)
	}

	// Swagger UI at /swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Post("/upload", d.uploads.Upload)
	r.Get("/uploads", d.uploads.List)

	// Static upload page; index.html is the default document.
	if d.staticDir != "" {
		files := http.FileServer(http.Dir(d.staticDir))
		r.Get("/*", files.ServeHTTP)
		r.Head("/*", files.ServeHTTP)
	}

	return r
}
