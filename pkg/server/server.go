package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/contriview/pkg/handlers/contributions"
	"github.com/de-tools/contriview/pkg/services/registry"
	"github.com/de-tools/contriview/pkg/services/report"
	"github.com/de-tools/contriview/pkg/store/duckdb/snapshot"

	contriviewmiddleware "github.com/de-tools/contriview/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports   report.Service
	Snapshots snapshot.Store
	Registry  registry.Registry
	Logger    zerolog.Logger
	Now       func() time.Time
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	h := handlers.NewHandler(deps.Reports, deps.Snapshots, deps.Registry, deps.Now)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(contriviewmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/accounts", h.ListAccounts)
		r.Get("/accounts/{name}", h.GetAccount)
		r.Get("/users/{username}/contributions", h.GetContributions)
		r.Get("/users/{username}/contributions/{date}", h.GetDayContributions)
		r.Get("/users/{username}/snapshots", h.ListSnapshots)
		r.Get("/users/{username}/snapshots/{date}", h.GetSnapshot)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
