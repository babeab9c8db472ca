package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"upperroom/internal/scheduler"
	"upperroom/pkg/config"
	"upperroom/pkg/contracts"
	"upperroom/pkg/middleware"
)

type Application struct {
	cfg       *config.Config
	server    *http.Server
	scheduler *scheduler.Scheduler
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp wires the HTTP stack. Health endpoints bypass the request
// timeout so a slow store cannot fail liveness probes.
func (a *Application) SetApp(healthHandler contracts.Handler, appHandlers ...contracts.Handler) {
	healthRouter := httprouter.New()
	healthHandler.RegisterRoutes(healthRouter)

	var healthHTTP http.Handler = healthRouter
	healthHTTP = middleware.RequestLogging(a.cfg.Log)(healthHTTP)
	healthHTTP = middleware.Recovery(a.cfg.Log)(healthHTTP)

	appRouter := httprouter.New()
	for _, h := range appHandlers {
		h.RegisterRoutes(appRouter)
	}

	var appHTTP http.Handler = appRouter
	appHTTP = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHTTP)
	appHTTP = middleware.RequestLogging(a.cfg.Log)(appHTTP)
	appHTTP = middleware.Recovery(a.cfg.Log)(appHTTP)

	mux := http.NewServeMux()
	mux.Handle("/health", healthHTTP)
	mux.Handle("/ready", healthHTTP)
	mux.Handle("/", appHTTP)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// SetScheduler attaches the trigger registry. Triggers must already be
// registered; Run starts and stops it with the server.
func (a *Application) SetScheduler(s *scheduler.Scheduler) {
	a.scheduler = s
}

func (a *Application) Run() {
	if a.scheduler != nil {
		a.scheduler.Start()
		a.cfg.Log.Info("Scheduler started", "triggers", a.scheduler.Triggers())
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	if a.scheduler != nil {
		a.scheduler.Stop(a.cfg.ShutdownTimeout)
		a.cfg.Log.Info("Scheduler stopped")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Client.GracefulShutdown(a.cfg.Log, a.cfg.ShutdownTimeout)
	a.cfg.Log.Info("Server stopped gracefully")
}
