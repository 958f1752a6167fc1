package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"primeexplorer/internal/api"
	"primeexplorer/internal/config"
	"primeexplorer/internal/engine"
)

func main() {
	cfg, err := config.Load(os.LookupEnv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cancelSvc, err := engine.New(context.Background(), cfg.Engine())
	if err != nil {
		log.Fatalf("sequence service: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(svc, api.Limits{MaxCount: cfg.MaxCount, MaxBound: cfg.MaxBound}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("starting server on %s (max_count=%d max_bound=%d)", cfg.HTTPAddr, cfg.MaxCount, cfg.MaxBound)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancelSvc()
		<-svc.Done()
		log.Fatalf("server failed: %v", err)
	}

	cancelSvc()
	<-svc.Done()
	log.Printf("server stopped")
}
