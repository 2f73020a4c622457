package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/charleschow/matchday/internal/config"
	"github.com/charleschow/matchday/internal/server"
	"github.com/charleschow/matchday/internal/store"
	"github.com/charleschow/matchday/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		telemetry.Fatalf("load tuning: %v", err)
	}
	// env stoppage bias overrides the tuning file
	if cfg.StoppageBias >= 0 && cfg.StoppageBias <= 5 {
		tuning.StoppageBias = cfg.StoppageBias
	}

	results, err := store.Open(cfg.ResultsDBPath)
	if err != nil {
		telemetry.Fatalf("open results store: %v", err)
	}
	defer results.Close()

	srv := server.New(cfg, tuning, results)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort),
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		telemetry.Infof("matchday server listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		telemetry.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		telemetry.Fatalf("server: %v", err)
	}
}
