package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sandfall/internal/sims/sand"
	"sandfall/internal/transport/observer"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "", "YAML sim config file")
		width      = flag.Int("w", 0, "grid width (0 keeps the config value)")
		height     = flag.Int("h", 0, "grid height (0 keeps the config value)")
		seed       = flag.Int64("seed", 0, "seed for the initial reset (0 keeps the config value)")
		tps        = flag.Int("tps", 60, "simulation steps per second")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[sand-serve] ", log.LstdFlags|log.Lmicroseconds)

	cfg := sand.DefaultConfig()
	if *configPath != "" {
		c, err := sand.LoadConfig(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		cfg = c
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	world := sand.NewWithConfig(cfg)
	world.Reset(cfg.Seed)

	srv, err := observer.NewServer(world, logger, observer.Options{TPS: *tps})
	if err != nil {
		logger.Fatalf("observer: %v", err)
	}
	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		logger.Printf("listening on %s (%dx%d @ %d tps)", *addr, cfg.Width, cfg.Height, *tps)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("serve: %v", err)
	}
	logger.Printf("stopped after %d steps", world.Steps())
}
