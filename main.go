package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"snowfight/arena"
)

func main() {
	cfg := arena.DefaultConfig()

	flag.StringVar(&cfg.Addr, "addr", envOr("ADDR", cfg.Addr), "listen address, e.g. :12345")
	flag.IntVar(&cfg.Workers, "workers", envIntOr("WORKERS", cfg.Workers), "number of reactor workers")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "world width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "world height")
	flag.IntVar(&cfg.CellSize, "cell-size", cfg.CellSize, "grid cell size")
	flag.IntVar(&cfg.PlayerTickMS, "player-tick-ms", cfg.PlayerTickMS, "view tick period in ms")
	flag.IntVar(&cfg.ObjectTickMS, "object-tick-ms", cfg.ObjectTickMS, "object tick period in ms")
	flag.Parse()

	if err := arena.InitLogger("app.log"); err != nil {
		panic(err)
	}
	defer arena.SyncLogger()
	log := arena.Log

	pool := arena.NewPool(cfg, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", pool.HandleWS)
	mux.HandleFunc("/admin/config", pool.HandleAdminConfig)
	mux.HandleFunc("/metrics", pool.HandleMetrics)
	mux.HandleFunc("/healthz", pool.HandleHealthz)

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pool.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Infof("snowfight listening on %s with %d workers", cfg.Addr, cfg.Workers)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-quit:
		log.Info("shutting down")
	case <-gctx.Done():
		// A worker or the listener ended on its own; treat as fatal.
	}

	cancel()
	_ = srv.Shutdown(context.Background())

	if err := g.Wait(); err != nil {
		log.Errorf("fatal: %v", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
