// Package main wires together the snapshot dashboard data service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/epiwatch/covidsnap/internal/api"
	"github.com/epiwatch/covidsnap/internal/config"
	"github.com/epiwatch/covidsnap/internal/logging"
	"github.com/epiwatch/covidsnap/internal/snapshot"
	"github.com/epiwatch/covidsnap/internal/store"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := snapshot.NewLoader(cfg.Data.RegionMarker, logger.Named("loader"))
	st := store.New()

	sources, err := snapshot.ScanDir(cfg.Data.Dir, cfg.Data.Extension)
	if err != nil {
		logger.Fatal("scan data dir failed", zap.String("dir", cfg.Data.Dir), zap.Error(err))
	}
	for _, src := range sources {
		records, err := loader.Load(src.Path)
		if err != nil {
			logger.Warn("skipping snapshot",
				zap.String("key", src.Key),
				zap.Error(err),
			)
			continue
		}
		st.Put(src.Key, records)
	}
	logger.Info("snapshots loaded",
		zap.Int("count", st.Len()),
		zap.String("dir", cfg.Data.Dir),
	)

	apiServer := api.NewServer(st, cfg, logger.Named("api"))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
