// Package main provides the room server binary: the HTTP/websocket surface
// over the per-room state controllers.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/plazahq/plaza/internal/config"
	"github.com/plazahq/plaza/internal/directory"
	"github.com/plazahq/plaza/internal/media"
	"github.com/plazahq/plaza/internal/observability"
	"github.com/plazahq/plaza/internal/server"
	"github.com/plazahq/plaza/internal/transport/ws"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	flag.Parse()

	ctx := context.Background()

	var (
		cfg config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	provisioner, err := media.NewTokenProvisioner(cfg.Media.Secret, cfg.Media.TokenTTL)
	if err != nil {
		logger.Fatal("creating media provisioner", zap.Error(err))
	}

	registry := directory.NewRegistry(provisioner, logger)
	wsServer := ws.NewServer(registry, cfg.Room, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      wsServer.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
	}

	logger.Info("starting room server",
		zap.String("addr", cfg.Server.Addr()),
	)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("http", &server.FuncService{
		StartFn: func() error {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		StopFn: func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http shutdown", zap.Error(err))
			}
		},
	})

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("lifecycle failed", zap.Error(err))
	}
}
