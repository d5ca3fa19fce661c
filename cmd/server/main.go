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

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/BerylCAtieno/persona-studio/internal/api"
	"github.com/BerylCAtieno/persona-studio/internal/config"
	"github.com/BerylCAtieno/persona-studio/internal/gateway"
	"github.com/BerylCAtieno/persona-studio/internal/logger"
	"github.com/BerylCAtieno/persona-studio/internal/request"
	"github.com/BerylCAtieno/persona-studio/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logr.Sync()

	if cfg.Logging.Mode == "production" || cfg.Logging.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	client := gateway.NewClient(cfg.Service.BaseURL, cfg.Service.Timeout.Duration(),
		gateway.WithLogger(logr.With("component", "gateway")))
	sessions := session.NewManager(cfg.Session.Timeout.Duration())
	handler := api.NewHandler(request.NewBuilder(cfg.Generation.MaxCount), client, logr.With("component", "api"))
	router := api.NewRouter(handler, sessions, logr, api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Info("Persona Studio starting", "addr", srv.Addr, "service", cfg.Service.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logr.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return sessions.Run(gctx, cfg.Session.SweepInterval.Duration(), func(removed int) {
			logr.Debug("expired sessions swept", "removed", removed, "live", sessions.Count())
		})
	})

	if err := g.Wait(); err != nil {
		logr.Error("server exited", "error", err)
		logr.Sync()
		os.Exit(1)
	}
}
