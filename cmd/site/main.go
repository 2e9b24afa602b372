package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/codeharbor/portfolio/config"
	"github.com/codeharbor/portfolio/internal/bootstrap"
	"github.com/codeharbor/portfolio/internal/content/collection"
	"github.com/codeharbor/portfolio/internal/imageurl"
	"github.com/codeharbor/portfolio/internal/logging"
	"github.com/codeharbor/portfolio/internal/session"
	"github.com/codeharbor/portfolio/internal/site"
)

const serviceName = "portfolio-site"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	site.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// each request carries its caller's token; the server has no session of its own
	content, err := bootstrap.OpenContent(ctx, cfg, session.RequestTokens{}, logger)
	if err != nil {
		logger.Fatal("content init failed", zap.Error(err))
	}
	defer content.Close()

	articles := collection.NewArticles(content.Articles, logger)
	projects := collection.NewProjectItems(content.ProjectItems, logger)
	defer articles.Close()
	defer projects.Close()

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.API.Timeout)
	if err := site.LoadAll(loadCtx, articles, projects); err != nil {
		// every list request refetches, so a failed warm-up only costs latency
		logger.Warn("initial load failed", zap.Error(err))
	}
	cancelLoad()

	if cfg.Server.RefreshSchedule != "" {
		scheduler, err := site.NewScheduler(cfg.Server.RefreshSchedule, logger, articles, projects)
		if err != nil {
			logger.Fatal("scheduler init failed", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := site.BuildRouter(site.RouterDeps{
		ServiceName:   serviceName,
		Version:       cfg.App.Version,
		CORSOrigins:   cfg.Server.CORSOrigins,
		Articles:      articles,
		ProjectItems:  projects,
		Images:        imageurl.Resolver{Origin: cfg.API.Origin, Base: cfg.API.AssetBase},
		SecureCookies: cfg.IsProduction(),
		Upstream:      content.Metrics,
		Logger:        logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("api_url", cfg.API.URL),
			zap.String("content_backend", cfg.Content.Backend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
