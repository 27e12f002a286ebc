package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/portfolio/internal/adapter/driven/memsurface"
	"github.com/ericfisherdev/portfolio/internal/adapter/driven/netprobe"
	sqliteadapter "github.com/ericfisherdev/portfolio/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/portfolio/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/portfolio/internal/adapter/driving/web"
	"github.com/ericfisherdev/portfolio/internal/application"
	"github.com/ericfisherdev/portfolio/internal/config"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio site and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fail fast on missing required env vars.
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"github_username", cfg.GitHubUsername,
		"show_projects", cfg.ShowProjects,
		"refresh_schedule", cfg.RefreshSchedule,
	)

	db, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeStore(db)
	slog.Info("database opened", "path", db.Path())

	loadRepo := sqliteadapter.NewLoadRepo(db)
	surface := memsurface.New()
	feedSvc := application.NewFeedService(
		newLister(cfg),
		surface,
		netprobe.New(cfg.ProbeAddr, probeTimeout),
		loadRepo,
		retryPolicy(cfg),
		slog.Default(),
	)

	var scheduler *application.RefreshScheduler
	if cfg.RefreshSchedule != "" {
		scheduler, err = application.NewRefreshScheduler(feedSvc, cfg.GitHubUsername, cfg.RefreshSchedule)
		if err != nil {
			return fmt.Errorf("PORTFOLIO_REFRESH_SCHEDULE: %w", err)
		}
	}

	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(feedSvc, surface, loadRepo, cfg.GitHubUsername, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)
	webHandler := webhandler.NewHandler(feedSvc, surface, cfg.GitHubUsername, cfg.ShowProjects, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.ApplyMiddleware(mux, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if cfg.ShowProjects {
		g.Go(func() error {
			autoLoad(gCtx, feedSvc, cfg.GitHubUsername, cfg.AutoLoadDelay)
			return nil
		})
	}

	if scheduler != nil {
		g.Go(func() error {
			return scheduler.Start(gCtx)
		})
	}

	slog.Info("portfolio started",
		"listen_addr", cfg.ListenAddr,
		"autoload_delay", cfg.AutoLoadDelay,
	)

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("shutdown complete")
	return nil
}

// autoLoad runs the initial feed load once delay has passed, unless ctx ends first.
func autoLoad(ctx context.Context, feedSvc *application.FeedService, username string, delay time.Duration) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	feedSvc.Load(ctx, username)
}
