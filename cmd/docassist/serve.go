package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/liliang-cn/docassist/internal/api"
	"github.com/liliang-cn/docassist/internal/config"
	"github.com/liliang-cn/docassist/internal/llm"
	"github.com/liliang-cn/docassist/internal/repository"
	"github.com/liliang-cn/docassist/internal/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the documentation assistant backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return serve(cmd.Context(), a.cfg, logger)
		},
	}
}

// serve runs the backend until ctx is done
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	assistant := service.NewAssistantService(
		cfg,
		db,
		repository.NewDocumentRepository(db),
		repository.NewSectionRepository(db),
		llmClient,
		logger,
	)

	if cfg.Documents.LoadOnStart {
		if _, err := assistant.Reload(ctx); err != nil {
			// The folder can be fixed and reloaded through the API
			logger.Warn("Failed to load documentation on start", zap.Error(err))
		}
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(assistant, api.RouterConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting docassist server",
			zap.String("address", cfg.Address()),
			zap.String("documents", cfg.Documents.Path),
			zap.String("model", cfg.LLM.Model),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if cfg.Documents.Watch {
		watcher := service.NewWatcher(cfg.Documents.Path, cfg.Documents.WatchDebounce, assistant, logger)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}
