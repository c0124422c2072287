package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/cardsmith/api/openapi"
	"github.com/donaldgifford/cardsmith/internal/api/handlers"
	"github.com/donaldgifford/cardsmith/internal/api/middleware"
	"github.com/donaldgifford/cardsmith/internal/scheduler"
	"github.com/donaldgifford/cardsmith/internal/store"
	"github.com/donaldgifford/cardsmith/internal/telemetry"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and history retention scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Tracing, Version, log)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(tctx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	gen, resultCache := newGenerator(cfg, newBackend(cfg), log)

	sched, err := scheduler.NewScheduler(st, cfg.History.PruneInterval, cfg.History.MaxAge, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()
	defer func() {
		<-sched.Stop().Done()
	}()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(st))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	openapi.RegisterRoutes(e)

	genHandler := handlers.NewGenerateHandler(gen,
		handlers.WithHistory(handlers.NewHistoryRecorder(st, cfg.History.KeepPerUser, log)),
		handlers.WithDefaults(handlers.RequestDefaults{
			Language: domain.Language(cfg.Generation.DefaultLanguage),
			Platform: cfg.Generation.DefaultPlatform,
		}),
		handlers.WithLogger(log),
	)
	handlers.RegisterStreamRoutes(e, genHandler)

	api := humaecho.New(e, openapi.Config(Version))
	handlers.RegisterGenerateRoutes(api, genHandler)
	handlers.RegisterGenerationRoutes(api, handlers.NewGenerationsHandler(st))
	handlers.RegisterCatalogRoutes(api)
	handlers.RegisterStatsRoutes(api, handlers.NewStatsHandler(st, resultCache))

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	log.Info("starting server",
		"addr", addr,
		"version", Version,
		"model", cfg.LLM.Ollama.Model,
		"ollama", cfg.LLM.Ollama.Endpoint,
		"database", cfg.Database.Driver,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving HTTP: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
