package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mbtid/internal/config"
	"mbtid/internal/httpapi"
	"mbtid/internal/httpapi/docs"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP server",
		Example: "  mbtid serve --model-dir ./model --addr :8080",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, newLogger(cmd.ErrOrStderr(), cfg))
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.addr, "addr", config.DefaultAddr, "HTTP listen address, e.g. :8080")
	fl.BoolVar(&f.lazy, "lazy", false, "Load the artifact on the first prediction instead of at startup")
	fl.Int64Var(&f.maxBodyBytes, "max-body-bytes", config.DefaultMaxBodyBytes, "Maximum POST body size in bytes")
	fl.DurationVar(&f.predictTimeout, "predict-timeout", 0, "Upper bound for one prediction, e.g. 2s (0 disables)")
	fl.StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated origins allowed by CORS (enables CORS)")
	return cmd
}

// runServe serves until ctx is done, then shuts down gracefully. In-flight
// predictions that outlive the shutdown timeout are canceled.
func runServe(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	httpapi.SetLogger(log)
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetPredictTimeout(time.Duration(cfg.PredictTimeout))
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders)
	docs.SwaggerInfo.Version = version

	svc, err := newService(cfg, log, httpapi.MetricsPublisher{})
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error().Err(err).Msg("close artifact")
		}
	}()
	if !cfg.LazyLoad {
		if err := svc.Warmup(ctx); err != nil {
			return fmt.Errorf("load artifact from %s: %w", cfg.ModelDir, err)
		}
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		st := svc.Status()
		log.Info().Str("addr", cfg.Addr).Str("model_dir", cfg.ModelDir).
			Str("backend", st.Backend).Str("state", st.State).Msg("mbtid listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	cancelBase()
	if err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
