package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/logging"
	httpAdapter "github.com/aretw0/cascade/pkg/adapters/http"
	"github.com/aretw0/cascade/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ServeOptions contains the configuration for the Serve command.
type ServeOptions struct {
	Addr            string
	ScenarioPath    string
	LogLevel        string
	MaxTransitions  int
	ShutdownTimeout time.Duration
	Stdout          io.Writer
}

// Serve exposes one engine over HTTP until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	logger, err := logging.FromFlag(opts.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	handler, err := newServeHandler(opts, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(opts.Stdout, "Starting cascade server on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", opts.ShutdownTimeout, "err", err)
			return srv.Close()
		}
		printSystemMessage(opts.Stdout, "Server stopped gracefully")
		return nil
	}
}

func newServeHandler(opts ServeOptions, logger *slog.Logger) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	eng, err := LoadEngine(opts.ScenarioPath,
		cascade.WithLogger(logger),
		cascade.WithMaxTransitions(opts.MaxTransitions),
		cascade.WithLifecycleHooks(observability.Combine(metrics.Hooks(), observability.LogHooks(logger))),
	)
	if err != nil {
		return nil, err
	}

	return httpAdapter.NewHandler(eng, httpAdapter.WithLogger(logger), httpAdapter.WithMetrics(reg)), nil
}
