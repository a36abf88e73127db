// Package server runs a booted kernel: HTTP, the optional gRPC health
// endpoint and the background scheduler, until the context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/internal/kernel"
	"github.com/shashiranjanraj/catalogue/pkg/grpc"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Run serves k until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, k *kernel.Kernel) error {
	r, err := k.Router()
	if err != nil {
		return fmt.Errorf("server: routes: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	stopGRPC := func() {}
	if port := config.GRPCPort(); port != "" {
		s, err := grpc.Start(port, k.Ping)
		if err != nil {
			return err
		}
		stopGRPC = func() { grpc.Stop(s) }
	}

	ctx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()

	jobs := k.Scheduler()
	jobs.Start(ctx)
	go k.Limiter.Sweep(ctx)

	errc := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err = <-errc:
		if err != nil {
			err = fmt.Errorf("server: listen: %w", err)
		}
	case <-ctx.Done():
		logger.Info("HTTP server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}

	stopGRPC()
	cancelJobs()
	jobs.Wait()
	return err
}
