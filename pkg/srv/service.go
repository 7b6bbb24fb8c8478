// Package srv runs long-lived components for the serve command.
package srv

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/quorum/pkg/log"
)

// DefaultShutdownTimeout bounds ShutdownServices.
const DefaultShutdownTimeout = 10 * time.Second

// Service is a component with a lifecycle. Start may block until the
// service stops.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices starts each service in its own goroutine. Start failures
// are delivered on the returned channel, which has room for all of them.
func StartServices(ctx context.Context, services []Service) <-chan error {
	logger := log.FromCtx(ctx)
	errs := make(chan error, len(services))

	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Error().Err(err).Msgf("%T failed to start", service)
				errs <- fmt.Errorf("%T: %w", service, err)
			}
		}(service)
	}
	return errs
}

// ShutdownServices stops services in reverse start order. ctx is usually
// already cancelled, so shutdown runs on a detached context bounded by
// timeout.
func ShutdownServices(ctx context.Context, services []Service, timeout time.Duration) {
	logger := log.FromCtx(ctx)
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}

// Run starts services, waits until ctx is done or a service fails to
// start, then shuts everything down.
func Run(ctx context.Context, services []Service) error {
	errs := StartServices(ctx, services)

	var err error
	select {
	case <-ctx.Done():
	case err = <-errs:
	}

	ShutdownServices(ctx, services, DefaultShutdownTimeout)
	return err
}
