package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/shapeguard/internal/adapters/http"
)

// ShutdownTimeout bounds how long in-flight requests may take after cancellation.
const ShutdownTimeout = 5 * time.Second

// Serve runs the HTTP API on addr until ctx is cancelled.
func Serve(ctx context.Context, svc *Services, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ServeListener(ctx, svc, ln)
}

// ServeListener is Serve on an existing listener.
func ServeListener(ctx context.Context, svc *Services, ln net.Listener) error {
	var opts []httpAdapter.Option
	if svc.Metrics != nil {
		opts = append(opts, httpAdapter.WithMetrics(svc.Metrics))
	}

	srv := &http.Server{
		Handler:           httpAdapter.NewHandler(svc.Guard, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		svc.Logger.Info("Starting shapeguard server", "address", ln.Addr().String(), "store", svc.Config.Store.Driver)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		svc.Logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			svc.Logger.Error("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		svc.Logger.Info("Server stopped gracefully")
		return nil
	}
}
