package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"stagehand/internal/orchestrator"
	"stagehand/pkg/logging"
)

// signalNotifier subscribes ch to termination signals and returns a function
// that unsubscribes it.
type signalNotifier func(ch chan<- os.Signal) (stop func())

func osSignalNotifier(ch chan<- os.Signal) func() {
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return func() { signal.Stop(ch) }
}

// hold blocks until a termination signal arrives or ctx is done, then shuts
// the registry down in reverse load order.
//
// Signal Handling:
//   - SIGINT (Ctrl+C): Triggers graceful shutdown
//   - SIGTERM: Triggers graceful shutdown (common in container environments)
func (a *Application) hold(ctx context.Context, registry *orchestrator.Registry) error {
	logging.Info("CLI", "Services ready. Press Ctrl+C to stop all services and exit.")

	sigChan := make(chan os.Signal, 1)
	stop := a.signalNotifier(sigChan)
	defer stop()

	select {
	case sig := <-sigChan:
		logging.Info("CLI", "Received %s, shutting down services", sig)
	case <-ctx.Done():
		logging.Info("CLI", "Context done, shutting down services")
	}

	notifyStopping()
	if err := a.shutdown(registry); err != nil {
		logging.Error("CLI", err, "Shutdown completed with errors")
		return err
	}
	logging.Info("CLI", "All services stopped")
	return nil
}

// startMetricsServer serves /metrics when metrics.listenAddress is set. The
// returned function stops the server.
func (a *Application) startMetricsServer(ctx context.Context) (func(), error) {
	addr := a.stagehandCfg.Metrics.ListenAddress
	if addr == "" || a.services.Metrics == nil {
		return func() {}, nil
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.services.Metrics.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Metrics", err, "Metrics server stopped")
		}
	}()
	logging.Info("Metrics", "Serving metrics on http://%s/metrics", listener.Addr())

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Metrics", "Metrics server shutdown: %v", err)
		}
	}, nil
}

// notifyReady tells systemd the boot completed. Outside systemd
// NOTIFY_SOCKET is unset and this does nothing.
func notifyReady() {
	sdNotify(daemon.SdNotifyReady)
}

func notifyStopping() {
	sdNotify(daemon.SdNotifyStopping)
}

func sdNotify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.Warn("Systemd", "Failed to notify systemd (%s): %v", state, err)
		return
	}
	if sent {
		logging.Debug("Systemd", "Notified systemd: %s", state)
	}
}
