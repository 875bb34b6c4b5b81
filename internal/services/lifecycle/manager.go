package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Hook is a named shutdown callback.
type Hook struct {
	Name string
	Stop func(ctx context.Context) error
}

// Manager coordinates graceful shutdown for a single process. The gateway
// registers its HTTP server and publisher connection, the worker its
// subscriber connection; hooks run in reverse registration order so the
// outermost component stops first.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	hooks []Hook
}

// New creates a lifecycle manager with the desired shutdown timeout.
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Register adds a shutdown hook. Nil callbacks are ignored.
func (m *Manager) Register(name string, stop func(ctx context.Context) error) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, Hook{Name: name, Stop: stop})
}

// Shutdown stops every registered hook in reverse order under one shared
// deadline. A failing hook does not prevent the remaining ones from
// stopping; all failures are joined into the returned error.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	m.mu.Lock()
	hooks := make([]Hook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		start := time.Now()
		if err := h.Stop(ctx); err != nil {
			m.logger.Error("shutdown hook failed",
				zap.String("component", h.Name),
				zap.Duration("took", time.Since(start)),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", h.Name, err))
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", h.Name),
			zap.Duration("took", time.Since(start)))
	}
	return errors.Join(errs...)
}

// Listen invokes cancel on the first SIGTERM/SIGINT. A second signal ends
// the process immediately, so a worker stuck draining in-flight handlers
// can still be stopped from the outside.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()

		sig = <-sigCh
		m.logger.Warn("second signal received, exiting without draining",
			zap.String("signal", sig.String()))
		os.Exit(1)
	}()
}
