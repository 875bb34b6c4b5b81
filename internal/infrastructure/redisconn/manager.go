package redisconn

import (
	"context"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Manager owns one logical connection to the broker. The gateway and the
// worker each hold their own manager: a connection blocked in SUBSCRIBE
// cannot issue regular commands, so publish and subscribe never share one.
//
// Lifecycle: Connect performs the initial dial and reports the error to the
// caller (the process entry point decides whether that is fatal). Run keeps
// the connection alive afterwards: it pings while ready, drops to
// disconnected on failure and redials on a fixed delay, forever, until its
// context is cancelled. Broker loss after startup never crashes the process.
type Manager struct {
	role         string
	url          string
	retryDelay   time.Duration
	pingInterval time.Duration
	logger       *zap.Logger

	mu     sync.RWMutex
	state  State
	client *redislib.Client
}

// Options configures a Manager.
type Options struct {
	// Role names the connection in logs ("publisher", "subscriber").
	Role         string
	URL          string
	RetryDelay   time.Duration
	PingInterval time.Duration
}

// New creates a manager in the disconnected state. No I/O happens until Connect.
func New(opts Options, logger *zap.Logger) *Manager {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 5 * time.Second
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		role:         opts.Role,
		url:          opts.URL,
		retryDelay:   opts.RetryDelay,
		pingInterval: opts.PingInterval,
		logger:       logger,
		state:        StateDisconnected,
	}
}

// Connect dials the broker and verifies it with a ping. On success the
// manager is ready; on failure it returns to disconnected and the error is
// returned for the caller to judge.
func (m *Manager) Connect(ctx context.Context) error {
	m.setState(StateConnecting)

	opts, err := redislib.ParseURL(m.url)
	if err != nil {
		m.setState(StateDisconnected)
		return err
	}
	client := redislib.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		m.setState(StateDisconnected)
		return err
	}

	m.mu.Lock()
	if m.client != nil {
		_ = m.client.Close()
	}
	m.client = client
	m.mu.Unlock()

	m.setState(StateReady)
	return nil
}

// Run supervises the connection until ctx is cancelled: periodic pings while
// ready, timed redials while disconnected. Redial attempts are unbounded.
func (m *Manager) Run(ctx context.Context) {
	for {
		if m.IsReady() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(m.pingInterval):
			}
			if err := m.ping(ctx); err != nil {
				m.logger.Warn("broker connection lost",
					zap.String("role", m.role), zap.Error(err))
				m.setState(StateDisconnected)
			}
			continue
		}

		if err := m.Connect(ctx); err != nil {
			m.logger.Warn("broker reconnect failed",
				zap.String("role", m.role),
				zap.Duration("retry_in", m.retryDelay),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(m.retryDelay):
			}
		}
	}
}

// IsReady reports whether the connection is usable right now.
func (m *Manager) IsReady() bool {
	return m.State() == StateReady
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Client returns the underlying redis client, or nil before the first
// successful Connect.
func (m *Manager) Client() *redislib.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Close releases the connection. The manager is not reusable afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()

	m.setState(StateDisconnected)
	if client == nil {
		return nil
	}
	return client.Close()
}

func (m *Manager) ping(ctx context.Context) error {
	client := m.Client()
	if client == nil {
		return redislib.ErrClosed
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return client.Ping(pingCtx).Err()
}

func (m *Manager) setState(next State) {
	m.mu.Lock()
	prev := m.state
	m.state = next
	m.mu.Unlock()

	if prev != next {
		m.logger.Info("connection state changed",
			zap.String("role", m.role),
			zap.String("from", prev.String()),
			zap.String("to", next.String()))
	}
}
