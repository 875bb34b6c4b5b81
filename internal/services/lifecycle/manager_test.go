package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShutdown_ReverseOrder(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"redis", "http_server"} {
		name := name
		m.Register(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, m.Shutdown(context.Background()))
	require.Equal(t, []string{"http_server", "redis"}, order)
}

func TestShutdown_FailureDoesNotStopRemainingHooks(t *testing.T) {
	m := New(time.Second, nil)

	var stopped []string
	m.Register("redis", func(ctx context.Context) error {
		stopped = append(stopped, "redis")
		return nil
	})
	m.Register("subscriber", func(ctx context.Context) error {
		return errors.New("still draining")
	})
	m.Register("http_server", func(ctx context.Context) error {
		return errors.New("listener gone")
	})

	err := m.Shutdown(context.Background())
	require.Error(t, err)
	// Each failure is attributed to its hook.
	require.Contains(t, err.Error(), "subscriber: still draining")
	require.Contains(t, err.Error(), "http_server: listener gone")
	// The healthy hook below the failing ones still ran.
	require.Equal(t, []string{"redis"}, stopped)
}

func TestShutdown_AppliesDeadline(t *testing.T) {
	m := New(50*time.Millisecond, nil)

	m.Register("stuck", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	err := m.Shutdown(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}

func TestShutdown_NoHooks(t *testing.T) {
	m := New(time.Second, nil)
	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(nil))
}

func TestRegister_IgnoresNil(t *testing.T) {
	m := New(time.Second, nil)
	m.Register("noop", nil)
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestListen_NilCancel(t *testing.T) {
	m := New(time.Second, nil)
	// Must not install a signal handler or panic.
	m.Listen(nil)
}
