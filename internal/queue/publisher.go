// Package queue implements the pub/sub channel between the gateway and the
// worker.
//
// The channel is plain Redis pub/sub, not a durable queue: a message reaches
// only the subscribers connected at the instant of publish. If the worker's
// subscription is down when a task is published, that task is permanently
// lost. There is no backlog, no acknowledgment and no replay. Delivery is
// at most once.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/pellume/provisioner/domain"
	"github.com/pellume/provisioner/internal/infrastructure/redisconn"
)

// Publisher writes tasks to the queue channel over its own connection.
type Publisher struct {
	mgr     *redisconn.Manager
	channel string
	logger  *zap.Logger
}

// NewPublisher creates a publisher bound to a connection manager and channel.
func NewPublisher(mgr *redisconn.Manager, channel string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		mgr:     mgr,
		channel: channel,
		logger:  logger,
	}
}

// Publish serializes the task and publishes it. It fails fast with
// ErrBrokerNotReady when the connection is down and never retries: the
// caller already answered its HTTP client by the time a retry could matter.
func (p *Publisher) Publish(ctx context.Context, task domain.Task) error {
	if !p.mgr.IsReady() {
		return domain.ErrBrokerNotReady
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPublishFailed, err)
	}

	if err := p.mgr.Client().Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPublishFailed, err)
	}

	p.logger.Info("task published",
		zap.String("channel", p.channel),
		zap.String("email", task.Email))
	return nil
}
