package queue

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/pellume/provisioner/domain"
	"github.com/pellume/provisioner/internal/infrastructure/redisconn"
)

// readyPoll is how often the subscriber re-checks the connection manager
// while waiting for the broker to come back.
const readyPoll = 500 * time.Millisecond

// HandleFunc processes one task. Handlers own their failure policy; the
// subscriber never inspects the outcome.
type HandleFunc func(ctx context.Context, task domain.Task)

// Subscriber holds the worker-side subscription and dispatches every inbound
// message to its handler.
type Subscriber struct {
	mgr     *redisconn.Manager
	channel string
	handle  HandleFunc
	logger  *zap.Logger
}

// NewSubscriber creates a subscriber bound to a connection manager and channel.
func NewSubscriber(mgr *redisconn.Manager, channel string, handle HandleFunc, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{
		mgr:     mgr,
		channel: channel,
		handle:  handle,
		logger:  logger,
	}
}

// Run consumes the channel until ctx is cancelled. Whenever the subscription
// drops it waits for the connection manager to recover and subscribes again;
// anything published in between is gone.
func (s *Subscriber) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if !s.mgr.IsReady() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(readyPoll):
			}
			continue
		}
		s.consume(ctx)
	}
}

func (s *Subscriber) consume(ctx context.Context) {
	client := s.mgr.Client()
	if client == nil {
		return
	}

	pubsub := client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		s.logger.Warn("subscribe failed", zap.String("channel", s.channel), zap.Error(err))
		return
	}
	s.logger.Info("subscribed", zap.String("channel", s.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				s.logger.Warn("subscription closed", zap.String("channel", s.channel))
				return
			}
			s.dispatch(msg.Payload)
		}
	}
}

// dispatch parses the payload and hands it to the handler on its own
// goroutine. Malformed payloads are logged and dropped; there is no
// dead-letter channel. Handlers run concurrently and unbounded: receipt of
// the next message never waits on the previous handler, and a dispatched
// handler runs to completion even through worker shutdown of the
// subscription loop.
func (s *Subscriber) dispatch(payload string) {
	var task domain.Task
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		s.logger.Error("queue message dropped",
			zap.String("channel", s.channel),
			zap.String("code", string(domain.ErrCodeParse)),
			zap.String("payload", payload),
			zap.Error(domain.WrapError(domain.ErrCodeParse, "malformed queue message", err)))
		return
	}

	go s.handle(context.Background(), task)
}
