// Package signup holds the gateway-side half of the pipeline: validate the
// request, normalize it into a task and publish it.
package signup

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pellume/provisioner/domain"
)

// Publisher is the narrow port the usecase needs from the queue.
type Publisher interface {
	Publish(ctx context.Context, task domain.Task) error
}

type UseCase struct {
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func New(publisher Publisher, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit validates the raw fields, builds the normalized task and publishes
// it. Acceptance means published, not processed: the worker's outcome is
// never reported back here, and no deduplication is performed across
// repeated submissions.
func (uc *UseCase) Submit(ctx context.Context, email, nome string) (domain.Task, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(nome) == "" {
		return domain.Task{}, domain.ErrMissingFields
	}

	task := domain.NewTask(email, nome, uc.now())
	if err := uc.publisher.Publish(ctx, task); err != nil {
		uc.logger.Error("failed to publish signup task",
			zap.String("email", task.Email), zap.Error(err))
		return domain.Task{}, err
	}

	uc.logger.Info("signup accepted", zap.String("email", task.Email))
	return task, nil
}
