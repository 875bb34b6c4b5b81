// Package provision holds the worker-side half of the pipeline: the
// per-task provisioning sequence against the external collaborators.
package provision

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pellume/provisioner/domain"
	"github.com/pellume/provisioner/repository"
)

type Service struct {
	identities repository.IdentityProvider
	profiles   repository.ProfileStore
	mailer     repository.EmailSender
	logger     *zap.Logger

	now         func() time.Time
	genPassword func() string
}

func New(identities repository.IdentityProvider, profiles repository.ProfileStore, mailer repository.EmailSender, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		identities:  identities,
		profiles:    profiles,
		mailer:      mailer,
		logger:      logger,
		now:         time.Now,
		genPassword: GeneratePassword,
	}
}

// Handle runs the provisioning sequence for one task. Failures are logged
// and swallowed: the task is not re-queued, nothing is retried and side
// effects already committed are not rolled back. The original HTTP caller
// was answered at publish time, so no outcome escapes this function.
func (s *Service) Handle(ctx context.Context, task domain.Task) {
	s.logger.Info("processing task", zap.String("email", task.Email))

	if err := s.provision(ctx, task); err != nil {
		s.logger.Error("provisioning failed",
			zap.String("email", task.Email), zap.Error(err))
		return
	}

	s.logger.Info("task completed", zap.String("email", task.Email))
}

func (s *Service) provision(ctx context.Context, task domain.Task) error {
	password := s.genPassword()

	identity, err := s.identities.GetByEmail(ctx, task.Email)
	switch {
	case err == nil:
		if err := s.identities.Update(ctx, identity.ID, password, task.Nome); err != nil {
			return domain.WrapError(domain.ErrCodeProvisioning, "identity update failed", err)
		}
		s.logger.Info("existing identity updated",
			zap.String("email", task.Email), zap.String("id", identity.ID))
	case errors.Is(err, domain.ErrIdentityNotFound):
		identity, err = s.identities.Create(ctx, task.Email, password, task.Nome)
		if err != nil {
			return domain.WrapError(domain.ErrCodeProvisioning, "identity creation failed", err)
		}
		s.logger.Info("new identity created",
			zap.String("email", task.Email), zap.String("id", identity.ID))
	default:
		return domain.WrapError(domain.ErrCodeProvisioning, "identity lookup failed", err)
	}

	if err := s.profiles.Upsert(ctx, identity.ID, map[string]any{
		"email":       task.Email,
		"nome":        task.Nome,
		"dataCriacao": s.now().UTC(),
		"ativo":       true,
	}); err != nil {
		return domain.WrapError(domain.ErrCodeProvisioning, "profile upsert failed", err)
	}

	// Identity and profile writes stay committed if the mail fails; there
	// is no rollback.
	if err := s.mailer.SendWelcome(ctx, task.Email, task.Nome, password); err != nil {
		return domain.WrapError(domain.ErrCodeProvisioning, "welcome email failed", err)
	}

	return nil
}
