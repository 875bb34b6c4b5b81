package repository

import "context"

// EmailSender delivers the one transactional message this pipeline sends.
type EmailSender interface {
	SendWelcome(ctx context.Context, to, name, password string) error
}
