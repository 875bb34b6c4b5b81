package repository

import (
	"context"

	"github.com/pellume/provisioner/domain"
)

// IdentityProvider is the narrow contract against the external
// authentication service. Lookups are keyed by normalized email; records are
// keyed by a provider-issued ID and never deleted here.
type IdentityProvider interface {
	// GetByEmail returns domain.ErrIdentityNotFound when no record exists.
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	Create(ctx context.Context, email, password, displayName string) (*domain.Identity, error)
	// Update overwrites only the password and display name of the record.
	Update(ctx context.Context, id, password, displayName string) error
}
