package repository

import "context"

// ProfileStore persists user profile documents keyed by identity ID.
type ProfileStore interface {
	// Upsert merges the given fields into the document, creating it if
	// absent. Fields not named are preserved; the document is never
	// replaced wholesale.
	Upsert(ctx context.Context, id string, fields map[string]any) error
}
