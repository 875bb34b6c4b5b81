package domain

import (
	"strings"
	"time"
)

// Task is the unit of work carried from the gateway to the worker over the
// queue channel. The wire format is the exact JSON of this struct; once
// published a task is never mutated.
type Task struct {
	Email     string `json:"email"`
	Nome      string `json:"nome"`
	Timestamp string `json:"timestamp"`
}

// NewTask builds a task from raw request fields: email is trimmed and
// lower-cased (it is the natural key for identity lookup), the display name
// is trimmed, and the timestamp records creation time. The timestamp is
// informational only and never used for ordering or dedup.
func NewTask(email, nome string, now time.Time) Task {
	return Task{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Nome:      strings.TrimSpace(nome),
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// Identity is the slice of an identity-provider record this pipeline reads
// and writes. Records are keyed by a provider-issued ID and are never
// deleted here.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
}
