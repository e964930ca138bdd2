package statsRepo

import (
	"context"

	"consultbook/models"
)

// StatsRepository holds the denormalized per-actor booking counters. Raw
// fields are never written directly by other components: counters are
// created through Init (full recount) and moved through ApplyDelta.
type StatsRepository interface {
	// Find returns the counter document, or nil when the actor has none yet.
	Find(ctx context.Context, actorID, role string) (*models.StatsCounter, error)

	// Init persists a freshly recounted counter unless one already exists.
	Init(ctx context.Context, counter *models.StatsCounter) error

	// ApplyDelta increments the counter buckets. The document must already
	// exist; lazy initialization happens before any delta is applied.
	ApplyDelta(ctx context.Context, actorID, role string, delta models.StatsDelta) error

	EnsureIndexes() error
}
