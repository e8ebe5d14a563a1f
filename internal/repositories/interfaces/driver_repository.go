package interfaces

import (
	"context"
	"time"

	"goride/internal/models"
)

type DriverRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Driver, error)
	EnsureExists(ctx context.Context, userID, name string) error

	// Counter mutations. Increment operations return the post-update
	// document so the trust score is always recomputed from fresh
	// counters, never from a stale in-memory copy.
	IncrementHosted(ctx context.Context, userID string, at time.Time) error
	ApplyCompletion(ctx context.Context, userID string, hours, distanceKM float64) (*models.Driver, error)
	IncrementCancelled(ctx context.Context, userID string) (*models.Driver, error)
	UpdateTrustScore(ctx context.Context, userID string, score int) error
	ResetStats(ctx context.Context, userID string) error
}
