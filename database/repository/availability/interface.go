package availabilityRepo

import (
	"context"

	"consultbook/models"
)

// AvailabilityRepository holds schedule patterns and per-date overrides for
// experts and exposes the lookups the schedule resolver needs.
type AvailabilityRepository interface {
	// Pattern operations.
	CreatePattern(ctx context.Context, pattern *models.SchedulePattern) error
	UpdatePattern(ctx context.Context, pattern *models.SchedulePattern) error
	DeletePattern(ctx context.Context, expertID, patternID string) error
	GetPatternByID(ctx context.Context, patternID string) (*models.SchedulePattern, error)
	ListPatternsByExpert(ctx context.Context, expertID string) ([]models.SchedulePattern, error)
	GetActivePatternsForWeekday(ctx context.Context, expertID string, weekday int) ([]models.SchedulePattern, error)
	GetActivePatterns(ctx context.Context, expertID string) ([]models.SchedulePattern, error)

	// Override operations. At most one override exists per (expert, date).
	CreateOverride(ctx context.Context, override *models.ScheduleOverride) error
	UpdateOverride(ctx context.Context, override *models.ScheduleOverride) error
	DeleteOverride(ctx context.Context, expertID, date string) error
	GetOverride(ctx context.Context, expertID, date string) (*models.ScheduleOverride, error)
	GetOverridesInRange(ctx context.Context, expertID, startDate, endDate string) ([]models.ScheduleOverride, error)

	EnsureIndexes() error
}
