package schedule

import (
	"context"
	"time"

	availabilityRepo "consultbook/database/repository/availability"
	"consultbook/models"
	"consultbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService manages an expert's recurring patterns and per-date
// overrides. Patterns and overrides are owned exclusively by the expert who
// created them.
type AvailabilityService interface {
	CreatePattern(ctx context.Context, expertID string, input models.PatternInput) (*models.SchedulePattern, error)
	UpdatePattern(ctx context.Context, expertID, patternID string, input models.PatternInput) (*models.SchedulePattern, error)
	DeletePattern(ctx context.Context, expertID, patternID string) error
	ListPatterns(ctx context.Context, expertID string) ([]models.SchedulePattern, error)

	CreateOverride(ctx context.Context, expertID string, input models.OverrideInput) (*models.ScheduleOverride, error)
	UpdateOverride(ctx context.Context, expertID string, input models.OverrideInput) (*models.ScheduleOverride, error)
	DeleteOverride(ctx context.Context, expertID, date string) error
}

// DefaultAvailabilityService implements AvailabilityService.
type DefaultAvailabilityService struct {
	Repo  availabilityRepo.AvailabilityRepository
	Cache *Cache // optional
}

func (svc *DefaultAvailabilityService) CreatePattern(ctx context.Context, expertID string, input models.PatternInput) (*models.SchedulePattern, error) {
	if err := validatePatternInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pattern := &models.SchedulePattern{
		ID:         uuid.New().String(),
		ExpertID:   expertID,
		DaysOfWeek: input.DaysOfWeek,
		TimeSlots:  input.TimeSlots,
		ValidFrom:  input.ValidFrom,
		ValidTo:    input.ValidTo,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.IsActive != nil {
		pattern.IsActive = *input.IsActive
	}
	if err := svc.Repo.CreatePattern(ctx, pattern); err != nil {
		return nil, err
	}
	svc.invalidateExpert(ctx, expertID)
	utils.GetLogger().Info("schedule pattern created",
		zap.String("expertID", expertID), zap.String("patternID", pattern.ID))
	return pattern, nil
}

func (svc *DefaultAvailabilityService) UpdatePattern(ctx context.Context, expertID, patternID string, input models.PatternInput) (*models.SchedulePattern, error) {
	if err := validatePatternInput(input); err != nil {
		return nil, err
	}

	existing, err := svc.Repo.GetPatternByID(ctx, patternID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, utils.NewNotFoundError("schedule pattern not found")
	}
	if existing.ExpertID != expertID {
		return nil, utils.NewNotOwnerError("schedule pattern belongs to another expert")
	}

	existing.DaysOfWeek = input.DaysOfWeek
	existing.TimeSlots = input.TimeSlots
	existing.ValidFrom = input.ValidFrom
	existing.ValidTo = input.ValidTo
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := svc.Repo.UpdatePattern(ctx, existing); err != nil {
		return nil, err
	}
	svc.invalidateExpert(ctx, expertID)
	return existing, nil
}

func (svc *DefaultAvailabilityService) DeletePattern(ctx context.Context, expertID, patternID string) error {
	existing, err := svc.Repo.GetPatternByID(ctx, patternID)
	if err != nil {
		return err
	}
	if existing == nil {
		return utils.NewNotFoundError("schedule pattern not found")
	}
	if existing.ExpertID != expertID {
		return utils.NewNotOwnerError("schedule pattern belongs to another expert")
	}
	if err := svc.Repo.DeletePattern(ctx, expertID, patternID); err != nil {
		return err
	}
	svc.invalidateExpert(ctx, expertID)
	return nil
}

func (svc *DefaultAvailabilityService) ListPatterns(ctx context.Context, expertID string) ([]models.SchedulePattern, error) {
	return svc.Repo.ListPatternsByExpert(ctx, expertID)
}

func (svc *DefaultAvailabilityService) CreateOverride(ctx context.Context, expertID string, input models.OverrideInput) (*models.ScheduleOverride, error) {
	if err := validateOverrideInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	override := &models.ScheduleOverride{
		ID:        uuid.New().String(),
		ExpertID:  expertID,
		Date:      input.Date,
		Type:      input.Type,
		TimeSlots: input.TimeSlots,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// The unique (expertId, date) index turns a duplicate creation into a
	// ConflictError inside the repository.
	if err := svc.Repo.CreateOverride(ctx, override); err != nil {
		return nil, err
	}
	svc.invalidateDay(ctx, expertID, input.Date)
	utils.GetLogger().Info("schedule override created",
		zap.String("expertID", expertID), zap.String("date", input.Date), zap.String("type", input.Type))
	return override, nil
}

func (svc *DefaultAvailabilityService) UpdateOverride(ctx context.Context, expertID string, input models.OverrideInput) (*models.ScheduleOverride, error) {
	if err := validateOverrideInput(input); err != nil {
		return nil, err
	}

	existing, err := svc.Repo.GetOverride(ctx, expertID, input.Date)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, utils.NewNotFoundError("schedule override not found")
	}

	existing.Type = input.Type
	existing.TimeSlots = input.TimeSlots
	existing.UpdatedAt = time.Now().UTC()
	if err := svc.Repo.UpdateOverride(ctx, existing); err != nil {
		return nil, err
	}
	svc.invalidateDay(ctx, expertID, input.Date)
	return existing, nil
}

func (svc *DefaultAvailabilityService) DeleteOverride(ctx context.Context, expertID, date string) error {
	if err := svc.Repo.DeleteOverride(ctx, expertID, date); err != nil {
		return err
	}
	svc.invalidateDay(ctx, expertID, date)
	return nil
}

func (svc *DefaultAvailabilityService) invalidateDay(ctx context.Context, expertID, date string) {
	if svc.Cache != nil {
		svc.Cache.InvalidateDay(ctx, expertID, date)
	}
}

func (svc *DefaultAvailabilityService) invalidateExpert(ctx context.Context, expertID string) {
	if svc.Cache != nil {
		svc.Cache.InvalidateExpert(ctx, expertID)
	}
}

func validatePatternInput(input models.PatternInput) error {
	if len(input.DaysOfWeek) == 0 {
		return utils.NewValidationError("pattern needs at least one day of week")
	}
	for _, d := range input.DaysOfWeek {
		if d < 0 || d > 6 {
			return utils.NewValidationError("day of week must be between 0 and 6")
		}
	}
	if err := ValidatePatternSlots(input.TimeSlots); err != nil {
		return utils.NewValidationError(err.Error())
	}
	for _, d := range []string{input.ValidFrom, input.ValidTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return utils.NewValidationError("validity bounds must be YYYY-MM-DD")
		}
	}
	if input.ValidFrom != "" && input.ValidTo != "" && input.ValidFrom > input.ValidTo {
		return utils.NewValidationError("validFrom must not be after validTo")
	}
	return nil
}

func validateOverrideInput(input models.OverrideInput) error {
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return utils.NewValidationError("override date must be YYYY-MM-DD")
	}
	switch input.Type {
	case models.OverrideTypeUnavailable:
		if len(input.TimeSlots) > 0 {
			return utils.NewValidationError("unavailable overrides carry no time slots")
		}
	case models.OverrideTypeSlots:
		if len(input.TimeSlots) == 0 {
			return utils.NewValidationError("override needs at least one time slot")
		}
		for _, s := range input.TimeSlots {
			if err := ValidateSlotRange(s.Start, s.End); err != nil {
				return utils.NewValidationError(err.Error())
			}
		}
	default:
		return utils.NewValidationError("override type must be override or unavailable")
	}
	return nil
}
