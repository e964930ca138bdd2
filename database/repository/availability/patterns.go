package availabilityRepo

import (
	"context"
	"time"

	"consultbook/models"
	"consultbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (repo *MongoAvailabilityRepo) CreatePattern(ctx context.Context, pattern *models.SchedulePattern) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.patternColl.InsertOne(ctx, pattern); err != nil {
		return utils.NewTransientStoreError("error creating schedule pattern", err)
	}
	return nil
}

func (repo *MongoAvailabilityRepo) UpdatePattern(ctx context.Context, pattern *models.SchedulePattern) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": pattern.ID, "expertId": pattern.ExpertID}
	res, err := repo.patternColl.ReplaceOne(ctx, filter, pattern)
	if err != nil {
		return utils.NewTransientStoreError("error updating schedule pattern", err)
	}
	if res.MatchedCount == 0 {
		return utils.NewNotFoundError("schedule pattern not found")
	}
	return nil
}

func (repo *MongoAvailabilityRepo) DeletePattern(ctx context.Context, expertID, patternID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": patternID, "expertId": expertID}
	res, err := repo.patternColl.DeleteOne(ctx, filter)
	if err != nil {
		return utils.NewTransientStoreError("error deleting schedule pattern", err)
	}
	if res.DeletedCount == 0 {
		return utils.NewNotFoundError("schedule pattern not found")
	}
	return nil
}

func (repo *MongoAvailabilityRepo) GetPatternByID(ctx context.Context, patternID string) (*models.SchedulePattern, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pattern models.SchedulePattern
	if err := repo.patternColl.FindOne(ctx, bson.M{"id": patternID}).Decode(&pattern); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, utils.NewTransientStoreError("error fetching schedule pattern", err)
	}
	return &pattern, nil
}

func (repo *MongoAvailabilityRepo) ListPatternsByExpert(ctx context.Context, expertID string) ([]models.SchedulePattern, error) {
	return repo.findPatterns(ctx, bson.M{"expertId": expertID})
}

func (repo *MongoAvailabilityRepo) GetActivePatternsForWeekday(ctx context.Context, expertID string, weekday int) ([]models.SchedulePattern, error) {
	filter := bson.M{
		"expertId":   expertID,
		"isActive":   true,
		"daysOfWeek": weekday,
	}
	return repo.findPatterns(ctx, filter)
}

func (repo *MongoAvailabilityRepo) GetActivePatterns(ctx context.Context, expertID string) ([]models.SchedulePattern, error) {
	return repo.findPatterns(ctx, bson.M{"expertId": expertID, "isActive": true})
}

func (repo *MongoAvailabilityRepo) findPatterns(ctx context.Context, filter bson.M) ([]models.SchedulePattern, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.patternColl.Find(ctx, filter)
	if err != nil {
		return nil, utils.NewTransientStoreError("error fetching schedule patterns", err)
	}
	defer cursor.Close(ctx)

	var patterns []models.SchedulePattern
	if err := cursor.All(ctx, &patterns); err != nil {
		return nil, utils.NewTransientStoreError("error decoding schedule patterns", err)
	}
	return patterns, nil
}
