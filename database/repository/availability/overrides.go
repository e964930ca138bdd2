package availabilityRepo

import (
	"context"
	"time"

	"consultbook/models"
	"consultbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (repo *MongoAvailabilityRepo) CreateOverride(ctx context.Context, override *models.ScheduleOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.overrideColl.InsertOne(ctx, override); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("an override already exists for this date")
		}
		return utils.NewTransientStoreError("error creating schedule override", err)
	}
	return nil
}

func (repo *MongoAvailabilityRepo) UpdateOverride(ctx context.Context, override *models.ScheduleOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"expertId": override.ExpertID, "date": override.Date}
	update := bson.M{"$set": bson.M{
		"type":      override.Type,
		"timeSlots": override.TimeSlots,
		"updatedAt": override.UpdatedAt,
	}}
	res, err := repo.overrideColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return utils.NewTransientStoreError("error updating schedule override", err)
	}
	if res.MatchedCount == 0 {
		return utils.NewNotFoundError("schedule override not found")
	}
	return nil
}

func (repo *MongoAvailabilityRepo) DeleteOverride(ctx context.Context, expertID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.overrideColl.DeleteOne(ctx, bson.M{"expertId": expertID, "date": date})
	if err != nil {
		return utils.NewTransientStoreError("error deleting schedule override", err)
	}
	if res.DeletedCount == 0 {
		return utils.NewNotFoundError("schedule override not found")
	}
	return nil
}

func (repo *MongoAvailabilityRepo) GetOverride(ctx context.Context, expertID, date string) (*models.ScheduleOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var override models.ScheduleOverride
	err := repo.overrideColl.FindOne(ctx, bson.M{"expertId": expertID, "date": date}).Decode(&override)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, utils.NewTransientStoreError("error fetching schedule override", err)
	}
	return &override, nil
}

func (repo *MongoAvailabilityRepo) GetOverridesInRange(ctx context.Context, expertID, startDate, endDate string) ([]models.ScheduleOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"expertId": expertID,
		"date":     bson.M{"$gte": startDate, "$lte": endDate},
	}
	cursor, err := repo.overrideColl.Find(ctx, filter)
	if err != nil {
		return nil, utils.NewTransientStoreError("error fetching schedule overrides", err)
	}
	defer cursor.Close(ctx)

	var overrides []models.ScheduleOverride
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, utils.NewTransientStoreError("error decoding schedule overrides", err)
	}
	return overrides, nil
}
