package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"consultbook/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	patternColl  *mongo.Collection
	overrideColl *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new instance of MongoAvailabilityRepo.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.DB()
	return &MongoAvailabilityRepo{
		patternColl:  db.Collection("schedule_patterns"),
		overrideColl: db.Collection("schedule_overrides"),
	}
}

// EnsureIndexes creates the indexes backing pattern and override lookups.
// The unique (expertId, date) index on overrides is what enforces the
// one-override-per-date rule at the storage level.
func (repo *MongoAvailabilityRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	patternIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_pattern_id"),
		},
		{
			Keys:    bson.D{{Key: "expertId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "daysOfWeek", Value: 1}},
			Options: options.Index().SetName("expert_active_weekday_idx"),
		},
	}
	if _, err := repo.patternColl.Indexes().CreateMany(ctx, patternIndexes); err != nil {
		return fmt.Errorf("failed to create pattern indexes: %w", err)
	}

	overrideIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_override_id"),
		},
		{
			Keys:    bson.D{{Key: "expertId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_expert_date"),
		},
	}
	if _, err := repo.overrideColl.Indexes().CreateMany(ctx, overrideIndexes); err != nil {
		return fmt.Errorf("failed to create override indexes: %w", err)
	}
	return nil
}
