package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"consultbook/database"
	"consultbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	return &MongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
}

// EnsureIndexes creates the indexes on the bookings collection. The partial
// unique index over (expert_id, date, start_time, end_time) restricted to
// active statuses is a storage-level backstop for the no-double-booking
// invariant; overlapping-but-not-identical ranges are caught by the conflict
// query inside the creation transaction.
func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expert_id", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("expert_date_status_idx"),
		},
		{
			Keys: bson.D{
				{Key: "expert_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "start_time", Value: 1},
				{Key: "end_time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_active_slot").
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []string{models.BookingPending, models.BookingConfirmed}},
				}),
		},
		{
			Keys:    bson.D{{Key: "client_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("client_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("status_created_idx"),
		},
	}

	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
