package statsRepo

import (
	"context"
	"fmt"
	"time"

	"consultbook/database"
	"consultbook/models"
	"consultbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStatsRepo implements StatsRepository using MongoDB.
type MongoStatsRepo struct {
	coll *mongo.Collection
}

// NewMongoStatsRepo constructs a new instance of MongoStatsRepo.
func NewMongoStatsRepo() StatsRepository {
	return &MongoStatsRepo{
		coll: database.DB().Collection("stats_counters"),
	}
}

func (repo *MongoStatsRepo) Find(ctx context.Context, actorID, role string) (*models.StatsCounter, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var counter models.StatsCounter
	err := repo.coll.FindOne(ctx, bson.M{"actor_id": actorID, "role": role}).Decode(&counter)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, utils.NewTransientStoreError("error fetching stats counter", err)
	}
	return &counter, nil
}

// Init upserts the counter with $setOnInsert so a concurrent initializer
// cannot clobber a counter that already took deltas.
func (repo *MongoStatsRepo) Init(ctx context.Context, counter *models.StatsCounter) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"actor_id": counter.ActorID, "role": counter.Role}
	update := bson.M{
		"$setOnInsert": bson.M{
			"actor_id":   counter.ActorID,
			"role":       counter.Role,
			"upcoming":   counter.Upcoming,
			"completed":  counter.Completed,
			"canceled":   counter.Canceled,
			"total":      counter.Total,
			"updated_at": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return utils.NewTransientStoreError("error initializing stats counter", err)
	}
	return nil
}

func (repo *MongoStatsRepo) ApplyDelta(ctx context.Context, actorID, role string, delta models.StatsDelta) error {
	if delta.IsZero() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"actor_id": actorID, "role": role}
	update := bson.M{
		"$inc": bson.M{
			"upcoming":  delta.Upcoming,
			"completed": delta.Completed,
			"canceled":  delta.Canceled,
			"total":     delta.Total,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return utils.NewTransientStoreError("error applying stats delta", err)
	}
	if res.MatchedCount == 0 {
		return utils.NewTransientStoreError("stats counter missing for delta", fmt.Errorf("actor %s role %s", actorID, role))
	}
	return nil
}

// EnsureIndexes creates the unique (actor_id, role) index keying counters.
func (repo *MongoStatsRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "role", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_actor_role"),
	}
	if _, err := repo.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create stats indexes: %w", err)
	}
	return nil
}
