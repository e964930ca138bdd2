package expertRepo

import (
	"context"
	"time"

	"consultbook/database"
	"consultbook/models"
	"consultbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ExpertRepository exposes the expert lookups the booking core needs.
type ExpertRepository interface {
	GetByID(ctx context.Context, expertID string) (*models.Expert, error)
	GetClientByID(ctx context.Context, clientID string) (*models.Client, error)
}

// MongoExpertRepo implements ExpertRepository using MongoDB.
type MongoExpertRepo struct {
	expertColl *mongo.Collection
	clientColl *mongo.Collection
}

// NewMongoExpertRepo constructs a new instance of MongoExpertRepo.
func NewMongoExpertRepo() ExpertRepository {
	db := database.DB()
	return &MongoExpertRepo{
		expertColl: db.Collection("experts"),
		clientColl: db.Collection("clients"),
	}
}

func (repo *MongoExpertRepo) GetByID(ctx context.Context, expertID string) (*models.Expert, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var expert models.Expert
	if err := repo.expertColl.FindOne(ctx, bson.M{"id": expertID}).Decode(&expert); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, utils.NewTransientStoreError("error fetching expert", err)
	}
	return &expert, nil
}

func (repo *MongoExpertRepo) GetClientByID(ctx context.Context, clientID string) (*models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var client models.Client
	if err := repo.clientColl.FindOne(ctx, bson.M{"id": clientID}).Decode(&client); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, utils.NewTransientStoreError("error fetching client", err)
	}
	return &client, nil
}
