package bookingRepo

import (
	"context"
	"time"

	"consultbook/models"
	"consultbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (repo *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("this time slot is no longer available")
		}
		return utils.NewTransientStoreError("error creating booking", err)
	}
	return nil
}

func (repo *MongoBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, utils.NewTransientStoreError("error fetching booking", err)
	}
	return &booking, nil
}

// TransitionStatus performs the compare-and-swap status write. The filter
// matches only when the booking is still in one of the accepted statuses, so
// two racing transitions produce exactly one modified document.
func (repo *MongoBookingRepo) TransitionStatus(ctx context.Context, id primitive.ObjectID, from []string, update StatusUpdate) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": from},
	}
	set := bson.M{
		"status":     update.Status,
		"updated_at": time.Now().UTC(),
	}
	if update.PaymentStatus != "" {
		set["payment_status"] = update.PaymentStatus
	}
	if update.Payment != nil {
		set["payment"] = update.Payment
	}
	if update.CompletedAt != nil {
		set["completed_at"] = update.CompletedAt
	}

	res, err := repo.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, utils.NewTransientStoreError("error updating booking status", err)
	}
	return res.MatchedCount > 0, nil
}
