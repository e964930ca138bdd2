package bookingRepo

import (
	"context"
	"time"

	"consultbook/models"
	"consultbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	minPageSize = 1
	maxPageSize = 50
)

func (repo *MongoBookingRepo) FindConflicting(ctx context.Context, expertID, date, startTime, endTime string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Zero-padded "HH:MM" strings order lexicographically, so the usual
	// interval overlap test works directly in the filter.
	filter := bson.M{
		"expert_id":  expertID,
		"date":       date,
		"status":     bson.M{"$in": []string{models.BookingPending, models.BookingConfirmed}},
		"start_time": bson.M{"$lt": endTime},
		"end_time":   bson.M{"$gt": startTime},
	}
	var booking models.Booking
	if err := repo.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, utils.NewTransientStoreError("error checking for conflicting bookings", err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) GetNonCanceledByExpertAndDate(ctx context.Context, expertID, date string) ([]models.Booking, error) {
	filter := bson.M{
		"expert_id": expertID,
		"date":      date,
		"status":    bson.M{"$ne": models.BookingCanceled},
	}
	return repo.findBookings(ctx, filter)
}

func (repo *MongoBookingRepo) GetNonCanceledInRange(ctx context.Context, expertID, startDate, endDate string) ([]models.Booking, error) {
	filter := bson.M{
		"expert_id": expertID,
		"date":      bson.M{"$gte": startDate, "$lte": endDate},
		"status":    bson.M{"$ne": models.BookingCanceled},
	}
	return repo.findBookings(ctx, filter)
}

func (repo *MongoBookingRepo) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.BookingPending,
		"created_at": bson.M{"$lt": cutoff},
	}
	opts := options.Find().SetLimit(int64(limit))
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, utils.NewTransientStoreError("error fetching stale pending bookings", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, utils.NewTransientStoreError("error decoding stale pending bookings", err)
	}
	return bookings, nil
}

// List pages through an actor's bookings by _id descending. The cursor is
// the last _id the caller saw; NextCursor is nil once the listing is
// exhausted, so no separate count query is needed.
func (repo *MongoBookingRepo) List(ctx context.Context, actorID, role string, filter models.BookingListFilter, cursor string, limit int) (*models.BookingPage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit < minPageSize {
		limit = minPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := bson.M{}
	if role == models.RoleExpert {
		query["expert_id"] = actorID
	} else {
		query["client_id"] = actorID
	}
	switch filter.Bucket {
	case models.BucketUpcoming:
		query["status"] = bson.M{"$in": []string{models.BookingPending, models.BookingConfirmed}}
	case models.BucketCompleted:
		query["status"] = models.BookingCompleted
	case models.BucketCanceled:
		query["status"] = models.BookingCanceled
	}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.Search != "" {
		query["note"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}
	if cursor != "" {
		lastID, err := primitive.ObjectIDFromHex(cursor)
		if err != nil {
			return nil, utils.NewValidationError("malformed pagination cursor")
		}
		query["_id"] = bson.M{"$lt": lastID}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := repo.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, utils.NewTransientStoreError("error listing bookings", err)
	}
	defer cur.Close(ctx)

	var items []models.Booking
	if err := cur.All(ctx, &items); err != nil {
		return nil, utils.NewTransientStoreError("error decoding booking listing", err)
	}

	page := &models.BookingPage{Items: items}
	if len(items) == limit {
		next := items[len(items)-1].ID.Hex()
		page.NextCursor = &next
	}
	return page, nil
}

// CountByActor recounts an actor's bookings into the stats buckets using the
// same bucket rules the incremental deltas follow.
func (repo *MongoBookingRepo) CountByActor(ctx context.Context, actorID, role string) (*models.StatsCounter, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	match := bson.M{"client_id": actorID}
	if role == models.RoleExpert {
		match = bson.M{"expert_id": actorID}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, utils.NewTransientStoreError("error counting bookings", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, utils.NewTransientStoreError("error decoding booking counts", err)
	}

	counter := &models.StatsCounter{ActorID: actorID, Role: role}
	for _, r := range results {
		switch r.Status {
		case models.BookingPending, models.BookingConfirmed:
			counter.Upcoming += r.Count
		case models.BookingCompleted:
			counter.Completed += r.Count
		case models.BookingCanceled:
			counter.Canceled += r.Count
		}
		counter.Total += r.Count
	}
	return counter, nil
}

func (repo *MongoBookingRepo) findBookings(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, utils.NewTransientStoreError("error fetching bookings", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, utils.NewTransientStoreError("error decoding bookings", err)
	}
	return bookings, nil
}
