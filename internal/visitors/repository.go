package visitors

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Get(ctx context.Context) (Counter, error)
	IncrementExistingBucket(ctx context.Context, dayKey string, now time.Time) (bool, error)
	IncrementNewBucket(ctx context.Context, dayKey string, now time.Time) error
	Reset(ctx context.Context, now time.Time) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Get(ctx context.Context) (Counter, error) {
	var item Counter
	err := r.col.FindOne(ctx, bson.M{"_id": counterID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return Counter{ID: counterID, DailyVisits: []DailyVisit{}}, nil
	}
	if err != nil {
		return Counter{}, err
	}
	return item, nil
}

// IncrementExistingBucket bumps today's bucket in place. It reports false
// when the document or the bucket does not exist yet.
func (r *MongoRepository) IncrementExistingBucket(ctx context.Context, dayKey string, now time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": counterID, "dailyVisits.date": dayKey},
		bson.M{
			"$inc": bson.M{"totalVisitors": 1, "dailyVisits.$.count": 1},
			"$set": bson.M{"lastVisit": now},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// IncrementNewBucket starts today's bucket, creating the counter document on
// first use and trimming the history to the newest 30 days.
func (r *MongoRepository) IncrementNewBucket(ctx context.Context, dayKey string, now time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": counterID},
		bson.M{
			"$inc": bson.M{"totalVisitors": 1},
			"$set": bson.M{"lastVisit": now},
			"$push": bson.M{"dailyVisits": bson.M{
				"$each":  bson.A{DailyVisit{Date: dayKey, Count: 1}},
				"$slice": -maxDailyBuckets,
			}},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MongoRepository) Reset(ctx context.Context, now time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": counterID},
		bson.M{"$set": bson.M{
			"totalVisitors": int64(0),
			"lastVisit":     now,
			"dailyVisits":   []DailyVisit{},
		}},
		options.Update().SetUpsert(true),
	)
	return err
}
