package testimonials

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, item Testimonial) error
	FindByID(ctx context.Context, id string) (Testimonial, error)
	List(ctx context.Context, query bson.M, sort bson.D, page, limit int64) ([]Testimonial, error)
	Count(ctx context.Context, query bson.M) (int64, error)
	Update(ctx context.Context, id string, set bson.M) (Testimonial, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExistsDuplicate(ctx context.Context, name, quote, excludeID string) (bool, error)
	RatingStats(ctx context.Context) (avg, max, min float64, err error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, item Testimonial) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (Testimonial, error) {
	var item Testimonial
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	return item, err
}

func (r *MongoRepository) List(ctx context.Context, query bson.M, sort bson.D, page, limit int64) ([]Testimonial, error) {
	opts := options.Find().
		SetSort(sort).
		SetLimit(limit).
		SetSkip((page - 1) * limit)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Testimonial, 0)
	for cursor.Next(ctx) {
		var item Testimonial
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, query bson.M) (int64, error) {
	return r.col.CountDocuments(ctx, query)
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Testimonial, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Testimonial
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Testimonial{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ExistsDuplicate(ctx context.Context, name, quote, excludeID string) (bool, error) {
	query := bson.M{"name": name, "quote": quote}
	if excludeID != "" {
		query["_id"] = bson.M{"$ne": excludeID}
	}
	err := r.col.FindOne(ctx, query, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MongoRepository) RatingStats(ctx context.Context) (float64, float64, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$rate"},
			"max": bson.M{"$max": "$rate"},
			"min": bson.M{"$min": "$rate"},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, 0, err
	}
	defer cursor.Close(ctx)

	var row struct {
		Avg float64 `bson:"avg"`
		Max float64 `bson:"max"`
		Min float64 `bson:"min"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return 0, 0, 0, err
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, 0, 0, err
	}
	return row.Avg, row.Max, row.Min, nil
}

func (r *MongoRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}
