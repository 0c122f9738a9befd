package awards

import (
	"context"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/images"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, item Award) error
	FindByID(ctx context.Context, id string) (Award, error)
	List(ctx context.Context, query bson.M, sort bson.D, page, limit int64) ([]Award, error)
	Count(ctx context.Context, query bson.M) (int64, error)
	Update(ctx context.Context, id string, set bson.M) (Award, error)
	ReplaceImages(ctx context.Context, id string, prevLen int, imgs []images.Image, now time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExistsByCategory(ctx context.Context, categoryID string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, item Award) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (Award, error) {
	var item Award
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	return item, err
}

func (r *MongoRepository) List(ctx context.Context, query bson.M, sort bson.D, page, limit int64) ([]Award, error) {
	opts := options.Find().
		SetSort(sort).
		SetLimit(limit).
		SetSkip((page - 1) * limit)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Award, 0)
	for cursor.Next(ctx) {
		var item Award
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

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Award, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Award
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Award{}, err
	}
	return updated, nil
}

// ReplaceImages uses the same length guard as the photo repository: the write
// only lands while the stored list still has the length the caller read.
func (r *MongoRepository) ReplaceImages(ctx context.Context, id string, prevLen int, imgs []images.Image, now time.Time) (bool, error) {
	filter := bson.M{
		"_id":   id,
		"$expr": bson.M{"$eq": bson.A{bson.M{"$size": "$images"}, prevLen}},
	}
	update := bson.M{"$set": bson.M{"images": imgs, "updatedAt": now}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ExistsByCategory(ctx context.Context, categoryID string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"category": categoryID}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
