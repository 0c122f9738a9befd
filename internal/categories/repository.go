package categories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, item Category) error
	FindByID(ctx context.Context, id string) (Category, error)
	FindByIDAndType(ctx context.Context, id, categoryType string) (Category, error)
	FindByNameAndType(ctx context.Context, name, categoryType string) (Category, error)
	ListByType(ctx context.Context, categoryType string) ([]Category, error)
	ListAll(ctx context.Context) ([]Category, error)
	UpdateName(ctx context.Context, id, name string) (Category, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, item Category) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (Category, error) {
	var item Category
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	return item, err
}

func (r *MongoRepository) FindByIDAndType(ctx context.Context, id, categoryType string) (Category, error) {
	var item Category
	err := r.col.FindOne(ctx, bson.M{"_id": id, "type": categoryType}).Decode(&item)
	return item, err
}

func (r *MongoRepository) FindByNameAndType(ctx context.Context, name, categoryType string) (Category, error) {
	var item Category
	err := r.col.FindOne(ctx, bson.M{"name": name, "type": categoryType}).Decode(&item)
	return item, err
}

func (r *MongoRepository) ListByType(ctx context.Context, categoryType string) ([]Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return r.list(ctx, bson.M{"type": categoryType}, opts)
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]Category, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "type", Value: 1},
		{Key: "name", Value: 1},
	})
	return r.list(ctx, bson.M{}, opts)
}

func (r *MongoRepository) list(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Category, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Category, 0)
	for cursor.Next(ctx) {
		var item Category
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

func (r *MongoRepository) UpdateName(ctx context.Context, id, name string) (Category, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Category
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name}}, opts).Decode(&updated)
	if err != nil {
		return Category{}, err
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
