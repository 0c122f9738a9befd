package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Admins       *mongo.Collection
	Categories   *mongo.Collection
	Photos       *mongo.Collection
	Videos       *mongo.Collection
	Blogs        *mongo.Collection
	Awards       *mongo.Collection
	Rescues      *mongo.Collection
	Testimonials *mongo.Collection
	Contacts     *mongo.Collection
	Volunteers   *mongo.Collection
	Visitors     *mongo.Collection
	Impact       *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Admins:       db.Collection("admins"),
		Categories:   db.Collection("categories"),
		Photos:       db.Collection("photos"),
		Videos:       db.Collection("videos"),
		Blogs:        db.Collection("blogposts"),
		Awards:       db.Collection("awardposts"),
		Rescues:      db.Collection("rescueposts"),
		Testimonials: db.Collection("testimonials"),
		Contacts:     db.Collection("contacts"),
		Volunteers:   db.Collection("volunteers"),
		Visitors:     db.Collection("visitors"),
		Impact:       db.Collection("totalimpacts"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Admins.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Categories.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "type", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Photos.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = cols.Videos.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "publicId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "date", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = cols.Blogs.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = cols.Awards.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = cols.Testimonials.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "rate", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = cols.Volunteers.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Contacts.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isRead", Value: 1}}},
	})
	if err != nil {
		return err
	}

	return nil
}
