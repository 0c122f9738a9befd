package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/auth"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/config"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/db"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultCategories gives every gallery type a starting category so the
// admin dashboard is usable right after a fresh deploy.
var defaultCategories = map[string][]string{
	models.CategoryPhoto:  {"Rescue Operations", "Adoption Days", "Shelter Life"},
	models.CategoryVideo:  {"Rescue Stories", "Awareness"},
	models.CategoryBlogs:  {"News", "Care Tips"},
	models.CategoryAward:  {"Recognition"},
	models.CategoryRescue: {"Street Rescues"},
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	name := strings.TrimSpace(os.Getenv("ADMIN_NAME"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Error("ADMIN_EMAIL and ADMIN_PASSWORD are required")
		os.Exit(1)
	}
	if name == "" {
		name = "Admin"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Error("mongo connect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Error("index setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("password hash failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	now := time.Now().In(cfg.Timezone)
	res, err := cols.Admins.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"name":         name,
				"passwordHash": hash,
				"updatedAt":    now,
			},
			"$setOnInsert": bson.M{
				"_id":       primitive.NewObjectID().Hex(),
				"email":     email,
				"createdAt": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Error("admin seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if res.UpsertedCount > 0 {
		log.Info("admin created", slog.String("email", email))
	} else {
		log.Info("admin updated", slog.String("email", email))
	}

	created := 0
	for categoryType, names := range defaultCategories {
		for _, categoryName := range names {
			res, err := cols.Categories.UpdateOne(ctx,
				bson.M{"name": categoryName, "type": categoryType},
				bson.M{"$setOnInsert": bson.M{
					"_id":       primitive.NewObjectID().Hex(),
					"name":      categoryName,
					"type":      categoryType,
					"createdAt": now,
				}},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				log.Error("category seed failed",
					slog.String("type", categoryType),
					slog.String("name", categoryName),
					slog.String("error", err.Error()))
				os.Exit(1)
			}
			if res.UpsertedCount > 0 {
				created++
			}
		}
	}

	log.Info("seed complete", slog.Int("categories_created", created))
}
