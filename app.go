package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type App struct {
	cfg      Config
	sentinel *SentinelClient
	mongo    *mongo.Client
	db       *mongo.Database
	users    *mongo.Collection
	parcels  *mongo.Collection
	analyses *mongo.Collection
}

func newApp(ctx context.Context, cfg Config) (*App, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)

	app := &App{
		cfg:      cfg,
		sentinel: newSentinelClient(cfg),
		mongo:    client,
		db:       db,
		users:    db.Collection("users"),
		parcels:  db.Collection("parcels"),
		analyses: db.Collection("analyses"),
	}
	// Indexes
	if _, err := app.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, err
	}
	if _, err := app.parcels.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}
	if _, err := app.analyses.Indexes().CreateOne(ctx, analysisDateIndex()); err != nil {
		return nil, err
	}

	return app, nil
}

// analysisDateIndex enforces at most one analysis per (parcel, date);
// repeated saves for the same pair update in place instead of inserting.
func analysisDateIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "parcelId", Value: 1}, {Key: "analysisDate", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

func (a *App) close(ctx context.Context) { _ = a.mongo.Disconnect(ctx) }
