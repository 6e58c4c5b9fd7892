package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections bundles every mongo collection this service touches so
// main can hand them to the store constructors in one place.
type Collections struct {
	Client    *mongo.Client
	Attendees *mongo.Collection
	Actors    *mongo.Collection
	Scans     *mongo.Collection
	Meetings  *mongo.Collection
	Uploads   *mongo.Collection
	Users     *mongo.Collection
}

// Connect dials MongoDB and resolves the collection handles.
func Connect(ctx context.Context, uri, dbName string) (*Collections, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, err
	}

	database := client.Database(dbName)
	return &Collections{
		Client:    client,
		Attendees: database.Collection("attendees"),
		Actors:    database.Collection("actors"),
		Scans:     database.Collection("scans"),
		Meetings:  database.Collection("meetings"),
		Uploads:   database.Collection("uploads"),
		Users:     database.Collection("users"),
	}, nil
}
