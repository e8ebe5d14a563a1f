package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Config   *DatabaseConfig
}

type DatabaseConfig struct {
	URI            string
	Database       string
	MaxPoolSize    int
	MinPoolSize    int
	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
}

func NewMongoDB(config *DatabaseConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetMaxPoolSize(uint64(config.MaxPoolSize)).
		SetMinPoolSize(uint64(config.MinPoolSize)).
		SetSocketTimeout(config.SocketTimeout).
		SetConnectTimeout(config.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		return nil, err
	}

	database := client.Database(config.Database)

	return &MongoDB{
		Client:   client,
		Database: database,
		Config:   config,
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

func (m *MongoDB) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes the ride engine queries depend on:
// grid-covered route lookup for search, departure ordering, and unique
// user ids on the driver and rider stats collections.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	rideIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "route.grids_covered", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "schedule.departure_time", Value: 1}}},
		{Keys: bson.D{{Key: "driver.user_id", Value: 1}}},
	}
	if _, err := m.Collection("rides").Indexes().CreateMany(ctx, rideIndexes); err != nil {
		return err
	}

	unique := options.Index().SetUnique(true)
	if _, err := m.Collection("drivers").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}
	if _, err := m.Collection("riders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	instanceIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "parent_ride_id", Value: 1}}},
		{Keys: bson.D{{Key: "ride_date", Value: 1}}},
	}
	if _, err := m.Collection("ride_instances").Indexes().CreateMany(ctx, instanceIndexes); err != nil {
		return err
	}

	return nil
}
