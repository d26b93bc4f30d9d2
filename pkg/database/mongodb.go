package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB wraps the client and database of the coupon content mirror.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// ConnectMongo dials MongoDB, verifies it with a ping and ensures the coupon indexes.
func ConnectMongo(ctx context.Context, uri, dbName string, timeout time.Duration) (*MongoDB, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m := &MongoDB{Client: client, Database: client.Database(dbName)}
	if err := m.CreateIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return m, nil
}

// CreateIndexes ensures the unique index on coupons.code.
func (m *MongoDB) CreateIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("coupon_code_unique"),
	}
	if _, err := m.Database.Collection("coupons").Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("failed to create coupon code index: %w", err)
	}
	return nil
}

// Disconnect closes the MongoDB connection.
func (m *MongoDB) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
