package database

import (
	"context"
	"fmt"
	"time"

	"expo_leads/config"
	"expo_leads/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetInstance creates the pooled MongoDB client described by c.
// The connection is lazy: a failed ping is logged and the client is still returned,
// so requests fail individually until the server is reachable.
func GetInstance(c *config.Configuration) (*mongo.Client, error) {
	if c.MongoDB_ConnectionURI == "" {
		return nil, fmt.Errorf("database connection URL is empty")
	}

	clientOptions := options.Client().ApplyURI(c.MongoDB_ConnectionURI).
		SetMaxPoolSize(50).
		SetMinPoolSize(10).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := Ping(client); err != nil {
		logger.WithModule("database").WithError(err).Error("MongoDB is not reachable yet")
		return client, nil
	}

	logger.WithModule("database").Info("Successfully connected to MongoDB")
	return client, nil
}

// Ping checks connectivity with a 2s timeout
func Ping(client *mongo.Client) error {
	if client == nil {
		return fmt.Errorf("mongo client is not initialized")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx, nil)
}

// CloseInstance closes the MongoDB client connection.
func CloseInstance(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logger.WithModule("database").WithError(err).Error("Failed to disconnect MongoDB client")
		return err
	}
	logger.WithModule("database").Info("Successfully disconnected from MongoDB")
	return nil
}
