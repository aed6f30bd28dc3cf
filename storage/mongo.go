package storage

import (
	"context"
	"fmt"

	"moneymanager/backend/appcontext"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ---- Abstractions for Testability ----

// DataStore defines the interface for database operations.
type DataStore interface {
	InsertOne(
		ctx context.Context,
		document interface{},
		opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(
		ctx context.Context,
		filter interface{},
		opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(
		ctx context.Context,
		filter interface{},
		opts ...*options.FindOneOptions) *mongo.SingleResult
	FindOneAndUpdate(
		ctx context.Context,
		filter interface{},
		update interface{},
		opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	DeleteOne(
		ctx context.Context,
		filter interface{},
		opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(
		ctx context.Context,
		filter interface{},
		opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// CollectionProvider defines the interface for obtaining a collection.
type CollectionProvider interface {
	Collection(name string) DataStore
}

// MongoCollection adapts *mongo.Collection to DataStore.
type MongoCollection struct {
	*mongo.Collection
}

// InsertOne inserts a single document.
func (c *MongoCollection) InsertOne(
	ctx context.Context,
	document interface{},
	opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	result, err := c.Collection.InsertOne(ctx, document, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to perform InsertOne: %w", err)
	}

	return result, nil
}

// Find runs a filtered query and returns its cursor.
func (c *MongoCollection) Find(
	ctx context.Context,
	filter interface{},
	opts ...*options.FindOptions) (*mongo.Cursor, error) {
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to perform Find: %w", err)
	}

	return cursor, nil
}

// FindOne returns the single document matching the filter.
func (c *MongoCollection) FindOne(
	ctx context.Context,
	filter interface{},
	opts ...*options.FindOneOptions) *mongo.SingleResult {
	return c.Collection.FindOne(ctx, filter, opts...)
}

// FindOneAndUpdate applies the update and returns the resulting document.
func (c *MongoCollection) FindOneAndUpdate(
	ctx context.Context,
	filter interface{},
	update interface{},
	opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	return c.Collection.FindOneAndUpdate(ctx, filter, update, opts...)
}

// DeleteOne removes a single document.
func (c *MongoCollection) DeleteOne(
	ctx context.Context,
	filter interface{},
	opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	result, err := c.Collection.DeleteOne(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to perform DeleteOne: %w", err)
	}

	return result, nil
}

// DeleteMany removes every document matching the filter.
func (c *MongoCollection) DeleteMany(
	ctx context.Context,
	filter interface{},
	opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	result, err := c.Collection.DeleteMany(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to perform DeleteMany: %w", err)
	}

	return result, nil
}

// MongoProvider adapts a MongoClient to CollectionProvider.
type MongoProvider struct {
	client MongoClient
	dbName string
}

// NewMongoProvider creates a new MongoProvider over the named database.
func NewMongoProvider(client MongoClient, dbName string) *MongoProvider {
	return &MongoProvider{client: client, dbName: dbName}
}

// Collection returns a DataStore for the given collection name.
func (p *MongoProvider) Collection(name string) DataStore {
	return &MongoCollection{p.client.Database(p.dbName).Collection(name)}
}

// ConnectToMongoDB establishes a connection to MongoDB.
func ConnectToMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Attempting to connect to MongoDB", "uri", uri)

	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.InfoContext(ctx, "Successfully established connection to MongoDB")
	return client, nil
}
