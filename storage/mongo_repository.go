package storage

import (
	"context"
	"errors"
	"fmt"

	"moneymanager/backend/appcontext"
	"moneymanager/backend/ledger/model"
	"moneymanager/backend/ledger/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransactionsCollection is the collection holding all ledger entries.
const TransactionsCollection = "transactions"

// MongoRepository implements the ledger repository.Repository interface for MongoDB.
type MongoRepository struct {
	provider CollectionProvider
}

// NewMongoRepository creates a new MongoRepository.
func NewMongoRepository(provider CollectionProvider) *MongoRepository {
	return &MongoRepository{
		provider: provider,
	}
}

// Insert persists one record and returns it with its store-assigned id.
func (r *MongoRepository) Insert(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	collection := r.provider.Collection(TransactionsCollection)

	result, err := collection.InsertOne(ctx, tx)
	if err != nil {
		return model.Transaction{}, &model.StoreError{Op: "insert transaction", Cause: err}
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tx.ID = oid
	}
	return tx, nil
}

// InsertTransferPair writes both legs of a transfer, expense first. When the
// second write fails after the first succeeded, one compensating delete of
// the first leg is attempted and the outcome rides in the returned
// *model.PartialTransferWriteError.
func (r *MongoRepository) InsertTransferPair(ctx context.Context, expense, income model.Transaction) ([]model.Transaction, error) {
	logger := appcontext.LoggerFromContext(ctx)

	persistedExpense, err := r.Insert(ctx, expense)
	if err != nil {
		return nil, fmt.Errorf("writing transfer expense leg: %w", err)
	}

	persistedIncome, err := r.Insert(ctx, income)
	if err != nil {
		logger.ErrorContext(ctx, "transfer income leg failed, compensating",
			"transferId", expense.TransferID, "error", err)

		cleaned := true
		if delErr := r.DeleteByID(ctx, persistedExpense.ID.Hex()); delErr != nil {
			cleaned = false
			logger.ErrorContext(ctx, "compensating delete failed, orphaned leg remains",
				"transferId", expense.TransferID, "id", persistedExpense.ID.Hex(), "error", delErr)
		}

		return nil, &model.PartialTransferWriteError{
			TransferID: expense.TransferID,
			Cleaned:    cleaned,
			Cause:      err,
		}
	}

	return []model.Transaction{persistedExpense, persistedIncome}, nil
}

// Find returns the records matching filter, sorted by date descending.
func (r *MongoRepository) Find(ctx context.Context, filter repository.ListFilter) ([]model.Transaction, error) {
	collection := r.provider.Collection(TransactionsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := collection.Find(ctx, buildQuery(filter), opts)
	if err != nil {
		return nil, &model.StoreError{Op: "find transactions", Cause: err}
	}

	var records []model.Transaction
	if err := cursor.All(ctx, &records); err != nil {
		return nil, &model.StoreError{Op: "decode transactions", Cause: err}
	}
	return records, nil
}

// FindByID returns the record with the given id.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (model.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Transaction{}, model.ErrNotFound
	}

	collection := r.provider.Collection(TransactionsCollection)

	var tx model.Transaction
	err = collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&tx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Transaction{}, model.ErrNotFound
	}
	if err != nil {
		return model.Transaction{}, &model.StoreError{Op: "find transaction by id", Cause: err}
	}
	return tx, nil
}

// UpdateByID replaces the mutable fields of the record and returns the
// updated document. Identity fields (_id, createdAt, transferId) are not in
// the $set and therefore never change.
func (r *MongoRepository) UpdateByID(ctx context.Context, id string, patch repository.Patch) (model.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Transaction{}, model.ErrNotFound
	}

	collection := r.provider.Collection(TransactionsCollection)

	update := bson.M{"$set": bson.M{
		"type":        patch.Type,
		"amount":      patch.Amount,
		"category":    patch.Category,
		"description": patch.Description,
		"date":        patch.Date,
		"division":    patch.Division,
		"account":     patch.Account,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tx model.Transaction
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&tx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Transaction{}, model.ErrNotFound
	}
	if err != nil {
		return model.Transaction{}, &model.StoreError{Op: "update transaction", Cause: err}
	}
	return tx, nil
}

// DeleteByID removes exactly one record.
func (r *MongoRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrNotFound
	}

	collection := r.provider.Collection(TransactionsCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return &model.StoreError{Op: "delete transaction", Cause: err}
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteByTransferID removes every record sharing the transfer token in one
// store-level operation, so a concurrent delete of one leg cannot leave the
// other behind.
func (r *MongoRepository) DeleteByTransferID(ctx context.Context, transferID string) (int64, error) {
	collection := r.provider.Collection(TransactionsCollection)

	result, err := collection.DeleteMany(ctx, bson.M{"transferId": transferID})
	if err != nil {
		return 0, &model.StoreError{Op: "delete transfer pair", Cause: err}
	}
	return result.DeletedCount, nil
}

// buildQuery translates the optional list criteria into a Mongo predicate.
// Omitted criteria impose no constraint; set criteria compose with AND.
func buildQuery(filter repository.ListFilter) bson.M {
	query := bson.M{}

	if filter.StartDate != nil || filter.EndDate != nil {
		dateRange := bson.M{}
		if filter.StartDate != nil {
			dateRange["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			dateRange["$lte"] = *filter.EndDate
		}
		query["date"] = dateRange
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Division != "" {
		query["division"] = filter.Division
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	return query
}

// EnsureIndexes creates the indexes the repository relies on: transferId for
// the cascade delete lookup and date for the list sort.
func EnsureIndexes(ctx context.Context, client MongoClient, dbName string) error {
	collection := client.Database(dbName).Collection(TransactionsCollection)

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "transferId", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction indexes: %w", err)
	}
	return nil
}
