package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneymanager/backend/ledger/model"
	"moneymanager/backend/ledger/repository"
	"moneymanager/backend/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mock for DataStore interface.
type mockDataStore struct {
	insertOneFunc        func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	findFunc             func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	findOneFunc          func(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	findOneAndUpdateFunc func(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	deleteOneFunc        func(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	deleteManyFunc       func(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

func (m *mockDataStore) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if m.insertOneFunc != nil {
		return m.insertOneFunc(ctx, document, opts...)
	}
	return &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}, nil
}

func (m *mockDataStore) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter, opts...)
	}
	return mongo.NewCursorFromDocuments(nil, nil, nil)
}

func (m *mockDataStore) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	if m.findOneFunc != nil {
		return m.findOneFunc(ctx, filter, opts...)
	}
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func (m *mockDataStore) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	if m.findOneAndUpdateFunc != nil {
		return m.findOneAndUpdateFunc(ctx, filter, update, opts...)
	}
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func (m *mockDataStore) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	if m.deleteOneFunc != nil {
		return m.deleteOneFunc(ctx, filter, opts...)
	}
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockDataStore) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	if m.deleteManyFunc != nil {
		return m.deleteManyFunc(ctx, filter, opts...)
	}
	return &mongo.DeleteResult{}, nil
}

// Mock for CollectionProvider interface.
type mockCollectionProvider struct {
	store storage.DataStore
}

func (m *mockCollectionProvider) Collection(name string) storage.DataStore {
	return m.store
}

func newRepo(store storage.DataStore) *storage.MongoRepository {
	return storage.NewMongoRepository(&mockCollectionProvider{store: store})
}

func sampleTransaction() model.Transaction {
	return model.Transaction{
		Type:        model.TypeExpense,
		Amount:      250,
		Category:    "Food",
		Description: "Lunch",
		Date:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Division:    model.DivisionPersonal,
		Account:     model.AccountCash,
		CreatedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestInsert_AssignsID(t *testing.T) {
	oid := primitive.NewObjectID()
	store := &mockDataStore{
		insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			tx, ok := document.(model.Transaction)
			require.True(t, ok)
			assert.Equal(t, "Food", tx.Category)
			return &mongo.InsertOneResult{InsertedID: oid}, nil
		},
	}

	created, err := newRepo(store).Insert(context.Background(), sampleTransaction())
	require.NoError(t, err)
	assert.Equal(t, oid, created.ID)
}

func TestInsert_WrapsStoreFailure(t *testing.T) {
	store := &mockDataStore{
		insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			return nil, errors.New("connection lost")
		},
	}

	_, err := newRepo(store).Insert(context.Background(), sampleTransaction())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStore)
}

func TestInsertTransferPair_Success(t *testing.T) {
	inserts := 0
	store := &mockDataStore{
		insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			inserts++
			return &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}, nil
		},
	}

	expense := sampleTransaction()
	expense.TransferID = "token"
	income := expense
	income.Type = model.TypeIncome
	income.Account = model.AccountBank

	legs, err := newRepo(store).InsertTransferPair(context.Background(), expense, income)
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, 2, inserts)
	assert.Equal(t, model.TypeExpense, legs[0].Type)
	assert.Equal(t, model.TypeIncome, legs[1].Type)
}

func TestInsertTransferPair_SecondWriteFailsCompensates(t *testing.T) {
	firstID := primitive.NewObjectID()
	inserts := 0
	var deletedFilter interface{}

	store := &mockDataStore{
		insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			inserts++
			if inserts == 1 {
				return &mongo.InsertOneResult{InsertedID: firstID}, nil
			}
			return nil, errors.New("second write failed")
		},
		deleteOneFunc: func(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
			deletedFilter = filter
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		},
	}

	expense := sampleTransaction()
	expense.TransferID = "token"
	income := expense
	income.Type = model.TypeIncome

	_, err := newRepo(store).InsertTransferPair(context.Background(), expense, income)
	require.Error(t, err)

	var partial *model.PartialTransferWriteError
	require.True(t, errors.As(err, &partial))
	assert.True(t, partial.Cleaned)
	assert.Equal(t, "token", partial.TransferID)

	require.NotNil(t, deletedFilter, "the first leg must be compensated")
	assert.Equal(t, bson.M{"_id": firstID}, deletedFilter)
}

func TestInsertTransferPair_CompensationFailureIsOrphaned(t *testing.T) {
	inserts := 0
	store := &mockDataStore{
		insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			inserts++
			if inserts == 1 {
				return &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}, nil
			}
			return nil, errors.New("second write failed")
		},
		deleteOneFunc: func(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
			return nil, errors.New("delete failed too")
		},
	}

	expense := sampleTransaction()
	expense.TransferID = "token"

	_, err := newRepo(store).InsertTransferPair(context.Background(), expense, expense)
	require.Error(t, err)

	var partial *model.PartialTransferWriteError
	require.True(t, errors.As(err, &partial))
	assert.False(t, partial.Cleaned)
}

func TestFind_BuildsConjunctiveQueryAndSort(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	var gotFilter interface{}
	var gotOpts []*options.FindOptions
	store := &mockDataStore{
		findFunc: func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
			gotFilter = filter
			gotOpts = opts
			return mongo.NewCursorFromDocuments([]interface{}{sampleTransaction()}, nil, nil)
		},
	}

	records, err := newRepo(store).Find(context.Background(), repository.ListFilter{
		StartDate: &start,
		EndDate:   &end,
		Category:  "Food",
		Division:  model.DivisionPersonal,
		Type:      model.TypeExpense,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, bson.M{
		"date":     bson.M{"$gte": start, "$lte": end},
		"category": "Food",
		"division": model.DivisionPersonal,
		"type":     model.TypeExpense,
	}, gotFilter)

	require.Len(t, gotOpts, 1)
	assert.Equal(t, bson.D{{Key: "date", Value: -1}}, gotOpts[0].Sort)
}

func TestFind_EmptyFilterMatchesAll(t *testing.T) {
	var gotFilter interface{}
	store := &mockDataStore{
		findFunc: func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
			gotFilter = filter
			return mongo.NewCursorFromDocuments(nil, nil, nil)
		},
	}

	_, err := newRepo(store).Find(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, gotFilter)
}

func TestFindByID_NotFound(t *testing.T) {
	repo := newRepo(&mockDataStore{})

	_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = repo.FindByID(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateByID_SetsOnlyMutableFields(t *testing.T) {
	updated := sampleTransaction()
	updated.ID = primitive.NewObjectID()
	updated.Amount = 300

	var gotUpdate interface{}
	store := &mockDataStore{
		findOneAndUpdateFunc: func(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
			gotUpdate = update
			return mongo.NewSingleResultFromDocument(updated, nil, nil)
		},
	}

	got, err := newRepo(store).UpdateByID(context.Background(), updated.ID.Hex(), repository.Patch{
		Type:        model.TypeExpense,
		Amount:      300,
		Category:    "Food",
		Description: "Dinner",
		Date:        updated.Date,
		Division:    model.DivisionPersonal,
		Account:     model.AccountCash,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, got.Amount)

	set, ok := gotUpdate.(bson.M)["$set"].(bson.M)
	require.True(t, ok)
	for _, immutable := range []string{"_id", "createdAt", "transferId"} {
		_, present := set[immutable]
		assert.False(t, present, "%s must never appear in an update", immutable)
	}
}

func TestUpdateByID_NotFound(t *testing.T) {
	_, err := newRepo(&mockDataStore{}).UpdateByID(context.Background(), primitive.NewObjectID().Hex(), repository.Patch{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteByID_NotFoundWhenNothingDeleted(t *testing.T) {
	store := &mockDataStore{
		deleteOneFunc: func(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
			return &mongo.DeleteResult{DeletedCount: 0}, nil
		},
	}

	err := newRepo(store).DeleteByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteByTransferID_SingleStoreOperation(t *testing.T) {
	var gotFilter interface{}
	store := &mockDataStore{
		deleteManyFunc: func(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
			gotFilter = filter
			return &mongo.DeleteResult{DeletedCount: 2}, nil
		},
	}

	deleted, err := newRepo(store).DeleteByTransferID(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, bson.M{"transferId": "token"}, gotFilter)
}
