// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/qolzam/bookstore/internal/database/interfaces"
	"github.com/qolzam/bookstore/internal/pkg/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepository implements the Repository interface for MongoDB
type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
}

// MongoQueryResult implements QueryResult for MongoDB
type MongoQueryResult struct {
	cursor *mongo.Cursor
	ctx    context.Context
	err    error
}

// MongoSingleResult implements SingleResult for MongoDB
type MongoSingleResult struct {
	result   *mongo.SingleResult
	err      error
	noResult bool
}

// NewMongoRepository creates a new MongoDB repository
func NewMongoRepository(ctx context.Context, config *interfaces.MongoDBConfig, databaseName string) (*MongoRepository, error) {
	uri := buildConnectionURI(config)

	clientOptions := options.Client().ApplyURI(uri)

	if config.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(uint64(config.MaxPoolSize))
	}

	if config.ConnectTimeout > 0 {
		clientOptions.SetConnectTimeout(time.Duration(config.ConnectTimeout) * time.Second)
	}

	if config.ServerSelectionTimeout > 0 {
		clientOptions.SetServerSelectionTimeout(time.Duration(config.ServerSelectionTimeout) * time.Second)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, interfaces.WrapRepositoryError(interfaces.CodeConnectionFailed, "failed to connect to MongoDB", err)
	}

	// Test the connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, interfaces.WrapRepositoryError(interfaces.CodeConnectionFailed, "failed to ping MongoDB", err)
	}

	return NewMongoRepositoryWithClient(client, databaseName), nil
}

// NewMongoRepositoryWithClient wraps an already connected client
func NewMongoRepositoryWithClient(client *mongo.Client, databaseName string) *MongoRepository {
	return &MongoRepository{
		client:   client,
		database: client.Database(databaseName),
	}
}

// buildConnectionURI builds MongoDB connection URI from config
func buildConnectionURI(config *interfaces.MongoDBConfig) string {
	if config.URI != "" {
		return config.URI
	}

	uri := "mongodb://"

	if config.Username != "" && config.Password != "" {
		uri += fmt.Sprintf("%s@", url.UserPassword(config.Username, config.Password).String())
	}

	uri += fmt.Sprintf("%s:%d", config.Host, config.Port)

	query := url.Values{}
	if config.AuthDatabase != "" {
		query.Set("authSource", config.AuthDatabase)
	}
	if config.ReplicaSet != "" {
		query.Set("replicaSet", config.ReplicaSet)
	}
	if config.SSL {
		query.Set("ssl", "true")
	}

	if len(query) > 0 {
		uri += "/?" + query.Encode()
	}

	return uri
}

// classify maps driver errors onto repository error codes
func classify(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return interfaces.WrapRepositoryError(interfaces.CodeNotFound, op, err)
	case mongo.IsDuplicateKeyError(err):
		return interfaces.WrapRepositoryError(interfaces.CodeDuplicateKey, op, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return interfaces.WrapRepositoryError(interfaces.CodeConnectionFailed, op, err)
	default:
		return interfaces.WrapRepositoryError(interfaces.CodeQueryFailed, op, err)
	}
}

// SaveMany stores multiple documents
func (r *MongoRepository) SaveMany(ctx context.Context, collectionName string, data []interface{}) <-chan interfaces.RepositoryResult {
	result := make(chan interfaces.RepositoryResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		insertOptions := options.InsertMany().SetOrdered(false)
		insertResult, err := collection.InsertMany(ctx, data, insertOptions)
		if err != nil {
			log.Debug("MongoDB SaveMany error: %s", err.Error())
			result <- interfaces.RepositoryResult{Error: classify("insert many failed", err)}
			return
		}

		result <- interfaces.RepositoryResult{Result: insertResult.InsertedIDs}
	}()

	return result
}

// Find retrieves multiple documents
func (r *MongoRepository) Find(ctx context.Context, collectionName string, filter interface{}, opts *interfaces.FindOptions) <-chan interfaces.QueryResult {
	result := make(chan interfaces.QueryResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		findOptions := options.Find()

		if opts != nil {
			if opts.Limit != nil {
				findOptions.SetLimit(*opts.Limit)
			}
			if opts.Skip != nil {
				findOptions.SetSkip(*opts.Skip)
			}
			if opts.Sort != nil {
				findOptions.SetSort(opts.Sort)
			}
			if opts.Select != nil {
				findOptions.SetProjection(opts.Select)
			}
		}

		cursor, err := collection.Find(ctx, filter, findOptions)
		if err != nil {
			log.Debug("MongoDB Find error: %s", err.Error())
			result <- &MongoQueryResult{err: classify("find failed", err)}
			return
		}

		result <- &MongoQueryResult{cursor: cursor, ctx: ctx}
	}()

	return result
}

// FindOne retrieves a single document
func (r *MongoRepository) FindOne(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.SingleResult {
	result := make(chan interfaces.SingleResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		singleResult := collection.FindOne(ctx, filter)
		err := singleResult.Err()

		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				result <- &MongoSingleResult{result: singleResult, noResult: true}
				return
			}
			log.Debug("MongoDB FindOne error: %s", err.Error())
			result <- &MongoSingleResult{err: classify("find one failed", err)}
			return
		}

		result <- &MongoSingleResult{result: singleResult}
	}()

	return result
}

// Update updates the first document matching the filter
func (r *MongoRepository) Update(ctx context.Context, collectionName string, filter interface{}, data interface{}) <-chan interfaces.UpdateResult {
	result := make(chan interfaces.UpdateResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		updateResult, err := collection.UpdateOne(ctx, filter, data)
		if err != nil {
			log.Debug("MongoDB Update error: %s", err.Error())
			result <- interfaces.UpdateResult{Error: classify("update failed", err)}
			return
		}

		result <- interfaces.UpdateResult{
			MatchedCount:  updateResult.MatchedCount,
			ModifiedCount: updateResult.ModifiedCount,
		}
	}()

	return result
}

// Delete deletes the first document matching the filter
func (r *MongoRepository) Delete(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.DeleteResult {
	result := make(chan interfaces.DeleteResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		deleteResult, err := collection.DeleteOne(ctx, filter)
		if err != nil {
			log.Debug("MongoDB Delete error: %s", err.Error())
			result <- interfaces.DeleteResult{Error: classify("delete failed", err)}
			return
		}

		result <- interfaces.DeleteResult{DeletedCount: deleteResult.DeletedCount}
	}()

	return result
}

// DeleteMany deletes every document matching the filter
func (r *MongoRepository) DeleteMany(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.DeleteResult {
	result := make(chan interfaces.DeleteResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		deleteResult, err := collection.DeleteMany(ctx, filter)
		if err != nil {
			log.Debug("MongoDB DeleteMany error: %s", err.Error())
			result <- interfaces.DeleteResult{Error: classify("delete many failed", err)}
			return
		}

		result <- interfaces.DeleteResult{DeletedCount: deleteResult.DeletedCount}
	}()

	return result
}

// Count counts documents matching the filter
func (r *MongoRepository) Count(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.CountResult {
	result := make(chan interfaces.CountResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		count, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			log.Debug("MongoDB Count error: %s", err.Error())
			result <- interfaces.CountResult{Error: classify("count failed", err)}
			return
		}

		result <- interfaces.CountResult{Count: count}
	}()

	return result
}

// Aggregate runs an aggregation pipeline
func (r *MongoRepository) Aggregate(ctx context.Context, collectionName string, pipeline interface{}) <-chan interfaces.QueryResult {
	result := make(chan interfaces.QueryResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		cursor, err := collection.Aggregate(ctx, pipeline)
		if err != nil {
			log.Debug("MongoDB Aggregate error: %s", err.Error())
			result <- &MongoQueryResult{err: classify("aggregate failed", err)}
			return
		}

		result <- &MongoQueryResult{cursor: cursor, ctx: ctx}
	}()

	return result
}

// CreateIndex creates a single index over the given ordered keys and returns its name.
// Creating an index that already exists with the same keys and options is a no-op on the server.
func (r *MongoRepository) CreateIndex(ctx context.Context, collectionName string, keys interface{}) <-chan interfaces.IndexCreateResult {
	result := make(chan interfaces.IndexCreateResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		name, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys})
		if err != nil {
			log.Debug("MongoDB CreateIndex error: %s", err.Error())
			result <- interfaces.IndexCreateResult{Error: classify("create index failed", err)}
			return
		}

		result <- interfaces.IndexCreateResult{Name: name}
	}()

	return result
}

// ListIndexes lists the indexes of a collection
func (r *MongoRepository) ListIndexes(ctx context.Context, collectionName string) <-chan interfaces.IndexResult {
	result := make(chan interfaces.IndexResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		cursor, err := collection.Indexes().List(ctx)
		if err != nil {
			log.Debug("MongoDB ListIndexes error: %s", err.Error())
			result <- interfaces.IndexResult{Error: classify("list indexes failed", err)}
			return
		}
		defer cursor.Close(ctx)

		var indexes []interfaces.IndexInfo
		for cursor.Next(ctx) {
			var index struct {
				Name   string `bson:"name"`
				Key    bson.M `bson:"key"`
				Unique bool   `bson:"unique"`
			}
			if err := cursor.Decode(&index); err != nil {
				result <- interfaces.IndexResult{Error: classify("decode index failed", err)}
				return
			}

			indexes = append(indexes, interfaces.IndexInfo{
				Name:   index.Name,
				Keys:   index.Key,
				Unique: index.Unique,
			})
		}

		if err := cursor.Err(); err != nil {
			result <- interfaces.IndexResult{Error: classify("list indexes failed", err)}
			return
		}

		result <- interfaces.IndexResult{Indexes: indexes}
	}()

	return result
}

// Explain runs the explain command for a find with the given filter
func (r *MongoRepository) Explain(ctx context.Context, collectionName string, filter interface{}, verbosity string) <-chan interfaces.ExplainResult {
	result := make(chan interfaces.ExplainResult)

	go func() {
		defer close(result)

		if verbosity == "" {
			verbosity = interfaces.VerbosityExecutionStats
		}

		command := bson.D{
			{Key: "explain", Value: bson.D{
				{Key: "find", Value: collectionName},
				{Key: "filter", Value: filter},
			}},
			{Key: "verbosity", Value: verbosity},
		}

		var explained struct {
			ExecutionStats bson.D `bson:"executionStats"`
		}
		if err := r.database.RunCommand(ctx, command).Decode(&explained); err != nil {
			log.Debug("MongoDB Explain error: %s", err.Error())
			result <- interfaces.ExplainResult{Error: classify("explain failed", err)}
			return
		}

		explainResult, err := summarizeExecutionStats(explained.ExecutionStats)
		if err != nil {
			result <- interfaces.ExplainResult{Error: classify("decode explain failed", err)}
			return
		}

		result <- explainResult
	}()

	return result
}

// summarizeExecutionStats extracts the headline counters and renders the section as indented JSON
func summarizeExecutionStats(stats bson.D) (interfaces.ExplainResult, error) {
	if stats == nil {
		stats = bson.D{}
	}

	raw, err := bson.Marshal(stats)
	if err != nil {
		return interfaces.ExplainResult{}, err
	}

	var summary interfaces.ExecutionStats
	if err := bson.Unmarshal(raw, &summary); err != nil {
		return interfaces.ExplainResult{}, err
	}

	document, err := bson.MarshalExtJSONIndent(stats, false, false, "", "  ")
	if err != nil {
		return interfaces.ExplainResult{}, err
	}

	return interfaces.ExplainResult{Stats: summary, Document: string(document)}, nil
}

// Close disconnects the client
func (r *MongoRepository) Close() error {
	return r.client.Disconnect(context.Background())
}

// Client returns the underlying MongoDB client
func (r *MongoRepository) Client() *mongo.Client {
	return r.client
}

// MongoQueryResult implementation
func (r *MongoQueryResult) Next() bool {
	if r.cursor == nil {
		return false
	}
	return r.cursor.Next(r.ctx)
}

func (r *MongoQueryResult) Decode(v interface{}) error {
	if r.cursor == nil {
		return fmt.Errorf("cursor is nil")
	}
	return r.cursor.Decode(v)
}

// All drains the cursor into v, which must be a pointer to a slice, and closes it
func (r *MongoQueryResult) All(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	if r.cursor == nil {
		return fmt.Errorf("cursor is nil")
	}
	if err := r.cursor.All(r.ctx, v); err != nil {
		return classify("read cursor failed", err)
	}
	return nil
}

func (r *MongoQueryResult) Close() {
	if r.cursor != nil {
		r.cursor.Close(r.ctx)
	}
}

func (r *MongoQueryResult) Error() error {
	return r.err
}

// MongoSingleResult implementation
func (r *MongoSingleResult) Decode(v interface{}) error {
	if r.noResult {
		return interfaces.ErrNoDocuments
	}
	if r.result == nil {
		return fmt.Errorf("result is nil")
	}
	if err := r.result.Decode(v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.noResult = true
			return interfaces.ErrNoDocuments
		}
		return err
	}
	return nil
}

func (r *MongoSingleResult) Error() error {
	if r.noResult {
		return interfaces.ErrNoDocuments
	}
	return r.err
}

func (r *MongoSingleResult) NoResult() bool {
	return r.noResult
}
