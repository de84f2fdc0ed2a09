// Package mongostore provides a thin, typed wrapper around a MongoDB
// collection holding one kind of document.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ilfrich/go-basic-utils/logging"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

// Config describes the collection a store is bound to.
type Config struct {
	// URL is the mongodb connection string, e.g. mongodb://localhost:27017.
	URL string

	// Database and Collection select the bound collection.
	Database   string
	Collection string

	// DataModelVersion is stamped into the version field of created
	// documents.
	DataModelVersion int

	// ConnectTimeout bounds the initial connect and ping. Defaults to 5s.
	ConnectTimeout time.Duration

	// Logger receives store events. Defaults to a named library logger.
	Logger *zap.Logger
}

// Store is a typed document store over a single MongoDB collection.
type Store[T any] struct {
	client           *mongo.Client
	collection       *mongo.Collection
	dataModelVersion int
	logger           *zap.Logger
}

// New connects to MongoDB and binds a store to the configured collection.
func New[T any](ctx context.Context, config Config) (*Store[T], error) {
	timeout := config.ConnectTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.New("mongostore")
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(config.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("Connected to mongodb",
		zap.String("database", config.Database),
		zap.String("collection", config.Collection),
	)

	return &Store[T]{
		client:           client,
		collection:       client.Database(config.Database).Collection(config.Collection),
		dataModelVersion: config.DataModelVersion,
		logger:           logger,
	}, nil
}

// Close disconnects the underlying client.
func (s *Store[T]) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Collection exposes the underlying collection for operations the store does
// not wrap.
func (s *Store[T]) Collection() *mongo.Collection {
	return s.collection
}

// Create inserts a document and returns the new hex ID. If the document
// serialises with a version field, the store's data model version is stamped
// into it.
func (s *Store[T]) Create(ctx context.Context, doc any) (string, error) {
	payload, err := toPayload(doc)
	if err != nil {
		return "", err
	}
	if _, ok := payload["version"]; ok {
		payload["version"] = s.dataModelVersion
	}

	result, err := s.collection.InsertOne(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}

	objectID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprintf("%v", result.InsertedID), nil
	}
	return objectID.Hex(), nil
}

// toPayload normalises a document into a bson-compatible map.
func toPayload(doc any) (bson.M, error) {
	switch typed := doc.(type) {
	case bson.M:
		return typed, nil
	case map[string]any:
		return bson.M(typed), nil
	}
	if serialisable, ok := doc.(interface{ ToJSON() map[string]any }); ok {
		return bson.M(serialisable.ToJSON()), nil
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("document is not serialisable: %w", err)
	}
	var payload bson.M
	if err := bson.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("document is not serialisable: %w", err)
	}
	return payload, nil
}

// Query returns all documents matching the filter.
func (s *Store[T]) Query(ctx context.Context, filter bson.M) ([]T, error) {
	cursor, err := s.collection.Find(ctx, normaliseFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []T
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode query results: %w", err)
	}
	return results, nil
}

// QueryOne returns a single document matching the filter, or ErrNotFound.
func (s *Store[T]) QueryOne(ctx context.Context, filter bson.M) (*T, error) {
	var result T
	err := s.collection.FindOne(ctx, normaliseFilter(filter)).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &result, nil
}

// Get returns the document with the given hex ID, or ErrNotFound.
func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	query, err := IDQuery(id)
	if err != nil {
		return nil, err
	}
	return s.QueryOne(ctx, query)
}

// GetAll returns every document in the collection.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	return s.Query(ctx, bson.M{})
}

// UpdateOne applies an update to the first document matching the filter.
// String _id filter values are converted to ObjectIDs and _id is stripped
// from $set payloads.
func (s *Store[T]) UpdateOne(ctx context.Context, filter, update bson.M) (*mongo.UpdateResult, error) {
	result, err := s.collection.UpdateOne(ctx, normaliseFilter(filter), stripSetID(update))
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return result, nil
}

// UpdateMany applies an update to all documents matching the filter.
func (s *Store[T]) UpdateMany(ctx context.Context, filter, update bson.M) (*mongo.UpdateResult, error) {
	result, err := s.collection.UpdateMany(ctx, normaliseFilter(filter), stripSetID(update))
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return result, nil
}

// UpdateFull replaces all fields of the stored document with the fields of
// the provided one, addressed by its _id.
func (s *Store[T]) UpdateFull(ctx context.Context, doc any) (*mongo.UpdateResult, error) {
	payload, err := toPayload(doc)
	if err != nil {
		return nil, err
	}
	rawID, ok := payload["_id"]
	if !ok {
		return nil, errors.New("document has no _id field")
	}
	query, err := IDQuery(idToHex(rawID))
	if err != nil {
		return nil, err
	}
	return s.UpdateOne(ctx, query, FullSetUpdate(payload))
}

// Delete removes the document with the given hex ID.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	query, err := IDQuery(id)
	if err != nil {
		return err
	}
	if _, err := s.collection.DeleteOne(ctx, query); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// DeleteMany removes all documents matching the filter.
func (s *Store[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, normaliseFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}
	return result.DeletedCount, nil
}

func idToHex(raw any) string {
	if objectID, ok := raw.(primitive.ObjectID); ok {
		return objectID.Hex()
	}
	return fmt.Sprintf("%v", raw)
}
