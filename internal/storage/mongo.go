package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection. The initial connect can
	// succeed while the server is unresponsive.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// MongoStore persists collection payloads as one document per collection key,
// for deployments that already run MongoDB instead of a local file.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

type collectionDoc struct {
	Key     string `bson:"_id"`
	Payload []byte `bson:"payload"`
}

// NewMongoStore wraps an established client; documents live in the
// "collections" collection of the named database.
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{
		client: client,
		col:    client.Database(dbName).Collection("collections"),
	}
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc collectionDoc
	err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", key, err)
	}
	return doc.Payload, nil
}

func (s *MongoStore) Put(ctx context.Context, key string, payload []byte) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": key}, collectionDoc{Key: key, Payload: payload}, opts); err != nil {
		return fmt.Errorf("replace %q: %w", key, err)
	}
	return nil
}

// PutAll upserts every payload in one ordered bulk write.
func (s *MongoStore) PutAll(ctx context.Context, payloads map[string][]byte) error {
	models := make([]mongo.WriteModel, 0, len(payloads))
	for key, payload := range payloads {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": key}).
			SetReplacement(collectionDoc{Key: key, Payload: payload}).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return nil
	}
	if _, err := s.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("bulk write: %w", err)
	}
	return nil
}

// Close gracefully disconnects the MongoDB client.
func (s *MongoStore) Close(ctx context.Context) error {
	disconnectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(disconnectCtx)
}
