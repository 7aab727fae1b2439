package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	MongoTimeout    = 20 * time.Second
	CollectionSlots = "storage_slots"
)

type slotDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoSlot keeps one document per slot. ReplaceOne with upsert swaps the
// whole document, which is atomic for a single document.
type MongoSlot struct {
	Collection *mongo.Collection
}

func NewMongoSlot(db *mongo.Database) *MongoSlot {
	return &MongoSlot{Collection: db.Collection(CollectionSlots)}
}

func ConnectMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), MongoTimeout)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}
	return client, nil
}

func (m *MongoSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc slotDocument
	err := m.Collection.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc.Value, true, nil
}

func (m *MongoSlot) Set(ctx context.Context, key string, value []byte) error {
	doc := slotDocument{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := m.Collection.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: key}},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}
