package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	namespace  string
}

type slotDocument struct {
	Namespace string    `bson:"namespace"`
	Slot      string    `bson:"slot"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func OpenMongo(ctx context.Context, uri, database, namespace string) (*MongoStorage, error) {
	db, err := ConnectMongoDB(ctx, uri, database)
	if err != nil {
		return nil, err
	}
	s := NewMongoStorage(db, namespace)
	if err := s.CreateIndexes(ctx); err != nil {
		_ = db.Client().Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func NewMongoStorage(db *mongo.Database, namespace string) *MongoStorage {
	return &MongoStorage{
		client:     db.Client(),
		collection: db.Collection("slots"),
		namespace:  namespace,
	}
}

func (m *MongoStorage) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "namespace", Value: 1}, {Key: "slot", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := m.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (m *MongoStorage) Get(ctx context.Context, slot string) ([]byte, error) {
	var doc slotDocument
	err := m.collection.FindOne(ctx, m.filter(slot)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return doc.Value, nil
}

func (m *MongoStorage) Set(ctx context.Context, slot string, value []byte) error {
	update := bson.M{"$set": slotDocument{
		Namespace: m.namespace,
		Slot:      slot,
		Value:     value,
		UpdatedAt: time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, m.filter(slot), update, opts); err != nil {
		return fmt.Errorf("failed to upsert slot: %w", err)
	}
	return nil
}

func (m *MongoStorage) Delete(ctx context.Context, slots ...string) error {
	if len(slots) == 0 {
		return nil
	}
	filter := bson.M{
		"namespace": m.namespace,
		"slot":      bson.M{"$in": slots},
	}
	if _, err := m.collection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete slots: %w", err)
	}
	return nil
}

func (m *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoStorage) filter(slot string) bson.M {
	return bson.M{"namespace": m.namespace, "slot": slot}
}
