package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoGateway struct {
	collection *mongo.Collection
}

func NewMongoGateway(db *mongo.Database) *MongoGateway {
	return &MongoGateway{
		collection: db.Collection("cart_lines"),
	}
}

func (m *MongoGateway) FetchAll(ctx context.Context, ownerID string) ([]Line, error) {
	filter := bson.M{"owner_id": ownerID}
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch cart lines: %v", ErrRemoteUnavailable, err)
	}
	defer cursor.Close(ctx)

	var lines []Line
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("%w: decode cart lines: %v", ErrRemoteUnavailable, err)
	}
	return lines, nil
}

func (m *MongoGateway) UpsertQuantity(ctx context.Context, ownerID, productID string, quantity int) error {
	now := time.Now()

	filter := bson.M{"owner_id": ownerID, "product_id": productID}
	update := bson.M{
		"$set": bson.M{
			"quantity":   quantity,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"line_id":  uuid.NewString(),
			"added_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("%w: upsert quantity: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

func (m *MongoGateway) DeleteLine(ctx context.Context, ownerID, productID string) error {
	filter := bson.M{"owner_id": ownerID, "product_id": productID}

	// Zero deleted rows is fine, the line may already be gone.
	if _, err := m.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("%w: delete line: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

func (m *MongoGateway) DeleteAll(ctx context.Context, ownerID string) error {
	filter := bson.M{"owner_id": ownerID}

	if _, err := m.collection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("%w: delete cart: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

func (m *MongoGateway) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			// One line per product per cart.
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "product_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
