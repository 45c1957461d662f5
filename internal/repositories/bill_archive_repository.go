package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BillArchiveRepository stores the raw upstream payload for each ingested
// bill. The shapes vary by source (ProPublica vs OpenStates), so the archive
// lives in MongoDB while the normalized rows live in PostgreSQL.
type BillArchiveRepository interface {
	Archive(ctx context.Context, source, externalID string, payload map[string]interface{}) error
	GetRaw(ctx context.Context, source, externalID string) (map[string]interface{}, error)
}

// MongoBillArchiveRepository implements BillArchiveRepository over MongoDB
type MongoBillArchiveRepository struct {
	collection *mongo.Collection
}

// NewMongoBillArchiveRepository creates a new MongoBillArchiveRepository
func NewMongoBillArchiveRepository(db *mongo.Database) *MongoBillArchiveRepository {
	return &MongoBillArchiveRepository{collection: db.Collection("bill_archive")}
}

// Archive upserts the raw document for a (source, external id) pair
func (r *MongoBillArchiveRepository) Archive(ctx context.Context, source, externalID string, payload map[string]interface{}) error {
	filter := bson.M{"source": source, "external_id": externalID}
	update := bson.M{
		"$set": bson.M{
			"payload":    payload,
			"fetched_at": time.Now(),
		},
		"$setOnInsert": bson.M{
			"source":      source,
			"external_id": externalID,
			"created_at":  time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetRaw retrieves the archived payload for a (source, external id) pair
func (r *MongoBillArchiveRepository) GetRaw(ctx context.Context, source, externalID string) (map[string]interface{}, error) {
	var doc struct {
		Payload map[string]interface{} `bson:"payload"`
	}
	err := r.collection.FindOne(ctx, bson.M{"source": source, "external_id": externalID}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc.Payload, nil
}
