package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Counters hands out auto-numbers of the form {Prefix}-{YY}-{NNNN}. Each
// prefix/year pair has its own document in the counters collection and the
// increment is a single FindOneAndUpdate with $inc, so concurrent creators
// serialize on the database and can never observe a duplicate. Numbers are
// never reused, even when the entity they were issued to is later closed.
type Counters struct {
	collection *mongo.Collection
}

// NumberSource is the slice of Counters the entity services depend on.
type NumberSource interface {
	NextNumber(ctx context.Context, prefix string, now time.Time) (string, error)
}

func NewCounters(mongodb *MongodbDB) *Counters {
	return &Counters{collection: mongodb.DB.Collection("counters")}
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int    `bson:"seq"`
}

// counterKey names the sequence document for prefix in the year of now.
// Sequences restart at 1 each year because the key changes.
func counterKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%02d", prefix, now.Year()%100)
}

// Next atomically increments and returns the sequence for prefix in the
// year of now.
func (c *Counters) Next(ctx context.Context, prefix string, now time.Time) (int, error) {
	key := counterKey(prefix, now)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := c.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("counter %s: %w", key, err)
	}
	return doc.Seq, nil
}

// NextNumber issues the next formatted auto-number for prefix.
func (c *Counters) NextNumber(ctx context.Context, prefix string, now time.Time) (string, error) {
	seq, err := c.Next(ctx, prefix, now)
	if err != nil {
		return "", err
	}
	return FormatNumber(prefix, now, seq), nil
}

// FormatNumber renders the external number format, e.g. Vendor-26-0001.
func FormatNumber(prefix string, now time.Time, seq int) string {
	return fmt.Sprintf("%s-%02d-%04d", prefix, now.Year()%100, seq)
}
