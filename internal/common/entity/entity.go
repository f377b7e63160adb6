package entity

import (
	"context"
	"errors"
	"time"

	"sourcevia/internal/common/errs"
	"sourcevia/pkg/lifecycle"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Meta is embedded in every procurement record: identifier, auto-number,
// lifecycle status and ownership. Records are never hard-deleted; terminal
// statuses stand in for deletion.
type Meta struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number    string             `bson:"number" json:"number"`
	Status    lifecycle.Status   `bson:"status" json:"status"`
	CreatedBy string             `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// UpdateStatus applies a status transition with the current status as a
// write precondition. If the record moved under us between read and write
// the filter misses and the caller gets a conflict to retry, never a
// silent clobber of the concurrent transition.
func UpdateStatus(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	set := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range extra {
		set[k] = v
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a vanished record from a concurrent transition.
		err := coll.FindOne(ctx, bson.M{"_id": id}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("record %s not found", id.Hex())
		}
		return errs.Conflict("record %s is no longer in status %q", id.Hex(), from)
	}
	return nil
}
