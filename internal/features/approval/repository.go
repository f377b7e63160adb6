package approval

import (
	"context"
	"errors"

	"sourcevia/internal/common/errs"
	"sourcevia/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ApprovalRepository interface {
	Create(ctx context.Context, assignment Assignment) error
	FindOpenByEntity(ctx context.Context, entityType string, entityID string) (*Assignment, error)
	// ReplaceOpen writes back an assignment only while it is still pending,
	// so two decisions racing to close the round cannot both win.
	ReplaceOpen(ctx context.Context, assignment Assignment) error
	ListPendingForApprover(ctx context.Context, approverID string) ([]Assignment, error)
}

type ApprovalRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewApprovalRepository(mongodb *database.MongodbDB) ApprovalRepository {
	return &ApprovalRepositoryImpl{
		Collection: mongodb.DB.Collection("approval_assignments"),
	}
}

func (r *ApprovalRepositoryImpl) Create(ctx context.Context, assignment Assignment) error {
	_, err := r.Collection.InsertOne(ctx, assignment)
	return err
}

func (r *ApprovalRepositoryImpl) FindOpenByEntity(ctx context.Context, entityType string, entityID string) (*Assignment, error) {
	var assignment Assignment
	err := r.Collection.FindOne(ctx, bson.M{
		"entity_type": entityType,
		"entity_id":   entityID,
		"status":      DecisionPending,
	}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *ApprovalRepositoryImpl) ReplaceOpen(ctx context.Context, assignment Assignment) error {
	res, err := r.Collection.ReplaceOne(ctx,
		bson.M{"_id": assignment.ID, "status": DecisionPending},
		assignment,
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.Conflict("approval round %s already closed", assignment.ID.Hex())
	}
	return nil
}

func (r *ApprovalRepositoryImpl) ListPendingForApprover(ctx context.Context, approverID string) ([]Assignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{
		"status": DecisionPending,
		"decisions": bson.M{"$elemMatch": bson.M{
			"approver_id": approverID,
			"decision":    DecisionPending,
		}},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []Assignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}
