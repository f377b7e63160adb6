package automation

import (
	"context"

	"sourcevia/internal/database"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HookRepository interface {
	Create(ctx context.Context, hook *Hook) error
	FindByID(ctx context.Context, id string) (*Hook, error)
	List(ctx context.Context) ([]Hook, error)
	FindMatching(ctx context.Context, module permissions.Module, to lifecycle.Status) ([]Hook, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type HookRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewHookRepository(mongodb *database.MongodbDB) HookRepository {
	return &HookRepositoryImpl{
		Collection: mongodb.DB.Collection("automation_hooks"),
	}
}

func (r *HookRepositoryImpl) Create(ctx context.Context, hook *Hook) error {
	_, err := r.Collection.InsertOne(ctx, hook)
	return err
}

func (r *HookRepositoryImpl) FindByID(ctx context.Context, id string) (*Hook, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var hook Hook
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

func (r *HookRepositoryImpl) List(ctx context.Context) ([]Hook, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var hooks []Hook
	if err = cursor.All(ctx, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

func (r *HookRepositoryImpl) FindMatching(ctx context.Context, module permissions.Module, to lifecycle.Status) ([]Hook, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{
		"module":    module,
		"on_status": to,
		"enabled":   true,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var hooks []Hook
	if err = cursor.All(ctx, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

func (r *HookRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *HookRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
