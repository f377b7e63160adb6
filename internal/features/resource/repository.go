package resource

import (
	"context"

	"sourcevia/internal/common/entity"
	"sourcevia/internal/database"
	"sourcevia/pkg/lifecycle"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *Resource) error
	FindByID(ctx context.Context, id string) (*Resource, error)
	Search(ctx context.Context, filter bson.M, page, limit int64) ([]Resource, int64, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error
}

type ResourceRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewResourceRepository(mongodb *database.MongodbDB) ResourceRepository {
	return &ResourceRepositoryImpl{
		Collection: mongodb.DB.Collection("resources"),
	}
}

func (r *ResourceRepositoryImpl) Create(ctx context.Context, resource *Resource) error {
	_, err := r.Collection.InsertOne(ctx, resource)
	return err
}

func (r *ResourceRepositoryImpl) FindByID(ctx context.Context, id string) (*Resource, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var resource Resource
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *ResourceRepositoryImpl) Search(ctx context.Context, filter bson.M, page, limit int64) ([]Resource, int64, error) {
	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var resources []Resource
	if err = cursor.All(ctx, &resources); err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

func (r *ResourceRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *ResourceRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	return entity.UpdateStatus(ctx, r.Collection, id, from, to, extra)
}
