package asset

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

type AssetRepository interface {
	Create(ctx context.Context, asset *Asset) error
	FindByID(ctx context.Context, id string) (*Asset, error)
	Search(ctx context.Context, filter bson.M, page, limit int64) ([]Asset, int64, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error
}

type AssetRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAssetRepository(mongodb *database.MongodbDB) AssetRepository {
	return &AssetRepositoryImpl{
		Collection: mongodb.DB.Collection("assets"),
	}
}

func (r *AssetRepositoryImpl) Create(ctx context.Context, asset *Asset) error {
	_, err := r.Collection.InsertOne(ctx, asset)
	return err
}

func (r *AssetRepositoryImpl) FindByID(ctx context.Context, id string) (*Asset, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var asset Asset
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *AssetRepositoryImpl) Search(ctx context.Context, filter bson.M, page, limit int64) ([]Asset, int64, error) {
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

	var assets []Asset
	if err = cursor.All(ctx, &assets); err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

func (r *AssetRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *AssetRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	return entity.UpdateStatus(ctx, r.Collection, id, from, to, extra)
}
