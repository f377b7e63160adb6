package contract

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

type ContractRepository interface {
	Create(ctx context.Context, contract *Contract) error
	FindByID(ctx context.Context, id string) (*Contract, error)
	FindByVendorAndStatus(ctx context.Context, vendorID string, status lifecycle.Status) ([]Contract, error)
	Search(ctx context.Context, filter bson.M, page, limit int64) ([]Contract, int64, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error
}

type ContractRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewContractRepository(mongodb *database.MongodbDB) ContractRepository {
	return &ContractRepositoryImpl{
		Collection: mongodb.DB.Collection("contracts"),
	}
}

func (r *ContractRepositoryImpl) Create(ctx context.Context, contract *Contract) error {
	_, err := r.Collection.InsertOne(ctx, contract)
	return err
}

func (r *ContractRepositoryImpl) FindByID(ctx context.Context, id string) (*Contract, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var contract Contract
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepositoryImpl) FindByVendorAndStatus(ctx context.Context, vendorID string, status lifecycle.Status) ([]Contract, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"vendor_id": vendorID, "status": status})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contracts []Contract
	if err = cursor.All(ctx, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *ContractRepositoryImpl) Search(ctx context.Context, filter bson.M, page, limit int64) ([]Contract, int64, error) {
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

	var contracts []Contract
	if err = cursor.All(ctx, &contracts); err != nil {
		return nil, 0, err
	}
	return contracts, total, nil
}

func (r *ContractRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *ContractRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	return entity.UpdateStatus(ctx, r.Collection, id, from, to, extra)
}
