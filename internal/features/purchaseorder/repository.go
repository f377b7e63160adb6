package purchaseorder

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

type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *PurchaseOrder) error
	FindByID(ctx context.Context, id string) (*PurchaseOrder, error)
	Search(ctx context.Context, filter bson.M, page, limit int64) ([]PurchaseOrder, int64, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error
}

type PurchaseOrderRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPurchaseOrderRepository(mongodb *database.MongodbDB) PurchaseOrderRepository {
	return &PurchaseOrderRepositoryImpl{
		Collection: mongodb.DB.Collection("purchase_orders"),
	}
}

func (r *PurchaseOrderRepositoryImpl) Create(ctx context.Context, order *PurchaseOrder) error {
	_, err := r.Collection.InsertOne(ctx, order)
	return err
}

func (r *PurchaseOrderRepositoryImpl) FindByID(ctx context.Context, id string) (*PurchaseOrder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var order PurchaseOrder
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *PurchaseOrderRepositoryImpl) Search(ctx context.Context, filter bson.M, page, limit int64) ([]PurchaseOrder, int64, error) {
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

	var orders []PurchaseOrder
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *PurchaseOrderRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *PurchaseOrderRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	return entity.UpdateStatus(ctx, r.Collection, id, from, to, extra)
}
