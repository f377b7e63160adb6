package invoice

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

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id string) (*Invoice, error)
	Search(ctx context.Context, filter bson.M, page, limit int64) ([]Invoice, int64, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error
}

type InvoiceRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewInvoiceRepository(mongodb *database.MongodbDB) InvoiceRepository {
	return &InvoiceRepositoryImpl{
		Collection: mongodb.DB.Collection("invoices"),
	}
}

func (r *InvoiceRepositoryImpl) Create(ctx context.Context, invoice *Invoice) error {
	_, err := r.Collection.InsertOne(ctx, invoice)
	return err
}

func (r *InvoiceRepositoryImpl) FindByID(ctx context.Context, id string) (*Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var invoice Invoice
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepositoryImpl) Search(ctx context.Context, filter bson.M, page, limit int64) ([]Invoice, int64, error) {
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

	var invoices []Invoice
	if err = cursor.All(ctx, &invoices); err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *InvoiceRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *InvoiceRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	return entity.UpdateStatus(ctx, r.Collection, id, from, to, extra)
}
