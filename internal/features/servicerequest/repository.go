package servicerequest

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

type ServiceRequestRepository interface {
	Create(ctx context.Context, request *ServiceRequest) error
	FindByID(ctx context.Context, id string) (*ServiceRequest, error)
	Search(ctx context.Context, filter bson.M, page, limit int64) ([]ServiceRequest, int64, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error
}

type ServiceRequestRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewServiceRequestRepository(mongodb *database.MongodbDB) ServiceRequestRepository {
	return &ServiceRequestRepositoryImpl{
		Collection: mongodb.DB.Collection("service_requests"),
	}
}

func (r *ServiceRequestRepositoryImpl) Create(ctx context.Context, request *ServiceRequest) error {
	_, err := r.Collection.InsertOne(ctx, request)
	return err
}

func (r *ServiceRequestRepositoryImpl) FindByID(ctx context.Context, id string) (*ServiceRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var request ServiceRequest
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *ServiceRequestRepositoryImpl) Search(ctx context.Context, filter bson.M, page, limit int64) ([]ServiceRequest, int64, error) {
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

	var requests []ServiceRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *ServiceRequestRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *ServiceRequestRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	return entity.UpdateStatus(ctx, r.Collection, id, from, to, extra)
}
