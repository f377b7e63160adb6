package attachment

import (
	"context"

	"sourcevia/internal/database"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AttachmentRepository interface {
	Create(ctx context.Context, a *Attachment) error
	FindByID(ctx context.Context, id string) (*Attachment, error)
	FindByEntity(ctx context.Context, module permissions.Module, entityID string) ([]Attachment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AttachmentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAttachmentRepository(mongodb *database.MongodbDB) AttachmentRepository {
	return &AttachmentRepositoryImpl{
		Collection: mongodb.DB.Collection("attachments"),
	}
}

func (r *AttachmentRepositoryImpl) Create(ctx context.Context, a *Attachment) error {
	_, err := r.Collection.InsertOne(ctx, a)
	return err
}

func (r *AttachmentRepositoryImpl) FindByID(ctx context.Context, id string) (*Attachment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var a Attachment
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepositoryImpl) FindByEntity(ctx context.Context, module permissions.Module, entityID string) ([]Attachment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"module": module, "entity_id": entityID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Attachment
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AttachmentRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
