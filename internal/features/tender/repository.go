package tender

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

type TenderRepository interface {
	Create(ctx context.Context, tender *Tender) error
	FindByID(ctx context.Context, id string) (*Tender, error)
	Search(ctx context.Context, filter bson.M, page, limit int64) ([]Tender, int64, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error

	CreateProposal(ctx context.Context, proposal *Proposal) error
	FindProposal(ctx context.Context, tenderID, proposalID string) (*Proposal, error)
	ListProposals(ctx context.Context, tenderID string) ([]Proposal, error)
	SaveEvaluation(ctx context.Context, proposalID primitive.ObjectID, eval *Evaluation) error
}

type TenderRepositoryImpl struct {
	Collection *mongo.Collection
	Proposals  *mongo.Collection
}

func NewTenderRepository(mongodb *database.MongodbDB) TenderRepository {
	return &TenderRepositoryImpl{
		Collection: mongodb.DB.Collection("tenders"),
		Proposals:  mongodb.DB.Collection("tender_proposals"),
	}
}

func (r *TenderRepositoryImpl) Create(ctx context.Context, tender *Tender) error {
	_, err := r.Collection.InsertOne(ctx, tender)
	return err
}

func (r *TenderRepositoryImpl) FindByID(ctx context.Context, id string) (*Tender, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var tender Tender
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&tender); err != nil {
		return nil, err
	}
	return &tender, nil
}

func (r *TenderRepositoryImpl) Search(ctx context.Context, filter bson.M, page, limit int64) ([]Tender, int64, error) {
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

	var tenders []Tender
	if err = cursor.All(ctx, &tenders); err != nil {
		return nil, 0, err
	}
	return tenders, total, nil
}

func (r *TenderRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *TenderRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	return entity.UpdateStatus(ctx, r.Collection, id, from, to, extra)
}

func (r *TenderRepositoryImpl) CreateProposal(ctx context.Context, proposal *Proposal) error {
	_, err := r.Proposals.InsertOne(ctx, proposal)
	return err
}

func (r *TenderRepositoryImpl) FindProposal(ctx context.Context, tenderID, proposalID string) (*Proposal, error) {
	oid, err := primitive.ObjectIDFromHex(proposalID)
	if err != nil {
		return nil, err
	}
	var proposal Proposal
	if err := r.Proposals.FindOne(ctx, bson.M{"_id": oid, "tender_id": tenderID}).Decode(&proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *TenderRepositoryImpl) ListProposals(ctx context.Context, tenderID string) ([]Proposal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}})
	cursor, err := r.Proposals.Find(ctx, bson.M{"tender_id": tenderID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var proposals []Proposal
	if err = cursor.All(ctx, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *TenderRepositoryImpl) SaveEvaluation(ctx context.Context, proposalID primitive.ObjectID, eval *Evaluation) error {
	_, err := r.Proposals.UpdateOne(ctx,
		bson.M{"_id": proposalID},
		bson.M{"$set": bson.M{"evaluation": eval}},
	)
	return err
}
