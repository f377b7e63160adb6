package dashboard

import (
	"context"

	"sourcevia/internal/database"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// moduleCollections maps each entity module to its backing collection.
var moduleCollections = map[permissions.Module]string{
	permissions.ModuleVendors:         "vendors",
	permissions.ModuleTenders:         "tenders",
	permissions.ModuleContracts:       "contracts",
	permissions.ModulePurchaseOrders:  "purchase_orders",
	permissions.ModuleInvoices:        "invoices",
	permissions.ModuleAssets:          "assets",
	permissions.ModuleResources:       "resources",
	permissions.ModuleServiceRequests: "service_requests",
}

type DashboardRepository interface {
	CountByStatus(ctx context.Context, module permissions.Module) ([]StatusCount, error)
	CountPendingApprovals(ctx context.Context) (int64, error)
}

type DashboardRepositoryImpl struct {
	DB *mongo.Database
}

func NewDashboardRepository(mongodb *database.MongodbDB) DashboardRepository {
	return &DashboardRepositoryImpl{DB: mongodb.DB}
}

func (r *DashboardRepositoryImpl) CountByStatus(ctx context.Context, module permissions.Module) ([]StatusCount, error) {
	name, ok := moduleCollections[module]
	if !ok {
		return nil, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.DB.Collection(name).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []StatusCount
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *DashboardRepositoryImpl) CountPendingApprovals(ctx context.Context) (int64, error) {
	return r.DB.Collection("approval_assignments").CountDocuments(ctx, bson.M{"status": "pending"})
}
