package export

import (
	"context"

	"sourcevia/internal/database"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

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

type ExportRepository interface {
	FetchAll(ctx context.Context, module permissions.Module) ([]bson.M, error)
}

type ExportRepositoryImpl struct {
	DB *mongo.Database
}

func NewExportRepository(mongodb *database.MongodbDB) ExportRepository {
	return &ExportRepositoryImpl{DB: mongodb.DB}
}

func (r *ExportRepositoryImpl) FetchAll(ctx context.Context, module permissions.Module) ([]bson.M, error) {
	name, ok := moduleCollections[module]
	if !ok {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.DB.Collection(name).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
