package main

import (
	"context"
	"fmt"
	"log"
	common_api "sourcevia/internal/common/api"
	"sourcevia/internal/common/errs"
	"sourcevia/internal/config"
	"sourcevia/internal/database"
	"sourcevia/internal/features/approval"
	"sourcevia/internal/features/asset"
	"sourcevia/internal/features/attachment"
	"sourcevia/internal/features/audit"
	"sourcevia/internal/features/auth"
	"sourcevia/internal/features/automation"
	"sourcevia/internal/features/contract"
	"sourcevia/internal/features/dashboard"
	"sourcevia/internal/features/erpsync"
	"sourcevia/internal/features/export"
	"sourcevia/internal/features/invoice"
	"sourcevia/internal/features/notification"
	"sourcevia/internal/features/permission"
	"sourcevia/internal/features/purchaseorder"
	"sourcevia/internal/features/resource"
	"sourcevia/internal/features/servicerequest"
	"sourcevia/internal/features/system"
	"sourcevia/internal/features/tender"
	"sourcevia/internal/features/user"
	"sourcevia/internal/features/vendor"
	"sourcevia/internal/logger"
	"sourcevia/internal/middleware"
	"sourcevia/pkg/permissions"
	"sourcevia/pkg/risk"
	"sourcevia/pkg/utils"

	_ "sourcevia/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := errs.HTTPStatus(err)
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Use custom CORS middleware
	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// ConfigureAuth installs the signing secret before any route handles a token.
func ConfigureAuth(cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)
}

// CloseExporter shuts down the ERP connection pool on exit.
func CloseExporter(lc fx.Lifecycle, exporter *erpsync.Exporter) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return exporter.Close()
		},
	})
}

func newPermissionMatrix() (permissions.Matrix, error) {
	matrix := permissions.Default
	if err := matrix.Validate(); err != nil {
		return nil, err
	}
	return matrix, nil
}

func newRiskPolicy() (risk.Policy, error) {
	policy := risk.DefaultPolicy()
	if err := policy.Validate(); err != nil {
		return risk.Policy{}, err
	}
	return policy, nil
}

func newTransitionListeners(engine automation.Engine, exporter *erpsync.Exporter) []automation.TransitionListener {
	listeners := []automation.TransitionListener{engine}
	if exporter != nil {
		listeners = append(listeners, exporter)
	}
	return listeners
}

func newAuditService(repo audit.AuditRepository, zapLogger *zap.Logger, listeners []automation.TransitionListener) audit.AuditService {
	inner := audit.NewAuditService(repo, zapLogger)
	return automation.NewTransitionRecorder(inner, listeners)
}

func newDueDiligenceListeners(contracts contract.ContractService) []vendor.DueDiligenceListener {
	return []vendor.DueDiligenceListener{contracts}
}

func newApprovalGateways(
	vendors *vendor.VendorGateway,
	tenders *tender.TenderGateway,
	contracts *contract.ContractGateway,
	orders *purchaseorder.PurchaseOrderGateway,
	invoices *invoice.InvoiceGateway,
	resources *resource.ResourceGateway,
	assets *asset.AssetGateway,
	requests *servicerequest.ServiceRequestGateway,
) []approval.Gateway {
	return []approval.Gateway{vendors, tenders, contracts, orders, invoices, resources, assets, requests}
}

// @title Sourcevia API
// @version 1.0
// @description Procurement management platform: vendors, tenders, contracts, purchase orders, invoices and supporting registers.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,

			// Storage
			database.NewDatabase,
			database.NewCounters,
			func(c *database.Counters) database.NumberSource { return c },

			// Policy
			newPermissionMatrix,
			permissions.NewEvaluator,
			newRiskPolicy,

			// Repositories
			user.NewUserRepository,
			audit.NewAuditRepository,
			notification.NewNotificationRepository,
			approval.NewApprovalRepository,
			vendor.NewVendorRepository,
			contract.NewContractRepository,
			tender.NewTenderRepository,
			purchaseorder.NewPurchaseOrderRepository,
			invoice.NewInvoiceRepository,
			resource.NewResourceRepository,
			asset.NewAssetRepository,
			servicerequest.NewServiceRequestRepository,
			attachment.NewAttachmentRepository,
			automation.NewHookRepository,
			dashboard.NewDashboardRepository,
			export.NewExportRepository,

			// Cross-feature lookups
			vendor.NewDirectory,
			func(d *vendor.Directory) contract.VendorDirectory { return d },
			func(d *vendor.Directory) tender.VendorDirectory { return d },
			func(d *vendor.Directory) purchaseorder.VendorDirectory { return d },
			func(d *vendor.Directory) invoice.VendorDirectory { return d },
			func(r user.UserRepository) approval.UserDirectory { return r },
			func(r vendor.VendorRepository) erpsync.VendorSource { return r },
			func(r purchaseorder.PurchaseOrderRepository) erpsync.OrderSource { return r },

			// Messaging and side effects
			notification.NewHub,
			notification.NewNotificationService,
			automation.NewEngine,
			automation.NewHookService,
			erpsync.NewExporter,
			newTransitionListeners,
			newAuditService,
			newDueDiligenceListeners,

			// Services
			auth.NewAuthService,
			user.NewUserService,
			vendor.NewVendorService,
			contract.NewContractService,
			tender.NewTenderService,
			purchaseorder.NewPurchaseOrderService,
			invoice.NewInvoiceService,
			resource.NewResourceService,
			asset.NewAssetService,
			servicerequest.NewServiceRequestService,
			approval.NewApprovalService,
			attachment.NewAttachmentService,
			dashboard.NewDashboardService,
			export.NewExportService,

			// Approval gateways
			vendor.NewVendorGateway,
			tender.NewTenderGateway,
			contract.NewContractGateway,
			purchaseorder.NewPurchaseOrderGateway,
			invoice.NewInvoiceGateway,
			resource.NewResourceGateway,
			asset.NewAssetGateway,
			servicerequest.NewServiceRequestGateway,
			newApprovalGateways,

			// Controllers
			auth.NewAuthController,
			user.NewUserController,
			permission.NewPermissionController,
			audit.NewAuditController,
			notification.NewNotificationController,
			approval.NewApprovalController,
			vendor.NewVendorController,
			contract.NewContractController,
			tender.NewTenderController,
			purchaseorder.NewPurchaseOrderController,
			invoice.NewInvoiceController,
			resource.NewResourceController,
			asset.NewAssetController,
			servicerequest.NewServiceRequestController,
			attachment.NewAttachmentController,
			automation.NewHookController,
			dashboard.NewDashboardController,
			export.NewExportController,

			// Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(permission.NewPermissionApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(approval.NewApprovalApi),
			AsRoute(vendor.NewVendorApi),
			AsRoute(contract.NewContractApi),
			AsRoute(tender.NewTenderApi),
			AsRoute(purchaseorder.NewPurchaseOrderApi),
			AsRoute(invoice.NewInvoiceApi),
			AsRoute(resource.NewResourceApi),
			AsRoute(asset.NewAssetApi),
			AsRoute(servicerequest.NewServiceRequestApi),
			AsRoute(attachment.NewAttachmentApi),
			AsRoute(automation.NewHookApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(export.NewExportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(zapLogger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zapLogger}
		}),
		fx.Invoke(
			ConfigureAuth,
			RegisterAllRoutesWithAnnotation,
			StartServer,
			CloseExporter,
		),
	).Run()
}
