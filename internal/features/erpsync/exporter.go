package erpsync

import (
	"context"
	"database/sql"

	"sourcevia/internal/config"
	"sourcevia/internal/features/automation"
	"sourcevia/internal/features/purchaseorder"
	"sourcevia/internal/features/vendor"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type VendorSource interface {
	FindByID(ctx context.Context, id string) (*vendor.Vendor, error)
}

type OrderSource interface {
	FindByID(ctx context.Context, id string) (*purchaseorder.PurchaseOrder, error)
}

// Exporter mirrors activated vendors and purchase orders into an external
// ERP Postgres. A nil receiver (no DSN configured) is a valid no-op.
type Exporter struct {
	DB      *sql.DB
	Vendors VendorSource
	Orders  OrderSource
	Logger  *zap.Logger
}

func NewExporter(cfg *config.Config, vendors VendorSource, orders OrderSource, logger *zap.Logger) (*Exporter, error) {
	if cfg.ERPPgDSN == "" {
		logger.Info("erp export disabled: no postgres dsn configured")
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.ERPPgDSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	return &Exporter{
		DB:      db,
		Vendors: vendors,
		Orders:  orders,
		Logger:  logger,
	}, nil
}

var _ automation.TransitionListener = (*Exporter)(nil)

func (e *Exporter) OnTransition(ctx context.Context, event automation.TransitionEvent) {
	if e == nil || event.To != lifecycle.StatusActive {
		return
	}
	switch event.Module {
	case permissions.ModuleVendors:
		if err := e.exportVendor(ctx, event.EntityID); err != nil {
			e.Logger.Warn("erp vendor export failed",
				zap.String("vendor", event.EntityNumber), zap.Error(err))
		}
	case permissions.ModulePurchaseOrders:
		if err := e.exportOrder(ctx, event.EntityID); err != nil {
			e.Logger.Warn("erp purchase order export failed",
				zap.String("order", event.EntityNumber), zap.Error(err))
		}
	}
}

func (e *Exporter) exportVendor(ctx context.Context, id string) error {
	v, err := e.Vendors.FindByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = e.DB.ExecContext(ctx, `
		INSERT INTO erp_vendors (number, name, category, country, contact_email, iban, tax_number, risk_category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (number) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			country = EXCLUDED.country,
			contact_email = EXCLUDED.contact_email,
			iban = EXCLUDED.iban,
			tax_number = EXCLUDED.tax_number,
			risk_category = EXCLUDED.risk_category`,
		v.Number, v.Name, v.Category, v.Country, v.ContactEmail, v.BankIBAN, v.TaxNumber, string(v.RiskCategory))
	return err
}

func (e *Exporter) exportOrder(ctx context.Context, id string) error {
	o, err := e.Orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = e.DB.ExecContext(ctx, `
		INSERT INTO erp_purchase_orders (number, title, vendor_id, contract_id, total, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (number) DO UPDATE SET
			title = EXCLUDED.title,
			vendor_id = EXCLUDED.vendor_id,
			contract_id = EXCLUDED.contract_id,
			total = EXCLUDED.total,
			currency = EXCLUDED.currency`,
		o.Number, o.Title, o.VendorID, o.ContractID, o.Total, o.Currency)
	return err
}

// Close releases the Postgres pool. Safe on a disabled exporter.
func (e *Exporter) Close() error {
	if e == nil || e.DB == nil {
		return nil
	}
	return e.DB.Close()
}
