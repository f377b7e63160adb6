package lifecycle

import (
	"sourcevia/pkg/permissions"
)

// EntityType identifies one of the closed set of procurement record types.
type EntityType string

const (
	EntityVendor         EntityType = "vendor"
	EntityTender         EntityType = "tender"
	EntityContract       EntityType = "contract"
	EntityPurchaseOrder  EntityType = "purchase_order"
	EntityInvoice        EntityType = "invoice"
	EntityResource       EntityType = "resource"
	EntityAsset          EntityType = "asset"
	EntityServiceRequest EntityType = "service_request"
)

var EntityTypes = []EntityType{
	EntityVendor,
	EntityTender,
	EntityContract,
	EntityPurchaseOrder,
	EntityInvoice,
	EntityResource,
	EntityAsset,
	EntityServiceRequest,
}

// Module returns the permission module gating this entity type.
func (t EntityType) Module() permissions.Module {
	switch t {
	case EntityVendor:
		return permissions.ModuleVendors
	case EntityTender:
		return permissions.ModuleTenders
	case EntityContract:
		return permissions.ModuleContracts
	case EntityPurchaseOrder:
		return permissions.ModulePurchaseOrders
	case EntityInvoice:
		return permissions.ModuleInvoices
	case EntityResource:
		return permissions.ModuleResources
	case EntityAsset:
		return permissions.ModuleAssets
	case EntityServiceRequest:
		return permissions.ModuleServiceRequests
	}
	return ""
}

// Prefix is the auto-number prefix, as in Vendor-26-0001.
func (t EntityType) Prefix() string {
	switch t {
	case EntityVendor:
		return "Vendor"
	case EntityTender:
		return "Tender"
	case EntityContract:
		return "Contract"
	case EntityPurchaseOrder:
		return "PO"
	case EntityInvoice:
		return "INV"
	case EntityResource:
		return "RSC"
	case EntityAsset:
		return "AST"
	case EntityServiceRequest:
		return "SR"
	}
	return "REC"
}

// Status is a closed per-type enumeration. Terminal statuses stand in place
// of deletion; entities are never hard-deleted.
type Status string

const (
	StatusDraft               Status = "draft"
	StatusPendingDueDiligence Status = "pending_due_diligence"
	StatusPendingApproval     Status = "pending_approval"
	StatusNeedsRevision       Status = "needs_revision"
	StatusApproved            Status = "approved"
	StatusActive              Status = "active"
	StatusPaid                Status = "paid"
	StatusExpired             Status = "expired"
	StatusTerminated          Status = "terminated"
	StatusRejected            Status = "rejected"
	StatusBlacklisted         Status = "blacklisted"
)

// Terminal reports whether a status has no outgoing transitions anywhere.
func Terminal(s Status) bool {
	switch s {
	case StatusPaid, StatusExpired, StatusTerminated, StatusRejected, StatusBlacklisted:
		return true
	}
	return false
}
