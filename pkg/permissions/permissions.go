package permissions

// Role is the single actor classification carried in the JWT. Users hold
// exactly one role; reassignment is an admin action and is audit-logged.
type Role string

const (
	RoleRequester          Role = "requester"
	RoleDirectManager      Role = "direct_manager"
	RoleProcurementOfficer Role = "procurement_officer"
	RoleSeniorManager      Role = "senior_manager"
	RoleProcurementManager Role = "procurement_manager"
	RoleAdmin              Role = "admin"
)

// Roles lists every valid role. Order is not significant.
var Roles = []Role{
	RoleRequester,
	RoleDirectManager,
	RoleProcurementOfficer,
	RoleSeniorManager,
	RoleProcurementManager,
	RoleAdmin,
}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Module is a business domain area gated independently by the matrix.
type Module string

const (
	ModuleDashboard          Module = "dashboard"
	ModuleVendors            Module = "vendors"
	ModuleVendorDueDiligence Module = "vendor_due_diligence"
	ModuleTenders            Module = "tenders"
	ModuleTenderEvaluation   Module = "tender_evaluation"
	ModuleTenderProposals    Module = "tender_proposals"
	ModuleContracts          Module = "contracts"
	ModulePurchaseOrders     Module = "purchase_orders"
	ModuleResources          Module = "resources"
	ModuleInvoices           Module = "invoices"
	ModuleAssets             Module = "assets"
	ModuleServiceRequests    Module = "service_requests"
)

var Modules = []Module{
	ModuleDashboard,
	ModuleVendors,
	ModuleVendorDueDiligence,
	ModuleTenders,
	ModuleTenderEvaluation,
	ModuleTenderProposals,
	ModuleContracts,
	ModulePurchaseOrders,
	ModuleResources,
	ModuleInvoices,
	ModuleAssets,
	ModuleServiceRequests,
}

func (m Module) Valid() bool {
	for _, known := range Modules {
		if m == known {
			return true
		}
	}
	return false
}

// Level is an ordered permission capability. Higher values are stronger.
// NoAccess is exclusive: when present it must be the sole entry of a set.
type Level int

const (
	NoAccess Level = iota
	Viewer
	Requester
	Verifier
	Approver
	Controller
)

var levelNames = map[Level]string{
	NoAccess:   "no_access",
	Viewer:     "viewer",
	Requester:  "requester",
	Verifier:   "verifier",
	Approver:   "approver",
	Controller: "controller",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLevel maps a wire name back to a Level. Unknown names report false.
func ParseLevel(s string) (Level, bool) {
	for l, name := range levelNames {
		if name == s {
			return l, true
		}
	}
	return NoAccess, false
}

// Actor is the authenticated caller passed explicitly into every check, so
// the core stays testable without any web framework state.
type Actor struct {
	ID   string
	Role Role
}
