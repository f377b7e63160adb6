package permissions

import "sourcevia/internal/common/errs"

// Matrix maps (role, module) to the set of permission levels the role holds
// there. It is static configuration: loaded once at process start and never
// mutated afterwards, so it needs no locking. The same table is served to
// the UI through the permission API — the server copy is the only
// enforcement authority.
type Matrix map[Role]map[Module][]Level

// Default is the Sourcevia permission policy. Enforcement always goes
// through an Evaluator so the fail-closed rules in evaluator.go apply even
// if an entry is missing here.
var Default = Matrix{
	RoleRequester: {
		ModuleDashboard:       {Viewer},
		ModuleVendors:         {Viewer},
		ModuleTenders:         {Requester, Viewer},
		ModuleTenderProposals: {Viewer},
		ModuleContracts:       {Viewer},
		ModulePurchaseOrders:  {Requester, Viewer},
		ModuleResources:       {Viewer},
		ModuleInvoices:        {NoAccess},
		ModuleAssets:          {Viewer},
		ModuleServiceRequests: {Requester, Viewer},
	},
	RoleDirectManager: {
		ModuleDashboard:        {Viewer},
		ModuleVendors:          {Viewer},
		ModuleTenders:          {Approver, Viewer},
		ModuleTenderEvaluation: {Viewer},
		ModuleTenderProposals:  {Viewer},
		ModuleContracts:        {Viewer},
		ModulePurchaseOrders:   {Approver, Viewer},
		ModuleResources:        {Approver, Viewer},
		ModuleInvoices:         {Viewer},
		ModuleAssets:           {Viewer},
		ModuleServiceRequests:  {Approver, Viewer},
	},
	RoleProcurementOfficer: {
		ModuleDashboard:          {Viewer},
		ModuleVendors:            {Requester, Verifier, Viewer},
		ModuleVendorDueDiligence: {Verifier, Viewer},
		ModuleTenders:            {Requester, Verifier, Viewer},
		ModuleTenderEvaluation:   {Verifier, Viewer},
		ModuleTenderProposals:    {Verifier, Viewer},
		ModuleContracts:          {Requester, Verifier, Viewer},
		ModulePurchaseOrders:     {Requester, Verifier, Viewer},
		ModuleResources:          {Requester, Verifier, Viewer},
		ModuleInvoices:           {Requester, Verifier, Viewer},
		ModuleAssets:             {Requester, Verifier, Viewer},
		ModuleServiceRequests:    {Verifier, Viewer},
	},
	RoleSeniorManager: {
		ModuleDashboard:          {Viewer},
		ModuleVendors:            {Approver, Viewer},
		ModuleVendorDueDiligence: {Approver, Viewer},
		ModuleTenders:            {Approver, Viewer},
		ModuleTenderEvaluation:   {Approver, Viewer},
		ModuleTenderProposals:    {Viewer},
		ModuleContracts:          {Approver, Viewer},
		ModulePurchaseOrders:     {Approver, Viewer},
		ModuleResources:          {Viewer},
		ModuleInvoices:           {Approver, Viewer},
		ModuleAssets:             {Viewer},
		ModuleServiceRequests:    {Viewer},
	},
	RoleProcurementManager: {
		ModuleDashboard:          {Viewer},
		ModuleVendors:            {Controller},
		ModuleVendorDueDiligence: {Controller},
		ModuleTenders:            {Controller},
		ModuleTenderEvaluation:   {Controller},
		ModuleTenderProposals:    {Controller},
		ModuleContracts:          {Controller},
		ModulePurchaseOrders:     {Controller},
		ModuleInvoices:           {Approver, Viewer},
		ModuleResources:          {Approver, Viewer},
		ModuleAssets:             {Approver, Viewer},
		ModuleServiceRequests:    {Approver, Viewer},
	},
	RoleAdmin: {
		ModuleDashboard:          {Controller},
		ModuleVendors:            {Controller},
		ModuleVendorDueDiligence: {Controller},
		ModuleTenders:            {Controller},
		ModuleTenderEvaluation:   {Controller},
		ModuleTenderProposals:    {Controller},
		ModuleContracts:          {Controller},
		ModulePurchaseOrders:     {Controller},
		ModuleResources:          {Controller},
		ModuleInvoices:           {Controller},
		ModuleAssets:             {Controller},
		ModuleServiceRequests:    {Controller},
	},
}

// Validate rejects malformed matrices at load time: unknown roles or
// modules, empty sets, levels outside the enumeration, and no_access mixed
// with other levels. A failure here is fatal at boot — authorization must
// never run against a table that could be read two ways.
func (m Matrix) Validate() error {
	for role, modules := range m {
		if !role.Valid() {
			return errs.Configuration("permission matrix references unknown role %q", role)
		}
		for module, set := range modules {
			if !module.Valid() {
				return errs.Configuration("permission matrix references unknown module %q for role %q", module, role)
			}
			if len(set) == 0 {
				return errs.Configuration("empty permission set for role %q module %q", role, module)
			}
			for _, level := range set {
				if level < NoAccess || level > Controller {
					return errs.Configuration("invalid permission level %d for role %q module %q", level, role, module)
				}
				if level == NoAccess && len(set) > 1 {
					return errs.Configuration("no_access must be the sole entry for role %q module %q", role, module)
				}
			}
		}
	}
	return nil
}
