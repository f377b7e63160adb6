package permissions

import "testing"

func TestHasPermissionFailClosed(t *testing.T) {
	eval := NewEvaluator(Matrix{
		RoleRequester: {
			ModuleTenders: {Requester, Viewer},
		},
	})

	tests := []struct {
		name   string
		role   Role
		module Module
		level  Level
		want   bool
	}{
		{"held level", RoleRequester, ModuleTenders, Requester, true},
		{"held lesser level", RoleRequester, ModuleTenders, Viewer, true},
		{"unheld level", RoleRequester, ModuleTenders, Approver, false},
		{"module absent from matrix", RoleRequester, ModuleInvoices, Viewer, false},
		{"role absent from matrix", RoleAdmin, ModuleTenders, Viewer, false},
		{"unknown role", Role("intern"), ModuleTenders, Viewer, false},
		{"no_access is never grantable", RoleRequester, ModuleTenders, NoAccess, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eval.HasPermission(tt.role, tt.module, tt.level); got != tt.want {
				t.Errorf("HasPermission(%s, %s, %s) = %v, want %v", tt.role, tt.module, tt.level, got, tt.want)
			}
		})
	}
}

func TestNoAccessIsExclusive(t *testing.T) {
	// Even a malformed set that pairs no_access with real levels must deny
	// everything. The loader rejects such sets, this is the backstop.
	eval := NewEvaluator(Matrix{
		RoleRequester: {
			ModuleVendors: {NoAccess, Viewer, Approver},
		},
	})

	for level := Viewer; level <= Controller; level++ {
		if eval.HasPermission(RoleRequester, ModuleVendors, level) {
			t.Errorf("HasPermission with no_access in set granted %s", level)
		}
	}
	if eval.HasAtLeast(RoleRequester, ModuleVendors, Viewer) {
		t.Error("HasAtLeast with no_access in set granted access")
	}
	if eval.CanAccessModule(RoleRequester, ModuleVendors) {
		t.Error("CanAccessModule with no_access in set granted access")
	}
}

func TestControllerImpliesEverything(t *testing.T) {
	eval := NewEvaluator(Matrix{
		RoleAdmin: {
			ModuleContracts: {Controller},
		},
	})

	for level := Viewer; level <= Controller; level++ {
		if !eval.HasPermission(RoleAdmin, ModuleContracts, level) {
			t.Errorf("controller set did not satisfy %s", level)
		}
	}
	if !eval.CanApprove(RoleAdmin, ModuleContracts) {
		t.Error("CanApprove = false for controller")
	}
	if !eval.IsController(RoleAdmin, ModuleContracts) {
		t.Error("IsController = false for controller")
	}
}

func TestDerivedHelpers(t *testing.T) {
	eval := NewEvaluator(Matrix{
		RoleSeniorManager: {
			ModuleContracts: {Approver, Viewer},
		},
	})

	if !eval.CanView(RoleSeniorManager, ModuleContracts) {
		t.Error("CanView = false")
	}
	if !eval.CanApprove(RoleSeniorManager, ModuleContracts) {
		t.Error("CanApprove = false")
	}
	// Approver outranks verifier, so at-least checks pass...
	if !eval.CanVerify(RoleSeniorManager, ModuleContracts) {
		t.Error("CanVerify = false for approver")
	}
	// ...but exact membership does not.
	if eval.HasPermission(RoleSeniorManager, ModuleContracts, Verifier) {
		t.Error("HasPermission granted unheld verifier level")
	}
	if eval.IsController(RoleSeniorManager, ModuleContracts) {
		t.Error("IsController = true for approver")
	}
}

func TestMatrixValidate(t *testing.T) {
	tests := []struct {
		name    string
		matrix  Matrix
		wantErr bool
	}{
		{"default matrix", Default, false},
		{"unknown role", Matrix{Role("ghost"): {ModuleVendors: {Viewer}}}, true},
		{"unknown module", Matrix{RoleAdmin: {Module("payroll"): {Viewer}}}, true},
		{"empty set", Matrix{RoleAdmin: {ModuleVendors: {}}}, true},
		{"no_access combined with other levels", Matrix{RoleAdmin: {ModuleVendors: {NoAccess, Viewer}}}, true},
		{"out of range level", Matrix{RoleAdmin: {ModuleVendors: {Level(42)}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.matrix.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLevelRoundTrip(t *testing.T) {
	for level := NoAccess; level <= Controller; level++ {
		got, ok := ParseLevel(level.String())
		if !ok || got != level {
			t.Errorf("ParseLevel(%q) = %v, %v", level.String(), got, ok)
		}
	}
	if _, ok := ParseLevel("superuser"); ok {
		t.Error("ParseLevel accepted unknown level name")
	}
}
