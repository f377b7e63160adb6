package permissions

// Evaluator answers permission questions against a validated matrix. All
// methods are pure lookups; missing entries fail closed.
type Evaluator struct {
	matrix Matrix
}

func NewEvaluator(matrix Matrix) *Evaluator {
	return &Evaluator{matrix: matrix}
}

// Matrix exposes the underlying table, e.g. for serving the client mirror.
func (e *Evaluator) Matrix() Matrix {
	return e.matrix
}

func (e *Evaluator) set(role Role, module Module) []Level {
	modules, ok := e.matrix[role]
	if !ok {
		return nil
	}
	return modules[module]
}

// HasPermission reports whether role holds exactly the requested level on
// module. Controller in the set satisfies every request; no_access in the
// set denies every request; an absent entry denies every request.
func (e *Evaluator) HasPermission(role Role, module Module, level Level) bool {
	set := e.set(role, module)
	if len(set) == 0 {
		return false
	}
	for _, held := range set {
		if held == NoAccess {
			return false
		}
	}
	for _, held := range set {
		if held == Controller {
			return true
		}
	}
	if level == NoAccess {
		return false
	}
	for _, held := range set {
		if held == level {
			return true
		}
	}
	return false
}

// HasAtLeast reports whether role holds any level at or above min on
// module. Used to gate lifecycle transitions, where e.g. an approver may do
// anything a verifier may.
func (e *Evaluator) HasAtLeast(role Role, module Module, min Level) bool {
	set := e.set(role, module)
	if len(set) == 0 {
		return false
	}
	for _, held := range set {
		if held == NoAccess {
			return false
		}
	}
	for _, held := range set {
		if held >= min {
			return true
		}
	}
	return false
}

// CanAccessModule reports whether the role may see the module at all.
func (e *Evaluator) CanAccessModule(role Role, module Module) bool {
	return e.HasAtLeast(role, module, Viewer)
}

func (e *Evaluator) CanView(role Role, module Module) bool {
	return e.HasAtLeast(role, module, Viewer)
}

func (e *Evaluator) CanCreate(role Role, module Module) bool {
	return e.HasAtLeast(role, module, Requester)
}

func (e *Evaluator) CanEdit(role Role, module Module) bool {
	return e.HasAtLeast(role, module, Requester)
}

func (e *Evaluator) CanVerify(role Role, module Module) bool {
	return e.HasAtLeast(role, module, Verifier)
}

func (e *Evaluator) CanApprove(role Role, module Module) bool {
	return e.HasAtLeast(role, module, Approver)
}

// IsController reports whether the role holds the override permission on
// the module (the HoP escalation path).
func (e *Evaluator) IsController(role Role, module Module) bool {
	return e.HasPermission(role, module, Controller)
}
