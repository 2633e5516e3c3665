package authz

// Role enum. A user may hold several roles at once; the role set is the
// sole authorization input for every mutating operation.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RoleManager    Role = "manager"
	RoleSales      Role = "sales"
	RoleStaff      Role = "staff"
	RolePatient    Role = "patient"
)

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleDoctor, RoleManager, RoleSales, RoleStaff, RolePatient:
		return true
	}
	return false
}

// RoleSet is a user's current set of roles.
type RoleSet map[Role]bool

// NewRoleSet builds a RoleSet from a list of roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return set
}

// Has reports whether the set contains the given role.
func (s RoleSet) Has(r Role) bool {
	return s[r]
}

// Strings returns the roles as plain strings, for JWT claims and responses.
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, string(r))
	}
	return out
}

// Capabilities is the derived permission set consumed by the state
// machines and handlers instead of scattered per-role checks.
type Capabilities struct {
	// IsAdmin covers super_admin, admin and manager.
	IsAdmin bool
	// IsStaff covers holders of the staff role; admins can act as staff
	// for upload and status actions.
	IsStaff bool
}

// CapabilitiesFor derives the capability set from a role set.
func CapabilitiesFor(roles RoleSet) Capabilities {
	admin := roles.Has(RoleSuperAdmin) || roles.Has(RoleAdmin) || roles.Has(RoleManager)
	return Capabilities{
		IsAdmin: admin,
		IsStaff: admin || roles.Has(RoleStaff),
	}
}

// Actor identifies the user performing an operation. Passed explicitly
// into every state-machine call so transitions stay pure and testable.
type Actor struct {
	ID    string
	Roles RoleSet
}

// Caps returns the actor's derived capabilities.
func (a Actor) Caps() Capabilities {
	return CapabilitiesFor(a.Roles)
}
