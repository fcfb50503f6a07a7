package guard

import "fmt"

// Role is the closed set of access roles in the system. A profile without a
// role has an identity but has not completed second-factor onboarding yet,
// which the route guard treats as its own state.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleTechnician    Role = "technician"
	RoleSales         Role = "sales"
	RoleInventory     Role = "inventory"
)

// AllRoles lists every valid role. Keep in sync with the constants above.
func AllRoles() []Role {
	return []Role{RoleAdministrator, RoleTechnician, RoleSales, RoleInventory}
}

// ParseRole validates a stored role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdministrator, RoleTechnician, RoleSales, RoleInventory:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }
