package models

// Role is the closed set of caller roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Capability is a permission granted to a role.
type Capability string

const (
	CapManageCatalog   Capability = "manage-catalog"
	CapViewAllOrders   Capability = "view-all-orders"
	CapSettleAnyOrder  Capability = "settle-any-order"
	CapViewAllFeedback Capability = "view-all-feedback"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapManageCatalog:   true,
		CapViewAllOrders:   true,
		CapSettleAnyOrder:  true,
		CapViewAllFeedback: true,
	},
	RoleCustomer: {},
}

// ParseRole maps a stored or token role to a Role. Unknown values are rejected.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleCapabilities[r]
	return r, ok
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Can reports whether the caller holds the capability.
func (p Principal) Can(c Capability) bool {
	return p.Role.Can(c)
}

// Owns reports whether userID is the caller.
func (p Principal) Owns(userID string) bool {
	return p.UserID != "" && p.UserID == userID
}
