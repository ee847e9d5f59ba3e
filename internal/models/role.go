package models

// Role is the sole authorization axis of a user.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Tier is an ordered authorization level. A higher tier holds every
// permission of the tiers below it.
type Tier int

const (
	TierNone Tier = iota
	TierCustomer
	TierElevated
	TierSuper
)

// Tier maps a role onto its tier. Unknown roles get TierNone.
func (r Role) Tier() Tier {
	switch r {
	case RoleCustomer:
		return TierCustomer
	case RoleStaff, RoleAdmin:
		return TierElevated
	case RoleSuperAdmin:
		return TierSuper
	default:
		return TierNone
	}
}

func (t Tier) String() string {
	switch t {
	case TierCustomer:
		return "customer"
	case TierElevated:
		return "elevated"
	case TierSuper:
		return "super"
	default:
		return "none"
	}
}
