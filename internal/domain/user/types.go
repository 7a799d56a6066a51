package user

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

var roleRank = map[Role]int{
	RoleCustomer: 0,
	RoleStaff:    1,
	RoleAdmin:    2,
}

// AtLeast reports whether this role sits at or above the required one in the
// customer < staff < admin hierarchy.
func (r Role) AtLeast(required Role) bool {
	return roleRank[r] >= roleRank[required]
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
