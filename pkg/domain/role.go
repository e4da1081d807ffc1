package domain

// Role labels what an account is allowed to do. Admin accounts are seeded
// out of band; signup only ever produces user or startup_owner.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleStartupOwner Role = "startup_owner"
	RoleUser         Role = "user"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStartupOwner, RoleUser:
		return true
	}
	return false
}

// AssignableAtSignup reports whether a caller may claim this role when
// registering. Admin is excluded.
func (r Role) AssignableAtSignup() bool {
	return r == RoleUser || r == RoleStartupOwner
}
