// Package roles models the permission groups an account can hold and the
// priority order used when routing a freshly logged-in account to its
// dashboard.
package roles

// Role is a single permission group.
type Role uint8

const (
	None  Role = 0
	Staff Role = 1 << 0
	Admin Role = 1 << 1
)

// Stored group names.
const (
	StaffName = "staff"
	AdminName = "admin"
)

func (r Role) String() string {
	switch r {
	case Admin:
		return AdminName
	case Staff:
		return StaffName
	default:
		return ""
	}
}

// Set is a bitmask of the roles held by one account. Membership checks are
// independent: holding Admin does not grant Staff.
type Set uint8

// Parse builds a Set from stored group names. Unknown names are ignored.
func Parse(names []string) Set {
	var s Set
	for _, name := range names {
		switch name {
		case StaffName:
			s |= Set(Staff)
		case AdminName:
			s |= Set(Admin)
		}
	}
	return s
}

// Names returns the stored group names for the set, admin first.
func (s Set) Names() []string {
	names := make([]string, 0, 2)
	if s.Has(Admin) {
		names = append(names, AdminName)
	}
	if s.Has(Staff) {
		names = append(names, StaffName)
	}
	return names
}

func (s Set) Has(r Role) bool {
	return uint8(s)&uint8(r) != 0
}

// Primary resolves the routing priority: Admin wins over Staff, Staff wins
// over an empty set. This is the only place the tie-break lives.
func (s Set) Primary() Role {
	if s.Has(Admin) {
		return Admin
	}
	if s.Has(Staff) {
		return Staff
	}
	return None
}

// DashboardPath is the landing page for the set's primary role.
func (s Set) DashboardPath() string {
	switch s.Primary() {
	case Admin:
		return "/dashboard/admin"
	case Staff:
		return "/dashboard/staff"
	default:
		return "/"
	}
}
