package user

type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

type Permission uint8

const (
	PermBorrow Permission = 1 << iota
	PermActOnBehalf
	PermManageCatalog
	PermManageUsers
	PermViewStatistics
)

type roleInfo struct {
	description string
	rank        int
	permissions Permission
}

// roleTable is the closed set of roles; a Role missing here is invalid.
var roleTable = map[Role]roleInfo{
	RoleMember: {
		description: "Library member who borrows for themselves",
		rank:        1,
		permissions: PermBorrow,
	},
	RoleLibrarian: {
		description: "Staff member who lends on behalf of members and curates the catalog",
		rank:        2,
		permissions: PermBorrow | PermActOnBehalf | PermManageCatalog | PermViewStatistics,
	},
	RoleAdmin: {
		description: "Administrator with full access",
		rank:        3,
		permissions: PermBorrow | PermActOnBehalf | PermManageCatalog | PermManageUsers | PermViewStatistics,
	},
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := roleTable[r]
	return ok
}

func (r Role) Description() string {
	return roleTable[r].description
}

func (r Role) Can(p Permission) bool {
	info, ok := roleTable[r]
	return ok && info.permissions&p == p
}

// AtLeast compares role ranks; unknown roles never satisfy a minimum.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleTable[r]
	want, wantOK := roleTable[min]
	return ok && wantOK && have.rank >= want.rank
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
