package domain

// Staff roles.
const (
	RoleAdministrator = "hospital_administrator"
	RoleSupplyChain   = "supply_chain_officer"
	RolePharmacist    = "pharmacist_nurse"
)

type User struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Role  string `db:"role" json:"role"`
	Email string `db:"email" json:"email,omitempty"`
}

// ValidRole reports whether role is one of the three staff roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdministrator, RoleSupplyChain, RolePharmacist:
		return true
	}
	return false
}

// DefaultStaff is the built-in badge allow-list, used to seed the users
// table and as the login fallback when the database is unreachable.
func DefaultStaff() []User {
	return []User{
		{ID: "ADMIN001", Name: "User ADMIN001", Role: RoleAdministrator, Email: "admin001@hospital.local"},
		{ID: "ADMIN002", Name: "User ADMIN002", Role: RoleAdministrator, Email: "admin002@hospital.local"},
		{ID: "ADMIN003", Name: "User ADMIN003", Role: RoleAdministrator, Email: "admin003@hospital.local"},
		{ID: "SUPPLY001", Name: "User SUPPLY001", Role: RoleSupplyChain, Email: "supply001@hospital.local"},
		{ID: "SUPPLY002", Name: "User SUPPLY002", Role: RoleSupplyChain, Email: "supply002@hospital.local"},
		{ID: "SUPPLY003", Name: "User SUPPLY003", Role: RoleSupplyChain, Email: "supply003@hospital.local"},
		{ID: "PHARM001", Name: "User PHARM001", Role: RolePharmacist, Email: "pharm001@hospital.local"},
		{ID: "PHARM002", Name: "User PHARM002", Role: RolePharmacist, Email: "pharm002@hospital.local"},
		{ID: "PHARM003", Name: "User PHARM003", Role: RolePharmacist, Email: "pharm003@hospital.local"},
	}
}
