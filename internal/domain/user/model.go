package user

import "time"

// Roles stored in the off-chain index, mirroring the on-chain agent types.
const (
	RolePatient  = "PAT"
	RoleProvider = "PRO"
)

// User maps a wallet address to a role. Relationship and record rows
// reference users through the surrogate id.
type User struct {
	ID        int64     `json:"id"`
	Wallet    string    `json:"wallet"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the accepted values.
func ValidRole(role string) bool {
	return role == RolePatient || role == RoleProvider
}
