// Package models holds the plain data records shared by the repositories and
// services. Entities reference each other strictly by identifier; relations
// are resolved through repository lookups, never through embedded object
// graphs.
package models

import "time"

// Roles an authenticated actor can carry. Role resolution itself happens in
// the external session layer; services only branch on the value.
const (
	RoleIndividual = "INDIVIDUAL"
	RoleBusiness   = "BUSINESS"
	RoleCA         = "CA"
	RoleAdmin      = "ADMIN"
)

// User is the minimal actor record the trust subsystem needs: identity plus
// primary role. Credential material stays in the external auth component.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// IsTaxpayer reports whether the role may own filings.
func (u *User) IsTaxpayer() bool {
	return u.Role == RoleIndividual || u.Role == RoleBusiness
}
