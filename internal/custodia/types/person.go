package types

import (
	"fmt"
	"time"
)

// Role is the fixed set of personnel roles. Every identity-gated flow
// checks eligibility through Role.In rather than comparing raw strings.
type Role string

const (
	RoleDriver          Role = "driver"
	RoleSecurityControl Role = "security_control"
	RoleSecurityGate    Role = "security_gate"
	RoleCEO             Role = "ceo"
	RoleStaff           Role = "staff"
	RoleSupervisor      Role = "supervisor"
	RoleAdmin           Role = "admin"
)

// OfficerRoles are the roles permitted to issue and receive custody
// transactions and to log in at a guard terminal.
var OfficerRoles = []Role{RoleSecurityControl, RoleSecurityGate, RoleSupervisor, RoleAdmin}

// AdminRoles may force-close stuck transactions and edit master data.
var AdminRoles = []Role{RoleSupervisor, RoleAdmin}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDriver, RoleSecurityControl, RoleSecurityGate, RoleCEO, RoleStaff, RoleSupervisor, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// In reports whether r is one of the given roles. An empty set means
// "no restriction".
func (r Role) In(roles []Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, cand := range roles {
		if r == cand {
			return true
		}
	}
	return false
}

// Person is an employee or registered driver. Deactivation flips Active;
// rows are never deleted so closed transactions keep valid references.
type Person struct {
	ID          string    `json:"id"`
	BadgeToken  string    `json:"badge_token"` // canonical identifier token
	PIN         string    `json:"-"`           // 4-digit credential, never serialized
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	Department  string    `json:"department,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
