package auth

import "strings"

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

var roleAliases = map[string]string{
	"employee":        RoleEmployee,
	"manager":         RoleManager,
	"hr":              RoleHR,
	"human_resources": RoleHR,
	"admin":           RoleAdmin,
	"administrator":   RoleAdmin,
}

// NormalizeRole maps stored role spellings onto the canonical set. Unknown
// roles normalize to the empty string and fail every check downstream.
func NormalizeRole(role string) string {
	return roleAliases[strings.ToLower(strings.TrimSpace(role))]
}

type UserContext struct {
	UserID     string
	EmployeeID string
	Role       string
}

// HasRole reports whether the user satisfies the required role. Admin
// satisfies every role check.
func (u UserContext) HasRole(role string) bool {
	return u.Role == RoleAdmin || u.Role == role
}
