package models

import "strings"

const (
	RoleEmployee   = "employee"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// NormalizeRole maps unknown or empty roles to RoleEmployee
func NormalizeRole(role string) string {
	switch r := strings.ToLower(strings.TrimSpace(role)); r {
	case RoleAdmin, RoleSuperAdmin:
		return r
	}
	return RoleEmployee
}

// IsPrivileged reports whether role may review other people's work
func IsPrivileged(role string) bool {
	r := NormalizeRole(role)
	return r == RoleAdmin || r == RoleSuperAdmin
}
