package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of user roles known to the system.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleHOD     Role = "hod"
	RoleAdmin   Role = "admin"
)

// AllRoles lists every valid role in display order.
var AllRoles = []Role{RoleStudent, RoleFaculty, RoleHOD, RoleAdmin}

// ParseRole converts a raw string into a Role. Unknown values are rejected.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleHOD, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
