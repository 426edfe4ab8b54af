package authz

import (
	"fmt"
	"strings"
)

// Role is a closed set. Anything outside it is a validation error,
// never a silent default.
type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleProjectManager Role = "ProjectManager"
	RoleTeamMember     Role = "TeamMember"
)

func ParseRole(s string) (Role, error) {
	switch strings.TrimSpace(s) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleProjectManager):
		return RoleProjectManager, nil
	case string(RoleTeamMember):
		return RoleTeamMember, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleProjectManager || r == RoleTeamMember
}

func (r Role) String() string { return string(r) }

func IsElevated(r Role) bool {
	return r == RoleAdmin || r == RoleProjectManager
}
