package session

import (
	"strings"
	"time"
)

// Roles
const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

var AllRoles = []string{RoleStudent, RoleInstructor, RoleAdmin}

func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Session is the client-held record of the current login state: the opaque
// bearer token plus the identity fields returned by the login endpoint.
type Session struct {
	Token    string
	IssuedAt time.Time // zero when the backend never stamped one; self-healed on first check
	UserID   int
	Name     string
	Role     string
}

// Active reports whether a login is in effect. The presence of the token is
// the sole source of truth.
func (s Session) Active() bool { return s.Token != "" }

func (s Session) roleIs(role string) bool {
	return strings.EqualFold(s.Role, role)
}

func (s Session) IsStudent() bool    { return s.roleIs(RoleStudent) }
func (s Session) IsInstructor() bool { return s.roleIs(RoleInstructor) }
func (s Session) IsAdmin() bool      { return s.roleIs(RoleAdmin) }
