// Package lms defines the wire records of the EduLearn REST backend. The
// backend owns all of these; the client never reshapes them, it only decodes
// the server's representation and sends it back whole on updates.
package lms

import (
	"github.com/go-playground/validator/v10"

	"github.com/edulearn/academy-go/core"
)

// User roles (server-owned enum)
const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

// User statuses
const (
	UserActive   = "ACTIVE"
	UserInactive = "INACTIVE"
)

type User struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Status   string   `json:"status,omitempty"`
	JoinDate string   `json:"joinDate,omitempty"`
	Courses  []Course `json:"courses,omitempty"` // populated for instructors on some endpoints
}

// NewUser contains information needed to register or create a User.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,lmsrole"`
	Status   string `json:"status,omitempty"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

// UpdateUser defines what may be modified on an existing User.
type UpdateUser struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Role   string `json:"role,omitempty" validate:"omitempty,lmsrole"`
	Status string `json:"status,omitempty"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	uu.Name = core.CleanString(uu.Name)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	return validate.Struct(uu)
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

// AuthResponse is the login endpoint's response. Login is "success" on a
// valid credential pair; any other marker means the attempt was rejected.
type AuthResponse struct {
	Login  string `json:"login"`
	Token  string `json:"token"`
	UserID int    `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}
