package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/edulearn/academy-go/core/lms"
)

// UserService exposes user administration endpoints. Listing and role changes
// are admin-only on the backend; the client just forwards the token.
type UserService struct {
	c *Client
}

func (s *UserService) List(ctx context.Context) ([]lms.User, error) {
	var users []lms.User
	err := s.c.getJSON(ctx, "/api/users", &users)
	return users, err
}

func (s *UserService) Get(ctx context.Context, id int) (lms.User, error) {
	var usr lms.User
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/users/%d", id), &usr)
	return usr, err
}

func (s *UserService) Update(ctx context.Context, id int, data lms.UpdateUser) (lms.User, error) {
	var usr lms.User
	if err := data.Validate(s.c.validate); err != nil {
		return usr, err
	}
	err := s.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), data, &usr)
	return usr, err
}

// UpdateStatus activates or deactivates an account.
func (s *UserService) UpdateStatus(ctx context.Context, id int, status string) (lms.User, error) {
	var usr lms.User
	err := s.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d/status", id), lms.StatusUpdate{Status: status}, &usr)
	return usr, err
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("/api/users/%d", id))
}

// Instructors filters the full user list down to the instructor role. The
// backend has no dedicated endpoint for this.
func (s *UserService) Instructors(ctx context.Context) ([]lms.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := users[:0]
	for _, u := range users {
		if u.Role == lms.RoleInstructor {
			out = append(out, u)
		}
	}
	return out, nil
}
