package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/edulearn/academy-go/core"
	"github.com/edulearn/academy-go/core/lms"
	"github.com/edulearn/academy-go/core/session"
)

// AuthService drives the session lifecycle: login, register, logout.
type AuthService struct {
	c *Client
}

// Login authenticates against the backend and, on success, persists the full
// Session (token, identity, issuance time). The login endpoint itself is
// exempt from token handling.
func (s *AuthService) Login(ctx context.Context, creds lms.Credentials) (lms.AuthResponse, error) {
	var out lms.AuthResponse
	if err := creds.Validate(s.c.validate); err != nil {
		return out, err
	}
	if err := s.c.sendJSON(ctx, http.MethodPost, "/api/users/login", creds, &out); err != nil {
		return out, err
	}
	if out.Login != "success" {
		return out, core.NewValidationError(errors.New("invalid credentials"))
	}
	sess := session.Session{
		Token:    out.Token,
		IssuedAt: session.NowFunc(),
		UserID:   out.UserID,
		Name:     out.Name,
		Role:     out.Role,
	}
	if err := s.c.sess.Save(sess); err != nil {
		return out, errors.Wrap(err, "persisting session")
	}
	return out, nil
}

func (s *AuthService) Register(ctx context.Context, data lms.NewUser) (lms.User, error) {
	var usr lms.User
	if err := data.Validate(s.c.validate); err != nil {
		return usr, err
	}
	err := s.c.sendJSON(ctx, http.MethodPost, "/api/users/register", data, &usr)
	return usr, err
}

// Logout clears every persisted session field. Purely local; the backend
// keeps no server-side session to revoke.
func (s *AuthService) Logout() {
	s.c.sess.Clear()
}
