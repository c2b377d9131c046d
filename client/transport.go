package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/edulearn/academy-go/core/session"
)

// ErrSessionExpired is returned when a request is short-circuited because the
// stored token is past its ceiling. The request never leaves the process.
var ErrSessionExpired = errors.New("session expired")

// auth endpoints must proceed without a prior session
var authPaths = []string{
	"/api/users/login",
	"/api/users/register",
}

func isAuthPath(path string) bool {
	for _, p := range authPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// authTransport runs before dispatch of every outgoing request: it enforces
// the expiry policy and attaches the bearer credential.
type authTransport struct {
	base      http.RoundTripper
	sess      *session.Manager
	onExpired func(reason string)
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isAuthPath(req.URL.Path) {
		return t.base.RoundTrip(req)
	}
	if !t.sess.Active() {
		// not logged in; the backend will answer 401 where it cares
		return t.base.RoundTrip(req)
	}
	// Expired also lazily backfills a missing issuance timestamp.
	if t.sess.Expired() {
		if t.onExpired != nil {
			t.onExpired("expired")
		}
		return nil, ErrSessionExpired
	}

	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.sess.Token())
	return t.base.RoundTrip(req)
}

// observeTransport runs after every response or transport failure: a 401
// tears the session down, an unanswered request records the connectivity
// signal, and a successful authenticated call clears it.
type observeTransport struct {
	base      http.RoundTripper
	sess      *session.Manager
	network   *NetworkStatus
	onExpired func(reason string)
}

func (t *observeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		// no response at all; a caller-side cancel is not a connectivity
		// problem
		if !errors.Is(err, context.Canceled) {
			t.network.Set(req.URL.Scheme + "://" + req.URL.Host)
		}
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !isAuthPath(req.URL.Path) {
		if t.onExpired != nil {
			t.onExpired("unauthorized")
		}
		return resp, nil
	}
	if resp.StatusCode < http.StatusBadRequest && req.Header.Get("Authorization") != "" {
		t.network.Clear()
	}
	return resp, nil
}
