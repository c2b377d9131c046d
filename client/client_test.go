package client

import (
	"testing"
	"time"

	"github.com/edulearn/academy-go/core"
	"github.com/edulearn/academy-go/core/session"
	"github.com/edulearn/academy-go/lmstest"
	"github.com/edulearn/academy-go/storage/kv"
)

// nopLogger discards everything; tests that assert on log output swap in
// their own.
type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// recordLogger captures Warn calls for assertions.
type recordLogger struct {
	nopLogger
	warnings []string
}

func (l *recordLogger) Warn(msg string, _ ...interface{}) { l.warnings = append(l.warnings, msg) }

func testConfig(baseURL string) *core.Config {
	return &core.Config{
		Env:                "TEST",
		AppName:            "EduLearn",
		Debug:              true,
		BaseURL:            baseURL,
		RequestTimeout:     5 * time.Second,
		TokenExpiry:        24 * time.Hour,
		NetworkErrorWindow: 30 * time.Second,
		RetryMaxAttempts:   3,
		RetryInitialDelay:  time.Millisecond,
		PollInterval:       30 * time.Second,
	}
}

// setup builds a client against a fake backend with a logged-in session.
func setup(t *testing.T, opts lmstest.Options, clientOpts ...Option) (*Client, *lmstest.Server) {
	t.Helper()
	srv := lmstest.NewServer(opts)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { session.NowFunc = time.Now })

	clientOpts = append([]Option{WithStore(kv.NewMemoryStore()), WithLogger(nopLogger{})}, clientOpts...)
	c, err := New(testConfig(srv.URL), clientOpts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := c.sess.Save(session.Session{
		Token:    srv.Token(),
		IssuedAt: time.Now(),
		UserID:   1,
		Name:     "Admin",
		Role:     "ADMIN",
	}); err != nil {
		t.Fatalf("seeding session failed: %v", err)
	}
	return c, srv
}
