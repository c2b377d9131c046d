// Package client implements the EduLearn API client: the HTTP pipeline with
// its session-enforcing interceptors, the retry and network-status helpers,
// and the resource facades (users, courses, categories, videos, enrollments,
// reports, payments).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edulearn/academy-go/core"
	"github.com/edulearn/academy-go/core/session"
	logsvc "github.com/edulearn/academy-go/services/logger"
	"github.com/edulearn/academy-go/storage/kv"
)

type Client struct {
	conf       *core.Config
	httpc      *http.Client
	store      kv.Store
	sess       *session.Manager
	logger     core.Logger
	network    *NetworkStatus
	validate   *validator.Validate
	translator ut.Translator
	checkout   Checkout
	onExpired  func(reason string)

	// base transport underneath the interceptor chain, settable for tests
	baseTransport http.RoundTripper

	Auth        *AuthService
	Users       *UserService
	Courses     *CourseService
	Categories  *CategoryService
	Videos      *VideoService
	Enrollments *EnrollmentService
	Reports     *ReportService
	Payments    *PaymentService
}

// Option configures a Client.
type Option func(*Client) error

// WithStore supplies the client-state store (session persistence).
func WithStore(store kv.Store) Option {
	return func(c *Client) error {
		c.store = store
		return nil
	}
}

func WithLogger(logger core.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithCheckout injects the payment checkout capability.
func WithCheckout(checkout Checkout) Option {
	return func(c *Client) error {
		c.checkout = checkout
		return nil
	}
}

// WithSessionExpiredHandler registers the hook invoked whenever the session
// is torn down by the pipeline (token past its ceiling, or a 401 from the
// backend). UIs navigate to their login view here.
func WithSessionExpiredHandler(fn func(reason string)) Option {
	return func(c *Client) error {
		c.onExpired = fn
		return nil
	}
}

// WithTransport replaces the underlying transport beneath the interceptors.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		c.baseTransport = rt
		return nil
	}
}

func New(conf *core.Config, opts ...Option) (*Client, error) {
	c := &Client{
		conf:    conf,
		network: newNetworkStatus(conf.NetworkErrorWindow),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.store == nil {
		store, err := kv.Open(conf.StorePath)
		if err != nil {
			return nil, errors.Wrap(err, "opening client-state store")
		}
		c.store = store
	}
	if c.logger == nil {
		if conf.RollbarToken != "" && !conf.Debug {
			c.logger = logsvc.NewRollbarLogger(log.New(os.Stdout, "API : ", log.LstdFlags), conf)
		} else {
			c.logger = logsvc.NewZerologLogger(conf, nil)
		}
	}

	c.sess = session.NewManager(c.store, conf.TokenExpiry)

	_en := en.New()
	uni := ut.New(_en, _en)
	c.translator, _ = uni.GetTranslator("en")
	c.validate = validator.New()
	core.InitValidators(c.validate, c.translator)

	base := c.baseTransport
	if base == nil {
		base = http.DefaultTransport
	}
	c.httpc = &http.Client{
		Timeout: conf.RequestTimeout,
		Transport: &authTransport{
			base: &observeTransport{
				base:      base,
				sess:      c.sess,
				network:   c.network,
				onExpired: c.expired,
			},
			sess:      c.sess,
			onExpired: c.expired,
		},
	}

	c.Auth = &AuthService{c: c}
	c.Users = &UserService{c: c}
	c.Courses = &CourseService{c: c}
	c.Categories = &CategoryService{c: c}
	c.Videos = &VideoService{c: c}
	c.Enrollments = &EnrollmentService{c: c}
	c.Reports = &ReportService{c: c}
	c.Payments = &PaymentService{c: c}
	return c, nil
}

// Session exposes the session manager (read-only use expected).
func (c *Client) Session() *session.Manager { return c.sess }

// Network exposes the connectivity signal for banner consumers.
func (c *Client) Network() *NetworkStatus { return c.network }

// Bootstrap enforces the expiry policy once at startup and reports whether a
// usable session remains. The same single ceiling the interceptor uses
// applies here; there is deliberately no second, stricter bootstrap
// threshold.
func (c *Client) Bootstrap() bool {
	if !c.sess.Active() {
		return false
	}
	if c.sess.Expired() {
		c.expired("expired")
		return false
	}
	return true
}

func (c *Client) Close() error { return c.store.Close() }

// expired tears the session down and notifies the registered handler.
// Safe to call repeatedly.
func (c *Client) expired(reason string) {
	c.sess.Clear()
	if c.onExpired != nil {
		c.onExpired(reason)
	}
}

// Request plumbing

func (c *Client) url(path string) string { return c.conf.BaseURL + path }

// do dispatches one request through the interceptor chain and decodes the
// JSON response into out (when non-nil). Error statuses come back as
// *APIError; transport failures are wrapped as-is.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return errors.Wrapf(err, "building %s %s", method, path)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return ErrSessionExpired
		}
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading %s %s response", method, path)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(method, path, resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrapf(err, "decoding %s %s response", method, path)
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encoding %s %s payload", method, path)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, "application/json", body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

// download streams a binary response (report blobs) into w.
func (c *Client) download(ctx context.Context, method, path string, in interface{}, w io.Writer) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encoding %s %s payload", method, path)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return errors.Wrapf(err, "building %s %s", method, path)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return ErrSessionExpired
		}
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return newAPIError(method, path, resp.StatusCode, data)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return errors.Wrapf(err, "streaming %s %s response", method, path)
	}
	return nil
}
