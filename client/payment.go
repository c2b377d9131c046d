package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/edulearn/academy-go/core/lms"
)

// Checkout is the payment-capture step of a purchase. Implementations open
// the gateway's checkout flow (or simulate it in tests) and return the
// gateway's signed result.
type Checkout interface {
	Open(ctx context.Context, opts CheckoutOptions) (lms.PaymentResult, error)
}

// CheckoutOptions parameterize one checkout session.
type CheckoutOptions struct {
	Key         string
	Amount      float64
	Currency    string
	Name        string
	Description string
	OrderID     string
	Prefill     CheckoutPrefill
}

type CheckoutPrefill struct {
	Name    string
	Email   string
	Contact string
}

// CheckoutError is a failure reported by the gateway itself, as opposed to a
// transport or backend failure.
type CheckoutError struct {
	Code        string
	Description string
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout failed: %s (%s)", e.Description, e.Code)
}

// ErrNoCheckout is returned when a purchase is attempted on a client built
// without a Checkout implementation.
var ErrNoCheckout = errors.New("no checkout configured")

// PaymentService drives the order/checkout/verify purchase pipeline.
type PaymentService struct {
	c *Client
}

// CreateOrder asks the backend for a gateway order. Newer backends mount the
// endpoint under /api; older ones at the root, so a 404 retries the legacy
// path once.
func (s *PaymentService) CreateOrder(ctx context.Context, req lms.OrderRequest) (lms.Order, error) {
	var order lms.Order
	if err := req.Validate(s.c.validate); err != nil {
		return order, err
	}
	err := s.c.sendJSON(ctx, http.MethodPost, "/api/create-order", req, &order)
	if isNotFound(err) {
		err = s.c.sendJSON(ctx, http.MethodPost, "/create-order", req, &order)
	}
	return order, err
}

// Verify submits the gateway's signed result for server-side signature
// verification. Same legacy-path fallback as CreateOrder.
func (s *PaymentService) Verify(ctx context.Context, result lms.PaymentResult) error {
	err := s.c.sendJSON(ctx, http.MethodPost, "/api/verify-payment", result, nil)
	if isNotFound(err) {
		err = s.c.sendJSON(ctx, http.MethodPost, "/verify-payment", result, nil)
	}
	return err
}

// PurchaseCourse runs the whole pipeline for one course: create the order,
// open checkout, verify the signature, then enroll the buyer. A payment that
// verified but failed to enroll is not rolled back; the mismatch is logged
// and the enrollment retried by support tooling, so the buyer is not charged
// twice.
func (s *PaymentService) PurchaseCourse(ctx context.Context, course lms.Course) (lms.Enrollment, error) {
	var enr lms.Enrollment
	if s.c.checkout == nil {
		return enr, ErrNoCheckout
	}
	sess := s.c.sess.Load()

	order, err := s.CreateOrder(ctx, lms.OrderRequest{
		Amount:   course.Price,
		Currency: "INR",
		Receipt:  fmt.Sprintf("course_%d_user_%d", course.ID, sess.UserID),
	})
	if err != nil {
		return enr, errors.Wrap(err, "creating payment order")
	}

	result, err := s.c.checkout.Open(ctx, CheckoutOptions{
		Key:         s.c.conf.RazorpayKey,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Name:        s.c.conf.AppName,
		Description: course.Title,
		OrderID:     order.ID,
		Prefill:     CheckoutPrefill{Name: sess.Name},
	})
	if err != nil {
		return enr, err
	}

	if err := s.Verify(ctx, result); err != nil {
		return enr, errors.Wrap(err, "verifying payment")
	}

	enr, err = s.c.Enrollments.Create(ctx, lms.NewEnrollment{
		UserID:    sess.UserID,
		CourseID:  course.ID,
		PaymentID: result.PaymentID,
	})
	if err != nil {
		s.c.logger.Warn(
			fmt.Sprintf("payment %s verified but enrollment failed for course %d user %d", result.PaymentID, course.ID, sess.UserID),
			err,
		)
		return enr, nil
	}
	return enr, nil
}

// CheckoutMessage maps a checkout failure onto the message shown to the
// buyer. The gateway's Indian-numbers-only restriction produces a gateway
// error mentioning the phone number, which gets its own actionable wording.
func CheckoutMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *CheckoutError
	if errors.As(err, &ce) {
		desc := strings.ToLower(ce.Description)
		if strings.Contains(desc, "phone") || strings.Contains(desc, "international") || strings.Contains(desc, "number") {
			return "Payment failed: This merchant only accepts Indian phone numbers. " +
				"Please use an Indian phone number (10 digits starting with 6-9)."
		}
		if ce.Description != "" {
			return "Payment failed: " + ce.Description
		}
		return "Payment failed. Please try again."
	}
	return HumanMessage(err)
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
