package lms

import "github.com/go-playground/validator/v10"

// OrderRequest creates a payment order with the gateway via the backend.
type OrderRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"required"`
	Receipt  string  `json:"receipt"`
}

func (or *OrderRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(or)
}

// Order is the gateway order the backend created.
type Order struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt,omitempty"`
	Status   string  `json:"status,omitempty"`
}

// PaymentResult is the callback payload of a completed checkout.
type PaymentResult struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}
