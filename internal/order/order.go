package order

import (
	"encoding/json"
	"errors"
)

// Order statuses. The storefront and the admin panel display these values
// verbatim, so they are part of the API contract.
const (
	StatusPendingPayment = "Várakozás fizetésre"
	StatusProcessing     = "Rendelés feldolgozás alatt"
	StatusPaid           = "Fizetve"
	StatusPaymentFailed  = "Fizetés sikertelen"
	StatusFulfilled      = "Teljesítve"
	StatusCancelled      = "Sztornózva"
)

// Payment methods accepted at checkout. Only transfer is pre-paid through the
// payment gateway; everything else settles outside the shop.
const (
	PaymentMethodTransfer = "transfer"
	PaymentMethodCard     = "card"
	PaymentMethodCash     = "cash"
	PaymentMethodPickup   = "pickup"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrEmptyCart       = errors.New("cart cannot be empty")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrMissingShipping = errors.New("missing shipping fields")
	ErrTotalMismatch   = errors.New("totals do not match cart contents")
	ErrInvalidStatus   = errors.New("unknown order status")
)

// PaymentInitError reports that the order was persisted but the gateway
// rejected the payment initiation. Callers must not treat the order as lost.
type PaymentInitError struct {
	OrderID int
	Err     error
}

func (e *PaymentInitError) Error() string {
	return "payment initiation failed: " + e.Err.Error()
}

func (e *PaymentInitError) Unwrap() error {
	return e.Err
}

// Customer is the contact and shipping snapshot embedded in an order.
// Profile edits after submission never change it.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Address string `json:"address"`
	Zip     string `json:"zip"`
}

// Item is a line item with name and unit price frozen at order time.
type Item struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

type Order struct {
	OrderID        int             `json:"orderID"`
	CustomerID     int             `json:"customerId"`
	Customer       Customer        `json:"customer"`
	Items          []Item          `json:"items"`
	Total          float64         `json:"total"`
	ShippingFee    float64         `json:"shippingFee"`
	TotalPrice     float64         `json:"totalPrice"`
	PaymentMethod  string          `json:"paymentMethod"`
	Status         string          `json:"status"`
	PaymentDetails json.RawMessage `json:"paymentDetails,omitempty"`
	CreatedAt      string          `json:"createdAt"`
}

// ValidStatus reports whether s is one of the enumerated order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendingPayment, StatusProcessing, StatusPaid, StatusPaymentFailed, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}
