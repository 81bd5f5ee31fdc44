package order

import (
	"context"
	"fmt"
	nmail "net/mail"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kisfalusipince/wine-shop-backend/internal/mail"
	"github.com/kisfalusipince/wine-shop-backend/internal/payment"
)

// Service owns the order state machine: which status an order starts in, how
// the payment callback and the admin override move it, and which emails and
// gateway calls accompany each transition.
type Service struct {
	repo        Repository
	gateway     payment.Gateway
	mailer      mail.Sender
	frontendURL string
	logger      *zap.Logger
}

func NewService(repo Repository, gateway payment.Gateway, mailer mail.Sender, frontendURL string, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		gateway:     gateway,
		mailer:      mailer,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// SubmitRequest is the checkout payload as assembled by the storefront.
type SubmitRequest struct {
	Customer      Customer `json:"customer"`
	Items         []Item   `json:"items"`
	Total         float64  `json:"total"`
	ShippingFee   float64  `json:"shippingFee"`
	TotalPrice    float64  `json:"totalPrice"`
	PaymentMethod string   `json:"paymentMethod"`
}

// SubmitResult tells the storefront what to do next: show the confirmation
// (action success) or send the customer to the payment provider (action
// redirect).
type SubmitResult struct {
	OrderID     int
	Action      string
	RedirectURL string
}

const (
	ActionSuccess  = "success"
	ActionRedirect = "redirect"
)

// Submit validates and persists a checkout submission. Transfer orders start
// waiting for payment and get a gateway redirect; every other method starts
// processing and triggers the notification emails before returning, so the
// storefront knows a confirmation was sent.
func (s *Service) Submit(ctx context.Context, customerID int, req SubmitRequest) (SubmitResult, error) {
	if err := validateSubmit(req); err != nil {
		return SubmitResult{}, err
	}

	ord := Order{
		CustomerID:    customerID,
		Customer:      req.Customer,
		Items:         req.Items,
		Total:         req.Total,
		ShippingFee:   req.ShippingFee,
		TotalPrice:    req.TotalPrice,
		PaymentMethod: req.PaymentMethod,
		Status:        initialStatus(req.PaymentMethod),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	created, err := s.repo.Create(ord)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("persist order: %w", err)
	}

	if created.PaymentMethod != PaymentMethodTransfer {
		s.sendOrderEmails(created, "Új rendelés ("+created.PaymentMethod+")", "Rendelés visszaigazolása")
		return SubmitResult{OrderID: created.OrderID, Action: ActionSuccess}, nil
	}

	orderRef := strconv.Itoa(created.OrderID)
	returnURL := s.redirectURL("/success", orderRef, "")
	cancelURL := s.redirectURL("/cancel", orderRef, "")

	approvalURL, err := s.gateway.CreateRedirect(ctx, orderRef, created.TotalPrice, returnURL, cancelURL)
	if err != nil {
		// The order is already persisted in pending state; the owner is told
		// so the payment can be sorted out manually.
		if mailErr := s.mailer.NotifyOwner(summarize(created), "PayPal kezdeményezés sikertelen"); mailErr != nil {
			s.logger.Error("owner notification failed", zap.Int("orderID", created.OrderID), zap.Error(mailErr))
		}
		return SubmitResult{OrderID: created.OrderID}, &PaymentInitError{OrderID: created.OrderID, Err: err}
	}

	return SubmitResult{OrderID: created.OrderID, Action: ActionRedirect, RedirectURL: approvalURL}, nil
}

// CompletePayment finishes a gateway-initiated payment and returns the URL the
// customer's browser must be redirected to. It never returns an error: every
// failure maps to the cancel page.
func (s *Service) CompletePayment(ctx context.Context, paymentID, payerID string, orderID int) string {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		if err != ErrNotFound {
			s.logger.Error("order lookup failed during payment completion", zap.Int("orderID", orderID), zap.Error(err))
		}
		return s.redirectURL("/cancel", "", "A rendelés nem található.")
	}

	details, err := s.gateway.Execute(ctx, paymentID, payerID, ord.TotalPrice)
	if err != nil {
		if updErr := s.repo.AttachPaymentResult(orderID, StatusPaymentFailed, details); updErr != nil {
			s.logger.Error("could not record failed payment", zap.Int("orderID", orderID), zap.Error(updErr))
		}
		return s.redirectURL("/cancel", strconv.Itoa(orderID), "Fizetési hiba.")
	}

	if updErr := s.repo.AttachPaymentResult(orderID, StatusPaid, details); updErr != nil {
		s.logger.Error("could not record successful payment", zap.Int("orderID", orderID), zap.Error(updErr))
	}

	s.sendOrderEmails(ord, "Sikeres PayPal fizetés!", "Rendelés visszaigazolása (Fizetve)")

	return s.redirectURL("/success", strconv.Itoa(orderID), "")
}

// SetStatus is the admin override: any status from the enumerated set, any
// time, no emails. Role checking happens at the route boundary.
func (s *Service) SetStatus(orderID int, status string) (Order, error) {
	if !ValidStatus(status) {
		return Order{}, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(orderID, status)
}

// ListAdmin returns the operational view: every order not yet fulfilled,
// newest first.
func (s *Service) ListAdmin() ([]Order, error) {
	return s.repo.ListOpen()
}

// ListByUser returns the caller's own orders, fulfilled ones included,
// newest first.
func (s *Service) ListByUser(customerID int) ([]Order, error) {
	return s.repo.ListByCustomer(customerID)
}

func initialStatus(paymentMethod string) string {
	if paymentMethod == PaymentMethodTransfer {
		return StatusPendingPayment
	}
	return StatusProcessing
}

func validateSubmit(req SubmitRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	if _, err := nmail.ParseAddress(req.Customer.Email); err != nil {
		return ErrInvalidEmail
	}
	if req.PaymentMethod != PaymentMethodPickup {
		c := req.Customer
		if c.Name == "" || c.Phone == "" || c.City == "" || c.Address == "" || c.Zip == "" {
			return ErrMissingShipping
		}
	}

	var itemsTotal float64
	for _, item := range req.Items {
		itemsTotal += item.Price * float64(item.Qty)
	}
	if itemsTotal != req.Total || req.Total+req.ShippingFee != req.TotalPrice {
		return ErrTotalMismatch
	}

	return nil
}

// sendOrderEmails notifies the owner and confirms to the customer. Failures
// are logged and swallowed so an email outage never blocks checkout.
func (s *Service) sendOrderEmails(ord Order, ownerSubjectPrefix, customerSubject string) {
	summary := summarize(ord)

	if err := s.mailer.NotifyOwner(summary, ownerSubjectPrefix); err != nil {
		s.logger.Error("owner notification failed", zap.Int("orderID", ord.OrderID), zap.Error(err))
	}
	if err := s.mailer.ConfirmCustomer(summary, customerSubject); err != nil {
		s.logger.Error("customer confirmation failed",
			zap.Int("orderID", ord.OrderID),
			zap.String("email", ord.Customer.Email),
			zap.Error(err))
	}
}

func summarize(ord Order) mail.OrderSummary {
	lines := make([]mail.Line, 0, len(ord.Items))
	for _, item := range ord.Items {
		lines = append(lines, mail.Line{Name: item.Name, Price: item.Price, Qty: item.Qty})
	}
	return mail.OrderSummary{
		CustomerName:  ord.Customer.Name,
		CustomerEmail: ord.Customer.Email,
		Items:         lines,
		Total:         ord.Total,
		ShippingFee:   ord.ShippingFee,
		TotalPrice:    ord.TotalPrice,
	}
}

func (s *Service) redirectURL(page, orderID, message string) string {
	q := url.Values{}
	if orderID != "" {
		q.Set("orderId", orderID)
	}
	if message != "" {
		q.Set("message", message)
	}
	target := s.frontendURL + page
	if encoded := q.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}
