// Package payment wraps the third-party payment provider behind a narrow
// gateway interface so the order flow stays provider-agnostic.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/plutov/paypal/v4"
	"go.uber.org/zap"
)

// Gateway initiates a redirect-based payment and executes it after the payer
// approved it on the provider's site.
type Gateway interface {
	// CreateRedirect registers the payment with the provider and returns the
	// URL the customer must be sent to for approval.
	CreateRedirect(ctx context.Context, orderRef string, total float64, returnURL, cancelURL string) (string, error)
	// Execute captures an approved payment and returns the provider's raw
	// transaction details for persisting on the order.
	Execute(ctx context.Context, paymentID, payerID string, total float64) (json.RawMessage, error)
}

const currency = "HUF"

type PayPalGateway struct {
	client *paypal.Client
	logger *zap.Logger
}

// NewPayPalGateway builds a client against the sandbox or live API base
// depending on mode.
func NewPayPalGateway(mode, clientID, secret string, logger *zap.Logger) (*PayPalGateway, error) {
	base := paypal.APIBaseSandBox
	if mode == "live" {
		base = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, err
	}

	return &PayPalGateway{client: client, logger: logger}, nil
}

func (g *PayPalGateway) CreateRedirect(ctx context.Context, orderRef string, total float64, returnURL, cancelURL string) (string, error) {
	units := []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: currency,
				Value:    fmt.Sprintf("%.2f", total),
			},
			Description: "Webshop rendelés: " + orderRef,
		},
	}

	order, err := g.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, &paypal.ApplicationContext{
		ReturnURL: returnURL,
		CancelURL: cancelURL,
	})
	if err != nil {
		g.logger.Error("paypal create order failed", zap.String("orderRef", orderRef), zap.Error(err))
		return "", err
	}

	for _, link := range order.Links {
		if link.Rel == "approve" {
			return link.Href, nil
		}
	}

	return "", errors.New("paypal: no approval link in response")
}

func (g *PayPalGateway) Execute(ctx context.Context, paymentID, payerID string, total float64) (json.RawMessage, error) {
	capture, err := g.client.CaptureOrder(ctx, paymentID, paypal.CaptureOrderRequest{})
	if err != nil {
		g.logger.Error("paypal capture failed",
			zap.String("paymentId", paymentID),
			zap.String("payerId", payerID),
			zap.Error(err))
		return nil, err
	}

	details, err := json.Marshal(capture)
	if err != nil {
		return nil, err
	}
	return details, nil
}
