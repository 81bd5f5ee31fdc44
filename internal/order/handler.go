package order

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kisfalusipince/wine-shop-backend/internal/monitoring"
	"github.com/kisfalusipince/wine-shop-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registers the payment-provider callback. The provider
// redirects the customer's browser here without a session token.
func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/paypal/execute", h.executePayment)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Post("/api/order", h.submitOrder)
	app.Get("/api/user/orders", h.getMyOrders)
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/orders", h.adminListOrders)
	r.Put("/orders/:id/status", h.adminSetStatus)
}

func (h *Handler) submitOrder(c *fiber.Ctx) error {
	success := false
	defer func() { monitoring.RecordOrderOperation("submit", success) }()

	customerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Bejelentkezés szükséges."})
	}

	payload := new(SubmitRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	result, err := h.service.Submit(c.Context(), customerID, *payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidEmail),
			errors.Is(err, ErrMissingShipping), errors.Is(err, ErrTotalMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			var initErr *PaymentInitError
			if errors.As(err, &initErr) {
				// The order exists; the client must not assume it was lost.
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Hiba a PayPal fizetés kezdeményezésekor.",
					"orderId": initErr.OrderID,
					"error":   initErr.Err.Error(),
				})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Szerverhiba: Az adatbázis nem elérhető."})
		}
	}

	success = true
	if result.Action == ActionRedirect {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message":     "Rendelés mentve, átirányítás PayPal-ra.",
			"action":      ActionRedirect,
			"redirectUrl": result.RedirectURL,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Rendelés mentve, visszaigazoló email elküldve.",
		"action":  ActionSuccess,
		"orderId": result.OrderID,
	})
}

func (h *Handler) executePayment(c *fiber.Ctx) error {
	success := false
	defer func() { monitoring.RecordOrderOperation("complete_payment", success) }()

	paymentID := c.Query("paymentId")
	payerID := c.Query("PayerID")
	rawOrderID := c.Query("orderId")

	if paymentID == "" || payerID == "" || rawOrderID == "" {
		return c.Redirect(h.service.redirectURL("/cancel", "", "Hiányzó adatok."))
	}
	orderID, err := strconv.Atoi(rawOrderID)
	if err != nil {
		return c.Redirect(h.service.redirectURL("/cancel", "", "Hiányzó adatok."))
	}

	target := h.service.CompletePayment(c.Context(), paymentID, payerID, orderID)
	success = true
	return c.Redirect(target)
}

func (h *Handler) getMyOrders(c *fiber.Ctx) error {
	customerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Bejelentkezés szükséges."})
	}

	orders, err := h.service.ListByUser(customerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Nem lehet lekérni a rendeléseket!"})
	}

	if len(orders) == 0 {
		return c.JSON(fiber.Map{"message": "Még nincsenek leadott rendeléseid.", "orders": []Order{}})
	}

	return c.JSON(orders)
}

func (h *Handler) adminListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAdmin()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Nem lehet lekérni a rendeléseket!"})
	}
	return c.JSON(orders)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) adminSetStatus(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payload := new(statusUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.SetStatus(orderID, payload.Status)
	if err != nil {
		switch err {
		case ErrInvalidStatus:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "A rendelés nem található."})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Státusz frissítése hiba."})
		}
	}

	return c.JSON(updated)
}
