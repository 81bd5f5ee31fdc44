package user

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// tokenValidity is the session token lifetime.
const tokenValidity = 2 * time.Hour

type Handler struct {
	service   *Service
	jwtSecret []byte
}

func NewHandler(service *Service, jwtSecret string) *Handler {
	return &Handler{service: service, jwtSecret: []byte(jwtSecret)}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/auth/signup", h.signup)
	app.Post("/api/auth/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Get("/api/user/profile", h.getProfile)
	app.Put("/api/user/profile", h.updateProfile)
	app.Put("/api/user/change-password", h.changePassword)
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/users", h.adminListUsers)
	r.Put("/users/:id", h.adminUpdateUser)
	r.Delete("/users/:id", h.adminDeleteUser)
}

func (h *Handler) signup(c *fiber.Ctx) error {
	payload := new(credentialsRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Az e-mail cím és a jelszó is kötelező."})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := h.service.Register(User{
		Email:     payload.Email,
		Password:  payload.Password,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if err == ErrEmailExists {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Ez az e-mail cím már regisztrálva van."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Szerverhiba történt a regisztráció során."})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sikeres regisztráció!"})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(credentialsRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Az e-mail cím és a jelszó is kötelező."})
	}

	u, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Hibás e-mail cím vagy jelszó!"})
	}

	claims := jwt.MapClaims{
		"id":    u.ID,
		"role":  u.Role,
		"email": u.Email,
		"exp":   time.Now().Add(tokenValidity).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Szerverhiba történt a bejelentkezés során."})
	}

	return c.JSON(fiber.Map{"token": signed})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Bejelentkezés szükséges."})
	}

	u, err := h.service.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Felhasználó nem található"})
	}

	return c.JSON(sanitizeUser(u))
}

type profileUpdateRequest struct {
	Email string `json:"email"`
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Bejelentkezés szükséges."})
	}

	payload := new(profileUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.UpdateEmail(userID, payload.Email)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Felhasználó nem található"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(sanitizeUser(updated))
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) changePassword(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Bejelentkezés szükséges."})
	}

	payload := new(changePasswordRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.service.ChangePassword(userID, payload.OldPassword, payload.NewPassword); err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Felhasználó nem található"})
		case ErrWrongPassword:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Hibás régi jelszó"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Jelszó módosítva!"})
}

func (h *Handler) adminListUsers(c *fiber.Ctx) error {
	users := h.service.List()
	response := make([]User, 0, len(users))
	for _, u := range users {
		response = append(response, sanitizeUser(u))
	}
	return c.JSON(response)
}

type adminUserUpdateRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) adminUpdateUser(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	actorID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Bejelentkezés szükséges."})
	}

	payload := new(adminUserUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.AdminUpdate(actorID, targetID, payload.Email, payload.Role)
	if err != nil {
		switch err {
		case ErrSelfUpdate:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Saját fiók nem módosítható."})
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Felhasználó nem található"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Felhasználó frissítési hiba."})
		}
	}

	return c.JSON(sanitizeUser(updated))
}

func (h *Handler) adminDeleteUser(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	actorID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Bejelentkezés szükséges."})
	}

	if err := h.service.AdminDelete(actorID, targetID); err != nil {
		switch err {
		case ErrSelfDelete:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Saját fiók nem törölhető."})
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Felhasználó nem található"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Felhasználó törlési hiba."})
		}
	}

	return c.JSON(fiber.Map{"message": "Felhasználó törölve."})
}

func sanitizeUser(u User) User {
	u.Password = ""
	return u
}
