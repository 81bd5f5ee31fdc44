package user

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

// makeApp wires the handler with a bootstrap middleware that injects a
// jwt.Token into locals when the X-User-ID header is provided. This avoids
// pulling in the full jwtware middleware and keeps tests lightweight.
func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"id": id}
				if role := c.Get("X-User-Role"); role != "" {
					claims["role"] = role
				}
				c.Locals("user", &jwt.Token{Claims: claims})
			}
		}
		return c.Next()
	})
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app)
	admin := app.Group("/api/admin", AdminOnly)
	h.RegisterAdminRoutes(admin)
	return app
}

func TestSignup_CreatesCustomer(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	h := NewHandler(NewService(repo), testSecret)
	app := makeApp(h)

	b, _ := json.Marshal(map[string]string{"email": "j@example.com", "password": "titok123"})
	req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	stored, err := repo.GetByEmail("j@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.Role != RoleCustomer {
		t.Errorf("expected role %q, got %q", RoleCustomer, stored.Role)
	}
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: 1, Email: "j@example.com", Password: "x"}})
	h := NewHandler(NewService(repo), testSecret)
	app := makeApp(h)

	b, _ := json.Marshal(map[string]string{"email": "j@example.com", "password": "titok123"})
	req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", res.StatusCode)
	}
}

func TestLogin_IssuesTokenWithClaims(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)
	service.Register(User{Email: "j@example.com", Password: "titok123"})
	h := NewHandler(service, testSecret)
	app := makeApp(h)

	b, _ := json.Marshal(map[string]string{"email": "j@example.com", "password": "titok123"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	json.NewDecoder(res.Body).Decode(&body)
	if body.Token == "" {
		t.Fatal("expected token in response")
	}

	parsed, err := jwt.Parse(body.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["role"] != RoleCustomer {
		t.Errorf("expected role claim %q, got %v", RoleCustomer, claims["role"])
	}
	if claims["email"] != "j@example.com" {
		t.Errorf("expected email claim, got %v", claims["email"])
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)
	service.Register(User{Email: "j@example.com", Password: "titok123"})
	h := NewHandler(service, testSecret)
	app := makeApp(h)

	b, _ := json.Marshal(map[string]string{"email": "j@example.com", "password": "rossz"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}

func TestProfile_RequiresAuth(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: 7, Email: "j@example.com", Role: RoleCustomer}})
	h := NewHandler(NewService(repo), testSecret)
	app := makeApp(h)

	req := httptest.NewRequest("GET", "/api/user/profile", nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/user/profile", nil)
	req.Header.Set("X-User-ID", "7")
	res, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var u User
	json.NewDecoder(res.Body).Decode(&u)
	if u.Password != "" {
		t.Error("password must never leave the service boundary")
	}
}

func TestAdminUsers_SelfGuards(t *testing.T) {
	repo := NewInMemoryRepository([]User{
		{ID: 1, Email: "admin@example.com", Role: RoleAdmin},
		{ID: 2, Email: "c@example.com", Role: RoleCustomer},
	})
	h := NewHandler(NewService(repo), testSecret)
	app := makeApp(h)

	// demoting yourself is rejected
	b, _ := json.Marshal(map[string]string{"email": "admin@example.com", "role": RoleCustomer})
	req := httptest.NewRequest("PUT", "/api/admin/users/1", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "1")
	req.Header.Set("X-User-Role", RoleAdmin)

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 on self update, got %d", res.StatusCode)
	}

	// deleting yourself is rejected
	req = httptest.NewRequest("DELETE", "/api/admin/users/1", nil)
	req.Header.Set("X-User-ID", "1")
	req.Header.Set("X-User-Role", RoleAdmin)

	res, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 on self delete, got %d", res.StatusCode)
	}

	// other accounts are fair game
	req = httptest.NewRequest("DELETE", "/api/admin/users/2", nil)
	req.Header.Set("X-User-ID", "1")
	req.Header.Set("X-User-Role", RoleAdmin)

	res, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
}

func TestAdminUsers_ForbiddenForCustomers(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: 2, Email: "c@example.com", Role: RoleCustomer}})
	h := NewHandler(NewService(repo), testSecret)
	app := makeApp(h)

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req.Header.Set("X-User-ID", "2")
	req.Header.Set("X-User-Role", RoleCustomer)

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.StatusCode)
	}
}
