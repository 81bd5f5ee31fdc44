package product

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func setupApp(seed []Product) (*fiber.App, *InMemoryRepository) {
	repo := NewInMemoryRepository(seed)
	h := NewHandler(NewService(repo))
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	// admin routes registered without role middleware; role checks are
	// covered by the order and user handler tests
	admin := app.Group("/api/admin")
	h.RegisterAdminRoutes(admin)
	return app, repo
}

func TestListProducts_Public(t *testing.T) {
	app, _ := setupApp([]Product{
		{ID: 1, Name: "Egri Bikavér 2021", Price: 5000, Stock: 24},
		{ID: 2, Name: "Tokaji Furmint", Price: 3500, Stock: 12},
	})

	req := httptest.NewRequest("GET", "/api/products", nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var products []Product
	json.NewDecoder(res.Body).Decode(&products)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
}

func TestCreateProduct_RejectsNegativePrice(t *testing.T) {
	app, repo := setupApp(nil)

	b, _ := json.Marshal(Product{Name: "Hibás bor", Price: -100, Stock: 5})
	req := httptest.NewRequest("POST", "/api/admin/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if products, _ := repo.List(); len(products) != 0 {
		t.Errorf("rejected product persisted, found %d", len(products))
	}
}

func TestCreateProduct_RejectsNegativeStock(t *testing.T) {
	app, _ := setupApp(nil)

	b, _ := json.Marshal(Product{Name: "Hibás bor", Price: 100, Stock: -1})
	req := httptest.NewRequest("POST", "/api/admin/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	app, repo := setupApp([]Product{{ID: 1, Name: "Egri Bikavér 2021", Price: 5000, Stock: 24}})

	b, _ := json.Marshal(Product{Name: "Egri Bikavér 2021", Price: 5500, Stock: 20})
	req := httptest.NewRequest("PUT", "/api/admin/products/1", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if p, _ := repo.GetByID(1); p.Price != 5500 {
		t.Errorf("expected updated price, got %v", p.Price)
	}

	req = httptest.NewRequest("DELETE", "/api/admin/products/1", nil)
	res, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if _, err := repo.GetByID(1); err != ErrNotFound {
		t.Errorf("expected product deleted, got %v", err)
	}
}

func TestDeleteProduct_Missing(t *testing.T) {
	app, _ := setupApp(nil)

	req := httptest.NewRequest("DELETE", "/api/admin/products/42", nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}
