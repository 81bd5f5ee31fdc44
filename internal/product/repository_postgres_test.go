package product

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"productID", "name", "price", "stock", "description", "image"}).
		AddRow(1, "Egri Bikavér 2021", 5000.0, 24, "Száraz vörösbor", "/images/bikaver.jpg").
		AddRow(2, "Tokaji Furmint", 3500.0, 12, nil, nil)
	mock.ExpectQuery("FROM products").WillReturnRows(rows)

	products, err := repo.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "Egri Bikavér 2021" {
		t.Errorf("unexpected product name %q", products[0].Name)
	}
	if products[1].Description != "" {
		t.Errorf("NULL description must scan to empty string, got %q", products[1].Description)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdate_MissingProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.Update(99, Product{Name: "X", Price: 100}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO products").
		WillReturnRows(sqlmock.NewRows([]string{"productID"}).AddRow(5))

	created, err := repo.Create(Product{Name: "Rozé 2024", Price: 2900, Stock: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 5 {
		t.Errorf("expected id 5, got %d", created.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
