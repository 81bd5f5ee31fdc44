package product

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `"productID", name, price, stock, description, image`

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY "productID"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		var description, image sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &description, &image); err != nil {
			return nil, err
		}
		p.Description = description.String
		p.Image = image.String
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	var p Product
	var description, image sql.NullString
	err := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE "productID" = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &description, &image)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	p.Description = description.String
	p.Image = image.String
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(`INSERT INTO products (name, price, stock, description, image)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING "productID"`,
		p.Name, p.Price, p.Stock, p.Description, p.Image).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	res, err := r.db.Exec(`UPDATE products SET name = $1, price = $2, stock = $3, description = $4, image = $5 WHERE "productID" = $6`,
		p.Name, p.Price, p.Stock, p.Description, p.Image, id)
	if err != nil {
		return Product{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrNotFound
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE "productID" = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
