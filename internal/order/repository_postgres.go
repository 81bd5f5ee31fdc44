package order

import (
	"database/sql"
	"encoding/json"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `"orderID", "customerID", customer, items, total, "shippingFee", "totalPrice", "paymentMethod", status, "paymentDetails", "createdAt"`

func (r *PostgresRepository) Create(ord Order) (Order, error) {
	customerJSON, err := json.Marshal(ord.Customer)
	if err != nil {
		return Order{}, err
	}
	itemsJSON, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, err
	}

	err = r.db.QueryRow(`INSERT INTO orders ("customerID", customer, items, total, "shippingFee", "totalPrice", "paymentMethod", status, "createdAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING "orderID"`,
		ord.CustomerID, customerJSON, itemsJSON, ord.Total, ord.ShippingFee, ord.TotalPrice,
		ord.PaymentMethod, ord.Status, ord.CreatedAt).Scan(&ord.OrderID)
	if err != nil {
		return Order{}, err
	}

	return ord, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE "orderID" = $1`, id)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return ord, err
}

func (r *PostgresRepository) UpdateStatus(id int, status string) (Order, error) {
	res, err := r.db.Exec(`UPDATE orders SET status = $1 WHERE "orderID" = $2`, status, id)
	if err != nil {
		return Order{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) AttachPaymentResult(id int, status string, details json.RawMessage) error {
	if details == nil {
		details = json.RawMessage("null")
	}
	res, err := r.db.Exec(`UPDATE orders SET status = $1, "paymentDetails" = $2 WHERE "orderID" = $3`, status, []byte(details), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByCustomer(customerID int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE "customerID" = $1 ORDER BY "createdAt" DESC, "orderID" DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *PostgresRepository) ListOpen() ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE status <> $1 ORDER BY "createdAt" DESC, "orderID" DESC`, StatusFulfilled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func scanOrder(row interface{ Scan(...interface{}) error }) (Order, error) {
	var ord Order
	var customerJSON, itemsJSON []byte
	var detailsJSON []byte
	if err := row.Scan(&ord.OrderID, &ord.CustomerID, &customerJSON, &itemsJSON, &ord.Total,
		&ord.ShippingFee, &ord.TotalPrice, &ord.PaymentMethod, &ord.Status, &detailsJSON, &ord.CreatedAt); err != nil {
		return Order{}, err
	}

	if err := json.Unmarshal(customerJSON, &ord.Customer); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(itemsJSON, &ord.Items); err != nil {
		return Order{}, err
	}
	if len(detailsJSON) > 0 && string(detailsJSON) != "null" {
		ord.PaymentDetails = json.RawMessage(detailsJSON)
	}

	return ord, nil
}

func collect(rows *sql.Rows) ([]Order, error) {
	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}
