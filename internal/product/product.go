package product

// Product is a catalog entry. Orders copy name and price at submission time,
// so edits here never touch historical orders.
type Product struct {
	ID          int     `json:"productId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}
