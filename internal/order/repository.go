package order

import (
	"encoding/json"
	"sort"
	"sync"
)

// Repository defines persistence operations for orders. Orders are never
// deleted; the admin panel retires them by setting their status.
type Repository interface {
	Create(ord Order) (Order, error)
	GetByID(id int) (Order, error)
	// UpdateStatus overwrites the status only and returns the updated order.
	UpdateStatus(id int, status string) (Order, error)
	// AttachPaymentResult stores the provider's transaction details together
	// with the outcome status in a single write.
	AttachPaymentResult(id int, status string, details json.RawMessage) error
	// ListByCustomer returns the customer's own orders, newest first.
	ListByCustomer(customerID int) ([]Order, error)
	// ListOpen returns every order still needing attention (status not
	// fulfilled), newest first.
	ListOpen() ([]Order, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord.OrderID = r.nextID
	r.nextID++
	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ord := range r.orders {
		if ord.OrderID == id {
			return ord, nil
		}
	}

	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) UpdateStatus(id int, status string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, ord := range r.orders {
		if ord.OrderID == id {
			ord.Status = status
			r.orders[i] = ord
			return ord, nil
		}
	}

	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) AttachPaymentResult(id int, status string, details json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, ord := range r.orders {
		if ord.OrderID == id {
			ord.Status = status
			ord.PaymentDetails = details
			r.orders[i] = ord
			return nil
		}
	}

	return ErrNotFound
}

func (r *InMemoryRepository) ListByCustomer(customerID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.CustomerID == customerID {
			orders = append(orders, ord)
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (r *InMemoryRepository) ListOpen() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.Status != StatusFulfilled {
			orders = append(orders, ord)
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

// Count reports the number of stored orders. Used by tests to assert that
// rejected submissions leave nothing behind.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

func sortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt != orders[j].CreatedAt {
			return orders[i].CreatedAt > orders[j].CreatedAt
		}
		return orders[i].OrderID > orders[j].OrderID
	})
}
