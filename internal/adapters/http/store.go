package http

import (
	"maps"
	"slices"
	"sync"
)

// Order is a resource of the demo API.
type Order struct {
	ID         int     `json:"id"`
	Status     string  `json:"status"`
	Total      float64 `json:"total"`
	CustomerID int     `json:"customer_id"`
}

// Customer is a resource of the demo API.
type Customer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Store is the in-memory backing store of the demo API.
type Store struct {
	mu        sync.RWMutex
	orders    map[int]Order
	customers map[int]Customer
	nextID    int
}

// NewStore returns a Store seeded with a few customers and orders.
func NewStore() *Store {
	s := &Store{
		orders: map[int]Order{},
		customers: map[int]Customer{
			1: {ID: 1, Name: "Ada"},
			2: {ID: 2, Name: "Grace"},
		},
	}
	for _, o := range []Order{
		{Status: "shipped", Total: 30, CustomerID: 1},
		{Status: "processing", Total: 12.5, CustomerID: 2},
		{Status: "shipped", Total: 99.9, CustomerID: 2},
		{Status: "cancelled", Total: 5, CustomerID: 1},
	} {
		s.Create(o)
	}
	return s
}

// Orders returns the orders with the given status, or all when status is
// empty, ordered by ID.
func (s *Store) Orders(status string) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := slices.Sorted(maps.Keys(s.orders))
	out := make([]Order, 0, len(ids))
	for _, id := range ids {
		if o := s.orders[id]; status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) Order(id int) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	return o, ok
}

func (s *Store) Customer(id int) (Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	return c, ok
}

// Create stores o under a new ID and returns it.
func (s *Store) Create(o Order) Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o.ID = s.nextID
	s.orders[o.ID] = o
	return o
}

// Update replaces the order with o.ID. It reports false if there is none.
func (s *Store) Update(o Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; !ok {
		return false
	}
	s.orders[o.ID] = o
	return true
}

func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return false
	}
	delete(s.orders, id)
	return true
}
