package pos

import "sync"

// Carts is the per-terminal cart registry. Each checkout session gets its
// own cart, created on first use and dropped on finalize.
type Carts struct {
	mu      sync.Mutex
	taxRate float64
	byID    map[string]*Cart
}

func NewCarts(taxRate float64) *Carts {
	return &Carts{
		taxRate: taxRate,
		byID:    make(map[string]*Cart),
	}
}

// Get returns the session's cart, creating an empty one if needed.
func (r *Carts) Get(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.byID[sessionID]
	if !ok {
		cart = NewCart(r.taxRate)
		r.byID[sessionID] = cart
	}
	return cart
}

// Drop discards the session's cart after a finalize or explicit reset.
func (r *Carts) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, sessionID)
}
