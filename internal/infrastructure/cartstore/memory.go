package cartstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/srezka/kassa-api/internal/domain/cart"
	"github.com/srezka/kassa-api/pkg/apperror"
)

// Memory keeps cart sessions in process memory. Carts live for the duration
// of a checkout session and are dropped on completion; nothing is persisted.
type Memory struct {
	mu       sync.RWMutex
	carts    map[uuid.UUID]*cart.Cart
	inFlight map[uuid.UUID]bool
}

func NewMemory() *Memory {
	return &Memory{
		carts:    make(map[uuid.UUID]*cart.Cart),
		inFlight: make(map[uuid.UUID]bool),
	}
}

// Create opens a new empty cart session and returns its id.
func (m *Memory) Create() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.carts[id] = cart.New()
	return id
}

// With runs fn against the cart under the store lock, serializing mutations
// per store. Concurrent edits to rows of the same product are therefore
// last-write-wins, never torn.
func (m *Memory) With(id uuid.UUID, fn func(c *cart.Cart) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.carts[id]
	if !ok {
		return apperror.NewNotFoundError("Cart")
	}
	return fn(c)
}

// Delete drops a cart session.
func (m *Memory) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, id)
	delete(m.inFlight, id)
}

// BeginCheckout marks the cart as having a submission in flight. It fails
// when the flag is already set, which is the whole duplicate-submit guard:
// one terminal, one actor, one boolean.
func (m *Memory) BeginCheckout(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.carts[id]; !ok {
		return apperror.NewNotFoundError("Cart")
	}
	if m.inFlight[id] {
		return apperror.ErrCheckoutBusy
	}
	m.inFlight[id] = true
	return nil
}

// EndCheckout clears the in-flight flag.
func (m *Memory) EndCheckout(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, id)
}
