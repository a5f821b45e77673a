// Package selection tracks the transient per-dialog choices: which dishes
// are picked and at what quantity, and which orders are expanded. None of
// this ever merges into the collection caches; it is read once at submit.
package selection

import (
	"sort"
	"sync"

	"talanch-backoffice/internal/domain"
)

type Selection struct {
	mu         sync.Mutex
	quantities map[int]int
}

func New() *Selection {
	return &Selection{quantities: make(map[int]int)}
}

// Toggle selects an unselected dish at quantity 1, or deselects it.
func (s *Selection) Toggle(dishID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quantities[dishID]; ok {
		delete(s.quantities, dishID)
		return false
	}
	s.quantities[dishID] = 1
	return true
}

// Increment bumps the quantity; an absent selection starts at 1.
func (s *Selection) Increment(dishID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.quantities[dishID]; ok {
		s.quantities[dishID] = q + 1
		return
	}
	s.quantities[dishID] = 1
}

// Decrement lowers the quantity; dropping below 1 removes the selection
// entirely rather than storing zero.
func (s *Selection) Decrement(dishID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quantities[dishID]
	if !ok {
		return
	}
	if q <= 1 {
		delete(s.quantities, dishID)
		return
	}
	s.quantities[dishID] = q - 1
}

// SetQuantity sets an explicit quantity; zero or negative deselects.
func (s *Selection) SetQuantity(dishID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity <= 0 {
		delete(s.quantities, dishID)
		return
	}
	s.quantities[dishID] = quantity
}

func (s *Selection) Quantity(dishID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quantities[dishID]
	return q, ok
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quantities)
}

// Items renders the selection as the submission payload, ordered by dish id.
func (s *Selection) Items() []domain.DishSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DishSelection, 0, len(s.quantities))
	for id, q := range s.quantities {
		out = append(out, domain.DishSelection{DishID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DishID < out[j].DishID })
	return out
}

// Reset empties the selection; called whenever the owning dialog opens.
func (s *Selection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quantities = make(map[int]int)
}

// Expanded tracks which rows of an order list are unfolded.
type Expanded struct {
	mu  sync.Mutex
	ids map[int]struct{}
}

func NewExpanded() *Expanded {
	return &Expanded{ids: make(map[int]struct{})}
}

func (e *Expanded) Toggle(orderID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.ids[orderID]; ok {
		delete(e.ids, orderID)
		return false
	}
	e.ids[orderID] = struct{}{}
	return true
}

func (e *Expanded) Has(orderID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.ids[orderID]
	return ok
}

// IDs lists the unfolded order ids in ascending order.
func (e *Expanded) IDs() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]int, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// ExpandedRegistry hands out expand/collapse state keyed by admin session,
// so each admin's unfolded rows survive between listings.
type ExpandedRegistry struct {
	mu   sync.Mutex
	sets map[string]*Expanded
}

func NewExpandedRegistry() *ExpandedRegistry {
	return &ExpandedRegistry{sets: make(map[string]*Expanded)}
}

func (r *ExpandedRegistry) Get(key string) *Expanded {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sets[key]; ok {
		return e
	}
	e := NewExpanded()
	r.sets[key] = e
	return e
}
