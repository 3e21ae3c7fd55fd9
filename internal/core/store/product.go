package store

import (
	"sync"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/serviceerrors"
)

// ProductStore is the in-memory authoritative set of products. Reads return clones, so a
// caller can never observe or cause a partially written product.
type ProductStore struct {
	mu    sync.RWMutex
	byID  map[domain.ID]*domain.Product
	order []domain.ID
	newID func() domain.ID
}

func NewProductStore(idGenerator func() domain.ID) *ProductStore {
	if idGenerator == nil {
		idGenerator = domain.NewID
	}
	return &ProductStore{
		byID:  make(map[domain.ID]*domain.Product),
		newID: idGenerator,
	}
}

// Load replaces the whole content with products, keeping their order.
func (s *ProductStore) Load(products []*domain.Product) error {
	byID := make(map[domain.ID]*domain.Product, len(products))
	order := make([]domain.ID, 0, len(products))
	for _, p := range products {
		if _, exists := byID[p.ID]; exists {
			return serviceerrors.NewConflictError("duplicate product id " + string(p.ID))
		}
		byID[p.ID] = p.Clone()
		order = append(order, p.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = byID
	s.order = order
	return nil
}

// List returns every product in insertion order.
func (s *ProductStore) List() []*domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]*domain.Product, len(s.order))
	for i, id := range s.order {
		products[i] = s.byID[id].Clone()
	}
	return products
}

func (s *ProductStore) Get(id domain.ID) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, productNotFound()
	}
	return p.Clone(), nil
}

func (s *ProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Insert adds product, assigning an id when it has none.
func (s *ProductStore) Insert(product *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = s.newID()
	}
	if _, exists := s.byID[product.ID]; exists {
		return nil, serviceerrors.NewConflictError("product id already exists")
	}

	s.byID[product.ID] = product.Clone()
	s.order = append(s.order, product.ID)
	return product.Clone(), nil
}

// Update runs mutate on a working copy and stores it only when mutate succeeds.
func (s *ProductStore) Update(id domain.ID, mutate func(p *domain.Product) error) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[id]
	if !ok {
		return nil, productNotFound()
	}

	working := current.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.ID = id

	s.byID[id] = working
	return working.Clone(), nil
}

func (s *ProductStore) Remove(id domain.ID) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, productNotFound()
	}

	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return p, nil
}

// Snapshot captures the current content so a failed write can be undone with Restore.
func (s *ProductStore) Snapshot() ProductSnapshot {
	return ProductSnapshot{products: s.List()}
}

// Restore puts back a snapshot. The snapshot already holds clones with unique ids, so it
// is installed directly rather than revalidated through Load.
func (s *ProductStore) Restore(snapshot ProductSnapshot) {
	byID := make(map[domain.ID]*domain.Product, len(snapshot.products))
	order := make([]domain.ID, len(snapshot.products))
	for i, p := range snapshot.products {
		byID[p.ID] = p.Clone()
		order[i] = p.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = byID
	s.order = order
}

type ProductSnapshot struct {
	products []*domain.Product
}

func productNotFound() error {
	return serviceerrors.NewNotFoundError("product not found")
}
