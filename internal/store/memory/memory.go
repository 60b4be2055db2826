package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/store"
)

type Store struct {
	mu   sync.RWMutex
	docs map[store.Collection][]byte
}

func New() *Store {
	return &Store{docs: make(map[store.Collection][]byte)}
}

// NewSeeded returns a store holding a small demo catalogue.
func NewSeeded() *Store {
	s := New()
	products := []domain.Product{
		{ID: 1, Name: "Labneh 500g", Price: 250000, Currency: "LBP", Section: "dairy", Category: "fridge", AvailableQuantity: 40, CostLBP: 180000, CostUSD: 2},
		{ID: 2, Name: "Pita Bread", Price: 60000, Currency: "LBP", Section: "bakery", Category: "bread", AvailableQuantity: 120, CostLBP: 45000, CostUSD: 0.5},
		{ID: 3, Name: "Olive Oil 1L", Price: 9, Currency: "USD", Section: "grocery", Category: "oil", AvailableQuantity: 25, CostLBP: 630000, CostUSD: 7},
		{ID: 4, Name: "Turkish Coffee 200g", Price: 350000, Currency: "LBP", Section: "grocery", Category: "coffee", AvailableQuantity: 60, CostLBP: 270000, CostUSD: 3},
		{ID: 5, Name: "Mineral Water 1.5L", Price: 45000, Currency: "LBP", Section: "beverage", Category: "water", AvailableQuantity: 200, CostLBP: 27000, CostUSD: 0.3},
		{ID: 6, Name: "Zaatar 250g", Price: 200000, Currency: "LBP", Section: "grocery", Category: "spices", AvailableQuantity: 35, CostLBP: 135000, CostUSD: 1.5},
	}
	doc, err := store.Encode(store.Products, products)
	if err != nil {
		slog.Warn("memory store: failed to encode seed products", "error", err)
		return s
	}
	s.docs[doc.Name] = doc.Body
	return s
}

func (s *Store) Read(_ context.Context, name store.Collection) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.docs[name]
	if !ok {
		return nil, nil
	}
	return slices.Clone(body), nil
}

func (s *Store) Write(_ context.Context, docs ...store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		if !store.ValidCollection(doc.Name) {
			return store.ErrInvalidInput
		}
	}
	for _, doc := range docs {
		s.docs[doc.Name] = slices.Clone(doc.Body)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
