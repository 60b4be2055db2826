package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/store"
)

func (s *Service) ListCarts(ctx context.Context) ([]domain.Cart, error) {
	return store.Load[domain.Cart](ctx, s.store, store.Carts)
}

func (s *Service) GetCart(ctx context.Context, id string) (domain.Cart, error) {
	carts, err := store.Load[domain.Cart](ctx, s.store, store.Carts)
	if err != nil {
		return domain.Cart{}, err
	}
	idx := indexCart(carts, domain.FlexString(strings.TrimSpace(id)))
	if idx < 0 {
		return domain.Cart{}, notFound("Cart not found")
	}
	return carts[idx], nil
}

// CreateCart records a sale and deducts every line item from inventory.
// All line items are checked before anything is written: an unknown product
// or a short stock rejects the whole cart and leaves both collections as
// they were. Products and carts are then written together.
func (s *Service) CreateCart(ctx context.Context, req domain.CartCreateRequest) (domain.Cart, error) {
	if err := validateLineItems(req.Products); err != nil {
		return domain.Cart{}, err
	}

	var created domain.Cart
	err := s.mutate(ctx, func() error {
		products, err := store.Load[domain.Product](ctx, s.store, store.Products)
		if err != nil {
			return err
		}
		carts, err := store.Load[domain.Cart](ctx, s.store, store.Carts)
		if err != nil {
			return err
		}

		now := s.clock()
		cart := domain.Cart{
			Products:    req.Products,
			TotalAmount: req.TotalAmount,
			Currency:    req.Currency,
			CartName:    req.CartName,
			CartNumber:  req.CartNumber,
			CartNotes:   req.CartNotes,
			Date:        req.Date.Or(domain.DateOf(now)),
			Time:        req.Time,
		}
		if cart.Products == nil {
			cart.Products = make([]domain.CartLineItem, 0)
		}
		if cart.CartName == "" {
			cart.CartName = req.Name
		}
		if cart.Time == "" {
			cart.Time = now.Format(domain.ClockLayout)
		}
		taken := func(id domain.FlexString) bool { return indexCart(carts, id) >= 0 }
		if req.CartID != "" {
			if taken(req.CartID) {
				return invalid("Cart ID %s already exists", req.CartID)
			}
			cart.ID = req.CartID
		} else {
			cart.ID = uniqueStamp(now, taken)
		}

		if err := deductStock(products, cart.Products); err != nil {
			if errors.Is(err, store.ErrInsufficientStock) {
				s.metrics.StockRejected()
			}
			return err
		}

		productsDoc, err := store.Encode(store.Products, products)
		if err != nil {
			return err
		}
		cartsDoc, err := store.Encode(store.Carts, append(carts, cart))
		if err != nil {
			return err
		}
		if err := s.store.Write(ctx, productsDoc, cartsDoc); err != nil {
			return err
		}
		created = cart
		return nil
	}, store.Products, store.Carts)
	if err != nil {
		return domain.Cart{}, err
	}

	s.metrics.CartCreated()
	slog.Info("cart created", "cart_id", created.ID, "items", len(created.Products), "total", created.TotalAmount)
	return created, nil
}

// deductStock decrements availableQuantity in products for each line item.
// It mutates only the given slice, so a failed deduction is discarded by the
// caller simply by not saving it.
func deductStock(products []domain.Product, items []domain.CartLineItem) error {
	for _, item := range items {
		idx := indexProduct(products, item.ID)
		if idx < 0 {
			// unknown products are a client error here, not a missing route
			return &opError{
				message: fmt.Sprintf("Product ID %d not found", item.ID),
				kinds:   []error{store.ErrInvalidInput, store.ErrNotFound},
			}
		}
		product := &products[idx]
		if product.AvailableQuantity < item.Quantity {
			return &opError{
				message: fmt.Sprintf("Insufficient stock for product ID %d: \"%s\"", item.ID, product.Name),
				kinds:   []error{store.ErrInsufficientStock},
			}
		}
		product.AvailableQuantity -= item.Quantity
	}
	return nil
}

func validateLineItems(items []domain.CartLineItem) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			return invalid("Invalid quantity for product ID %d", item.ID)
		}
	}
	return nil
}

// UpdateCart merges the supplied fields into a stored cart. When products are
// replaced, totalAmount is recomputed from them. Inventory is left untouched.
func (s *Service) UpdateCart(ctx context.Context, id string, req domain.CartUpdateRequest) (domain.Cart, error) {
	if req.Products != nil {
		if err := validateLineItems(*req.Products); err != nil {
			return domain.Cart{}, err
		}
	}

	var updated domain.Cart
	err := s.mutate(ctx, func() error {
		carts, err := store.Load[domain.Cart](ctx, s.store, store.Carts)
		if err != nil {
			return err
		}
		idx := indexCart(carts, domain.FlexString(strings.TrimSpace(id)))
		if idx < 0 {
			return notFound("Cart not found")
		}

		cart := carts[idx]
		if req.TotalAmount != nil {
			cart.TotalAmount = *req.TotalAmount
		}
		if req.Products != nil {
			cart.Products = *req.Products
			if cart.Products == nil {
				cart.Products = make([]domain.CartLineItem, 0)
			}
			cart.TotalAmount = lineItemsTotal(cart.Products)
		}
		if req.Currency != nil {
			cart.Currency = *req.Currency
		}
		if req.CartName != nil {
			cart.CartName = *req.CartName
		}
		if req.CartNumber != nil {
			cart.CartNumber = *req.CartNumber
		}
		if req.CartNotes != nil {
			cart.CartNotes = *req.CartNotes
		}
		if req.Date != nil {
			cart.Date = req.Date.Or(cart.Date)
		}
		if req.Time != nil {
			cart.Time = *req.Time
		}

		carts[idx] = cart
		updated = cart
		return store.Save(ctx, s.store, store.Carts, carts)
	}, store.Carts)
	if err != nil {
		return domain.Cart{}, err
	}
	return updated, nil
}

// DeleteCart removes a cart. Stock deducted at creation is not restored.
func (s *Service) DeleteCart(ctx context.Context, id string) (domain.MessageResponse, error) {
	err := s.mutate(ctx, func() error {
		carts, err := store.Load[domain.Cart](ctx, s.store, store.Carts)
		if err != nil {
			return err
		}
		idx := indexCart(carts, domain.FlexString(strings.TrimSpace(id)))
		if idx < 0 {
			return notFound("Cart not found")
		}
		carts = append(carts[:idx], carts[idx+1:]...)
		return store.Save(ctx, s.store, store.Carts, carts)
	}, store.Carts)
	if err != nil {
		return domain.MessageResponse{}, err
	}
	return domain.MessageResponse{Message: "Cart deleted successfully"}, nil
}

func indexCart(carts []domain.Cart, id domain.FlexString) int {
	for i := range carts {
		if carts[i].ID == id {
			return i
		}
	}
	return -1
}

func lineItemsTotal(items []domain.CartLineItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.InexactFloat64()
}
