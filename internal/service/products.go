package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/store"
)

var productMessages = map[string]string{
	"name":              "Invalid product name",
	"price":             "Invalid price",
	"currency":          "Invalid currency",
	"section":           "Section not specified",
	"category":          "Category not specified",
	"availableQuantity": "Invalid available quantity",
	"costLBP":           "Invalid cost",
	"costUSD":           "Invalid cost",
}

func validateProduct(req domain.ProductCreateRequest) error {
	if err := validateStruct(req, productMessages); err != nil {
		return err
	}
	if req.CostLBP == 0 && req.CostUSD == 0 {
		return invalid("Cost not specified")
	}
	return nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return store.Load[domain.Product](ctx, s.store, store.Products)
}

// CreateProduct stores a new product. A zero cost in one currency is derived
// from the other through the configured exchange rate.
func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Currency = strings.TrimSpace(req.Currency)
	req.Section = strings.TrimSpace(req.Section)
	req.Category = strings.TrimSpace(req.Category)
	if err := validateProduct(req); err != nil {
		return domain.Product{}, err
	}

	costLBP, costUSD := req.CostLBP, req.CostUSD
	if rate := decimal.NewFromFloat(s.pricing.USDLBP); rate.IsPositive() {
		if costLBP == 0 {
			costLBP = decimal.NewFromFloat(req.CostUSD).Mul(rate).InexactFloat64()
		}
		if costUSD == 0 {
			costUSD = decimal.NewFromFloat(req.CostLBP).Div(rate).InexactFloat64()
		}
	}

	var created domain.Product
	err := s.mutate(ctx, func() error {
		products, err := store.Load[domain.Product](ctx, s.store, store.Products)
		if err != nil {
			return err
		}
		created = domain.Product{
			ID:                s.nextID(func(id int64) bool { return indexProduct(products, id) >= 0 }),
			Barcode:           strings.TrimSpace(req.Barcode),
			Name:              req.Name,
			Price:             req.Price,
			Currency:          req.Currency,
			Section:           req.Section,
			Category:          req.Category,
			Img:               req.Img,
			AvailableQuantity: req.AvailableQuantity,
			CostLBP:           costLBP,
			CostUSD:           costUSD,
		}
		return store.Save(ctx, s.store, store.Products, append(products, created))
	}, store.Products)
	if err != nil {
		return domain.Product{}, err
	}

	slog.Info("product created", "product_id", created.ID, "name", created.Name)
	return created, nil
}

// UpdateProduct merges the supplied fields into the stored product and
// validates the merged record before saving it.
func (s *Service) UpdateProduct(ctx context.Context, rawID string, req domain.ProductUpdateRequest) (domain.ProductUpdateResponse, error) {
	id, err := parseProductID(rawID)
	if err != nil {
		return domain.ProductUpdateResponse{}, err
	}

	var updated domain.Product
	err = s.mutate(ctx, func() error {
		products, err := store.Load[domain.Product](ctx, s.store, store.Products)
		if err != nil {
			return err
		}
		idx := indexProduct(products, id)
		if idx < 0 {
			return notFound("Product not found")
		}

		updated = applyProductUpdate(products[idx], req)
		if err := validateProduct(productInput(updated)); err != nil {
			return err
		}
		products[idx] = updated
		return store.Save(ctx, s.store, store.Products, products)
	}, store.Products)
	if err != nil {
		return domain.ProductUpdateResponse{}, err
	}

	return domain.ProductUpdateResponse{
		Message:        "Product with id " + rawID + " updated",
		UpdatedProduct: updated,
	}, nil
}

// DeleteProduct removes a product and returns the removed record.
func (s *Service) DeleteProduct(ctx context.Context, rawID string) (domain.Product, error) {
	id, err := parseProductID(rawID)
	if err != nil {
		return domain.Product{}, err
	}

	var deleted domain.Product
	err = s.mutate(ctx, func() error {
		products, err := store.Load[domain.Product](ctx, s.store, store.Products)
		if err != nil {
			return err
		}
		idx := indexProduct(products, id)
		if idx < 0 {
			return notFound("Product not found")
		}
		deleted = products[idx]
		products = append(products[:idx], products[idx+1:]...)
		return store.Save(ctx, s.store, store.Products, products)
	}, store.Products)
	if err != nil {
		return domain.Product{}, err
	}

	slog.Info("product deleted", "product_id", deleted.ID)
	return deleted, nil
}

func parseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, notFound("Product not found")
	}
	return id, nil
}

func indexProduct(products []domain.Product, id int64) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

func applyProductUpdate(p domain.Product, req domain.ProductUpdateRequest) domain.Product {
	if req.Barcode != nil {
		p.Barcode = strings.TrimSpace(*req.Barcode)
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Currency != nil {
		p.Currency = strings.TrimSpace(*req.Currency)
	}
	if req.Section != nil {
		p.Section = strings.TrimSpace(*req.Section)
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Img != nil {
		p.Img = *req.Img
	}
	if req.AvailableQuantity != nil {
		p.AvailableQuantity = *req.AvailableQuantity
	}
	if req.CostLBP != nil {
		p.CostLBP = *req.CostLBP
	}
	if req.CostUSD != nil {
		p.CostUSD = *req.CostUSD
	}
	return p
}

func productInput(p domain.Product) domain.ProductCreateRequest {
	return domain.ProductCreateRequest{
		Barcode:           p.Barcode,
		Name:              p.Name,
		Price:             p.Price,
		Currency:          p.Currency,
		Section:           p.Section,
		Category:          p.Category,
		Img:               p.Img,
		AvailableQuantity: p.AvailableQuantity,
		CostLBP:           p.CostLBP,
		CostUSD:           p.CostUSD,
	}
}
