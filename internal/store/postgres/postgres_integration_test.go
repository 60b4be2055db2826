package postgres

import (
	"context"
	"os"
	"testing"

	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/store"
)

func TestWriteReplacesDocumentsTogether(t *testing.T) {
	databaseURL := os.Getenv("DUKKAN_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set DUKKAN_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM collections WHERE name IN ('products', 'carts')`)
		_ = s.Close()
	})

	products, err := store.Encode(store.Products, []domain.Product{{ID: 7, Name: "Labneh", Price: 5, Currency: "USD", Section: "dairy", Category: "fridge", AvailableQuantity: 2}})
	if err != nil {
		t.Fatalf("encode products: %v", err)
	}
	carts, err := store.Encode(store.Carts, []domain.Cart{{ID: "10192026140509", TotalAmount: 15}})
	if err != nil {
		t.Fatalf("encode carts: %v", err)
	}
	if err := s.Write(ctx, products, carts); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := store.Load[domain.Product](ctx, s, store.Products)
	if err != nil {
		t.Fatalf("load products: %v", err)
	}
	if len(loaded) != 1 || loaded[0].AvailableQuantity != 2 {
		t.Fatalf("unexpected products: %+v", loaded)
	}
	loadedCarts, err := store.Load[domain.Cart](ctx, s, store.Carts)
	if err != nil {
		t.Fatalf("load carts: %v", err)
	}
	if len(loadedCarts) != 1 || loadedCarts[0].ID != "10192026140509" {
		t.Fatalf("unexpected carts: %+v", loadedCarts)
	}

	bad := store.Document{Name: store.Carts, Body: []byte("{not json")}
	if err := s.Write(ctx, products, bad); err == nil {
		t.Fatalf("expected invalid JSON to be rejected")
	}
}
