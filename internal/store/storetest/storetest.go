// Package storetest holds behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/store"
)

func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("missing collection loads empty", func(t *testing.T) {
		s := open(t)
		carts, err := store.Load[domain.Cart](context.Background(), s, store.Carts)
		require.NoError(t, err)
		require.NotNil(t, carts)
		require.Empty(t, carts)
	})

	t.Run("save replaces whole collection", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		first := []domain.Expense{
			{ID: 1, Label: "Generator", Price: 40, Currency: "USD", Date: domain.CalendarDate{Year: 2026, Month: 10, Day: 19}},
			{ID: 2, Label: "Rent", Price: 300, Currency: "USD", Date: domain.CalendarDate{Year: 2026, Month: 10, Day: 19}},
		}
		require.NoError(t, store.Save(ctx, s, store.Expenses, first))
		require.NoError(t, store.Save(ctx, s, store.Expenses, first[1:]))

		loaded, err := store.Load[domain.Expense](ctx, s, store.Expenses)
		require.NoError(t, err)
		require.Equal(t, first[1:], loaded)
	})

	t.Run("write applies several documents", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		products, err := store.Encode(store.Products, []domain.Product{{ID: 7, Name: "Labneh", AvailableQuantity: 2}})
		require.NoError(t, err)
		carts, err := store.Encode(store.Carts, []domain.Cart{{ID: "c-1", TotalAmount: 15}})
		require.NoError(t, err)
		require.NoError(t, s.Write(ctx, products, carts))

		loadedProducts, err := store.Load[domain.Product](ctx, s, store.Products)
		require.NoError(t, err)
		require.Len(t, loadedProducts, 1)
		require.Equal(t, 2, loadedProducts[0].AvailableQuantity)

		loadedCarts, err := store.Load[domain.Cart](ctx, s, store.Carts)
		require.NoError(t, err)
		require.Len(t, loadedCarts, 1)
		require.Equal(t, domain.FlexString("c-1"), loadedCarts[0].ID)
	})

	t.Run("unknown collection rejected", func(t *testing.T) {
		s := open(t)
		err := s.Write(context.Background(), store.Document{Name: "reports", Body: []byte("[]")})
		require.ErrorIs(t, err, store.ErrInvalidInput)
	})
}
