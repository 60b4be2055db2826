package service

import (
	"context"
	"log/slog"
	"strings"

	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/store"
)

func (s *Service) ListDebts(ctx context.Context) ([]domain.Debt, error) {
	return store.Load[domain.Debt](ctx, s.store, store.Debts)
}

// CreateDebt records goods taken on credit. Id, date and time always come
// from the clock; inventory is not touched.
func (s *Service) CreateDebt(ctx context.Context, req domain.DebtCreateRequest) (domain.Debt, error) {
	if err := validateLineItems(req.Products); err != nil {
		return domain.Debt{}, err
	}

	var created domain.Debt
	err := s.mutate(ctx, func() error {
		debts, err := store.Load[domain.Debt](ctx, s.store, store.Debts)
		if err != nil {
			return err
		}

		now := s.clock()
		debt := domain.Debt{
			ID: uniqueStamp(now, func(id domain.FlexString) bool {
				return indexDebt(debts, id) >= 0
			}),
			Products:    req.Products,
			TotalAmount: req.TotalAmount,
			Currency:    req.Currency,
			Label:       strings.TrimSpace(req.Name),
			CartNumber:  req.CartNumber,
			CartNotes:   req.CartNotes,
			Date:        domain.DateOf(now),
			Time:        now.Format(domain.ClockLayout),
		}
		if debt.Products == nil {
			debt.Products = make([]domain.CartLineItem, 0)
		}
		if debt.Label == "" {
			debt.Label = strings.TrimSpace(req.Label)
		}

		created = debt
		return store.Save(ctx, s.store, store.Debts, append(debts, debt))
	}, store.Debts)
	if err != nil {
		return domain.Debt{}, err
	}

	slog.Info("debt created", "debt_id", created.ID, "label", created.Label, "total", created.TotalAmount)
	return created, nil
}

func (s *Service) DeleteDebt(ctx context.Context, id string) (domain.MessageResponse, error) {
	err := s.mutate(ctx, func() error {
		debts, err := store.Load[domain.Debt](ctx, s.store, store.Debts)
		if err != nil {
			return err
		}
		idx := indexDebt(debts, domain.FlexString(strings.TrimSpace(id)))
		if idx < 0 {
			return notFound("Debt not found")
		}
		debts = append(debts[:idx], debts[idx+1:]...)
		return store.Save(ctx, s.store, store.Debts, debts)
	}, store.Debts)
	if err != nil {
		return domain.MessageResponse{}, err
	}
	return domain.MessageResponse{Message: "Debt deleted successfully"}, nil
}

func indexDebt(debts []domain.Debt, id domain.FlexString) int {
	for i := range debts {
		if debts[i].ID == id {
			return i
		}
	}
	return -1
}
