package service

import (
	"context"
	"strconv"
	"strings"

	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/store"
)

var expenseMessages = map[string]string{
	"label":    "Invalid expense label",
	"price":    "Invalid price",
	"currency": "Invalid currency",
}

func (s *Service) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	return store.Load[domain.Expense](ctx, s.store, store.Expenses)
}

// CreateExpense stores an expense. Missing date components default to today
// in the shop timezone.
func (s *Service) CreateExpense(ctx context.Context, req domain.ExpenseCreateRequest) (domain.Expense, error) {
	req.Label = strings.TrimSpace(req.Label)
	req.Currency = strings.TrimSpace(req.Currency)
	if err := validateStruct(req, expenseMessages); err != nil {
		return domain.Expense{}, err
	}

	var created domain.Expense
	err := s.mutate(ctx, func() error {
		expenses, err := store.Load[domain.Expense](ctx, s.store, store.Expenses)
		if err != nil {
			return err
		}
		created = domain.Expense{
			ID:       s.nextID(func(id int64) bool { return indexExpense(expenses, id) >= 0 }),
			Label:    req.Label,
			Price:    req.Price,
			Currency: req.Currency,
			Date:     req.Date.Or(s.today()),
		}
		return store.Save(ctx, s.store, store.Expenses, append(expenses, created))
	}, store.Expenses)
	if err != nil {
		return domain.Expense{}, err
	}
	return created, nil
}

func (s *Service) UpdateExpense(ctx context.Context, rawID string, req domain.ExpenseUpdateRequest) (domain.Expense, error) {
	id, err := parseExpenseID(rawID)
	if err != nil {
		return domain.Expense{}, err
	}

	var updated domain.Expense
	err = s.mutate(ctx, func() error {
		expenses, err := store.Load[domain.Expense](ctx, s.store, store.Expenses)
		if err != nil {
			return err
		}
		idx := indexExpense(expenses, id)
		if idx < 0 {
			return notFound("Expense not found")
		}

		expense := expenses[idx]
		if req.Label != nil {
			expense.Label = strings.TrimSpace(*req.Label)
		}
		if req.Price != nil {
			expense.Price = *req.Price
		}
		if req.Currency != nil {
			expense.Currency = strings.TrimSpace(*req.Currency)
		}
		if req.Date != nil {
			expense.Date = req.Date.Or(expense.Date)
		}
		if err := validateStruct(domain.ExpenseCreateRequest{
			Label:    expense.Label,
			Price:    expense.Price,
			Currency: expense.Currency,
		}, expenseMessages); err != nil {
			return err
		}

		expenses[idx] = expense
		updated = expense
		return store.Save(ctx, s.store, store.Expenses, expenses)
	}, store.Expenses)
	if err != nil {
		return domain.Expense{}, err
	}
	return updated, nil
}

func (s *Service) DeleteExpense(ctx context.Context, rawID string) (domain.MessageResponse, error) {
	id, err := parseExpenseID(rawID)
	if err != nil {
		return domain.MessageResponse{}, err
	}

	err = s.mutate(ctx, func() error {
		expenses, err := store.Load[domain.Expense](ctx, s.store, store.Expenses)
		if err != nil {
			return err
		}
		idx := indexExpense(expenses, id)
		if idx < 0 {
			return notFound("Expense not found")
		}
		expenses = append(expenses[:idx], expenses[idx+1:]...)
		return store.Save(ctx, s.store, store.Expenses, expenses)
	}, store.Expenses)
	if err != nil {
		return domain.MessageResponse{}, err
	}
	return domain.MessageResponse{Message: "Expense deleted successfully"}, nil
}

func parseExpenseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, notFound("Expense not found")
	}
	return id, nil
}

func indexExpense(expenses []domain.Expense, id int64) int {
	for i := range expenses {
		if expenses[i].ID == id {
			return i
		}
	}
	return -1
}
