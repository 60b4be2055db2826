package report

import (
	"github.com/shopspring/decimal"

	"dukkan/backend/internal/domain"
)

type productTally struct {
	name     string
	quantity int
	revenue  decimal.Decimal
	profit   decimal.Decimal
}

// Aggregate builds the daily report for date. Carts and expenses are kept
// only when their date equals date exactly; debts are never filtered and
// totalDebts covers all of them.
func Aggregate(date domain.CalendarDate, carts []domain.Cart, expenses []domain.Expense, debts []domain.Debt) domain.Report {
	report := domain.Report{
		Date:         date,
		Carts:        make([]domain.Cart, 0),
		Expenses:     make([]domain.Expense, 0),
		Debts:        make([]domain.Debt, 0, len(debts)),
		ProductSales: make([]domain.ProductSales, 0),
	}

	totalCarts := decimal.Zero
	costLBP := decimal.Zero
	costUSD := decimal.Zero
	tallies := make([]productTally, 0)
	byName := make(map[string]int)

	for _, cart := range carts {
		if cart.Date != date {
			continue
		}
		report.Carts = append(report.Carts, cart)
		totalCarts = totalCarts.Add(decimal.NewFromFloat(cart.TotalAmount))

		for _, item := range cart.Products {
			qty := decimal.NewFromInt(int64(item.Quantity))
			price := decimal.NewFromFloat(item.Price)
			itemCostLBP := decimal.NewFromFloat(item.CostLBP)

			report.TotalSoldItems += item.Quantity
			costLBP = costLBP.Add(itemCostLBP.Mul(qty))
			costUSD = costUSD.Add(decimal.NewFromFloat(item.CostUSD).Mul(qty))

			idx, ok := byName[item.Name]
			if !ok {
				idx = len(tallies)
				byName[item.Name] = idx
				tallies = append(tallies, productTally{name: item.Name, revenue: decimal.Zero, profit: decimal.Zero})
			}
			tallies[idx].quantity += item.Quantity
			tallies[idx].revenue = tallies[idx].revenue.Add(price.Mul(qty))
			// profit is measured against the LBP cost whatever the sale currency
			tallies[idx].profit = tallies[idx].profit.Add(price.Sub(itemCostLBP).Mul(qty))
		}
	}

	totalExpenses := decimal.Zero
	for _, expense := range expenses {
		if expense.Date != date {
			continue
		}
		report.Expenses = append(report.Expenses, expense)
		totalExpenses = totalExpenses.Add(decimal.NewFromFloat(expense.Price))
	}

	totalDebts := decimal.Zero
	for _, debt := range debts {
		report.Debts = append(report.Debts, debt)
		totalDebts = totalDebts.Add(decimal.NewFromFloat(debt.TotalAmount))
	}

	report.TotalCarts = totalCarts.InexactFloat64()
	report.TotalExpenses = totalExpenses.InexactFloat64()
	report.TotalDebts = totalDebts.InexactFloat64()
	report.TotalSoldItemsCostLBP = costLBP.InexactFloat64()
	report.TotalSoldItemsCostUSD = costUSD.InexactFloat64()

	for _, tally := range tallies {
		report.ProductSales = append(report.ProductSales, domain.ProductSales{
			Name:         tally.name,
			Quantity:     tally.quantity,
			TotalRevenue: tally.revenue.InexactFloat64(),
			TotalProfit:  tally.profit.InexactFloat64(),
		})
	}
	report.BestSellingByQuantity, report.BestSellingByRevenue, report.BestSellingByProfit = bestSellers(tallies)

	return report
}

// bestSellers scans tallies in first-seen order. A later product only takes
// the lead when strictly greater, so ties go to the earlier one and a metric
// that never rises above zero has no leader.
func bestSellers(tallies []productTally) (domain.QuantityLeader, domain.RevenueLeader, domain.ProfitLeader) {
	var (
		byQty     domain.QuantityLeader
		byRevenue domain.RevenueLeader
		byProfit  domain.ProfitLeader
	)
	maxRevenue := decimal.Zero
	maxProfit := decimal.Zero

	for i := range tallies {
		tally := tallies[i]
		name := tally.name
		if tally.quantity > byQty.Quantity {
			byQty = domain.QuantityLeader{Name: &name, Quantity: tally.quantity}
		}
		if tally.revenue.GreaterThan(maxRevenue) {
			maxRevenue = tally.revenue
			byRevenue = domain.RevenueLeader{Name: &name, TotalRevenue: tally.revenue.InexactFloat64()}
		}
		if tally.profit.GreaterThan(maxProfit) {
			maxProfit = tally.profit
			byProfit = domain.ProfitLeader{Name: &name, TotalProfit: tally.profit.InexactFloat64()}
		}
	}
	return byQty, byRevenue, byProfit
}
