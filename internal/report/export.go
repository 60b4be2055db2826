package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"dukkan/backend/internal/domain"
)

type summaryRow struct {
	Section string `csv:"section"`
	Key     string `csv:"key"`
	Value   string `csv:"value"`
}

func summaryRows(r domain.Report) []summaryRow {
	rows := []summaryRow{
		{"summary", "date", r.Date.String()},
		{"summary", "carts", strconv.Itoa(len(r.Carts))},
		{"summary", "total_carts", formatAmount(r.TotalCarts)},
		{"summary", "total_expenses", formatAmount(r.TotalExpenses)},
		{"summary", "total_debts", formatAmount(r.TotalDebts)},
		{"summary", "total_sold_items", strconv.Itoa(r.TotalSoldItems)},
		{"summary", "total_sold_items_cost_lbp", formatAmount(r.TotalSoldItemsCostLBP)},
		{"summary", "total_sold_items_cost_usd", formatAmount(r.TotalSoldItemsCostUSD)},
		{"best_seller", "by_quantity", cellText(leaderName(r.BestSellingByQuantity.Name))},
		{"best_seller", "by_revenue", cellText(leaderName(r.BestSellingByRevenue.Name))},
		{"best_seller", "by_profit", cellText(leaderName(r.BestSellingByProfit.Name))},
	}
	for _, p := range r.ProductSales {
		rows = append(rows,
			summaryRow{"product", cellText(p.Name + "_quantity"), strconv.Itoa(p.Quantity)},
			summaryRow{"product", cellText(p.Name + "_revenue"), formatAmount(p.TotalRevenue)},
			summaryRow{"product", cellText(p.Name + "_profit"), formatAmount(p.TotalProfit)},
		)
	}
	return rows
}

// cellText keeps spreadsheet apps from evaluating user text as a formula.
func cellText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func ToCSV(r domain.Report) ([]byte, error) {
	rows := summaryRows(r)
	return gocsv.MarshalBytes(&rows)
}

func ToXLSX(r domain.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	if err := setRow(f, summary, 1, "Section", "Key", "Value"); err != nil {
		return nil, err
	}
	for i, row := range summaryRows(r) {
		if err := setRow(f, summary, i+2, row.Section, row.Key, row.Value); err != nil {
			return nil, err
		}
	}

	const carts = "Carts"
	if _, err := f.NewSheet(carts); err != nil {
		return nil, err
	}
	if err := setRow(f, carts, 1, "ID", "Time", "Name", "Items", "Total", "Currency"); err != nil {
		return nil, err
	}
	for i, cart := range r.Carts {
		items := 0
		for _, item := range cart.Products {
			items += item.Quantity
		}
		if err := setRow(f, carts, i+2, cellText(string(cart.ID)), cart.Time, cellText(cart.CartName), items, cart.TotalAmount, cart.Currency); err != nil {
			return nil, err
		}
	}

	const expenses = "Expenses"
	if _, err := f.NewSheet(expenses); err != nil {
		return nil, err
	}
	if err := setRow(f, expenses, 1, "ID", "Label", "Price", "Currency"); err != nil {
		return nil, err
	}
	for i, expense := range r.Expenses {
		if err := setRow(f, expenses, i+2, expense.ID, cellText(expense.Label), expense.Price, expense.Currency); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// html/template escapes product and cart names.
var htmlTmpl = template.Must(template.New("daily-report").Funcs(template.FuncMap{
	"amount": formatAmount,
	"leader": leaderName,
}).Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Daily Report {{.Date}}</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #ddd; padding: 6px; font-size: 13px; }
    h2, h3 { margin-bottom: 4px; }
  </style>
</head>
<body>
  <h2>Daily Report {{.Date}}</h2>
  <p>Sales: {{amount .TotalCarts}} | Expenses: {{amount .TotalExpenses}} | Debts: {{amount .TotalDebts}}</p>
  <p>Items sold: {{.TotalSoldItems}} | Cost LBP: {{amount .TotalSoldItemsCostLBP}} | Cost USD: {{amount .TotalSoldItemsCostUSD}}</p>
  <p>Best seller by quantity: {{leader .BestSellingByQuantity.Name}} | by revenue: {{leader .BestSellingByRevenue.Name}} | by profit: {{leader .BestSellingByProfit.Name}}</p>

  <h3>Products</h3>
  <table>
    <thead><tr><th>Name</th><th>Quantity</th><th>Revenue</th><th>Profit</th></tr></thead>
    <tbody>{{range .ProductSales}}<tr><td>{{.Name}}</td><td style="text-align:right;">{{.Quantity}}</td><td style="text-align:right;">{{amount .TotalRevenue}}</td><td style="text-align:right;">{{amount .TotalProfit}}</td></tr>{{end}}</tbody>
  </table>

  <h3>Expenses</h3>
  <table>
    <thead><tr><th>Label</th><th>Price</th><th>Currency</th></tr></thead>
    <tbody>{{range .Expenses}}<tr><td>{{.Label}}</td><td style="text-align:right;">{{amount .Price}}</td><td>{{.Currency}}</td></tr>{{end}}</tbody>
  </table>
</body>
</html>
`))

func ToHTML(r domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func leaderName(name *string) string {
	if name == nil {
		return "-"
	}
	return *name
}
