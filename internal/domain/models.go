package domain

type Product struct {
	ID                int64   `json:"id"`
	Barcode           string  `json:"barcode,omitempty"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency"`
	Section           string  `json:"section"`
	Category          string  `json:"category"`
	Img               string  `json:"img,omitempty"`
	AvailableQuantity int     `json:"availableQuantity"`
	CostLBP           float64 `json:"costLBP"`
	CostUSD           float64 `json:"costUSD"`
	SuggestedPrice    float64 `json:"suggestedPrice,omitempty"`
}

type ProductCreateRequest struct {
	Barcode           string  `json:"barcode"`
	Name              string  `json:"name" validate:"required"`
	Price             float64 `json:"price" validate:"gt=0"`
	Currency          string  `json:"currency" validate:"required"`
	Section           string  `json:"section" validate:"required"`
	Category          string  `json:"category" validate:"required"`
	Img               string  `json:"img"`
	AvailableQuantity int     `json:"availableQuantity" validate:"gte=0"`
	CostLBP           float64 `json:"costLBP" validate:"gte=0"`
	CostUSD           float64 `json:"costUSD" validate:"gte=0"`
}

type ProductUpdateRequest struct {
	Barcode           *string  `json:"barcode,omitempty"`
	Name              *string  `json:"name,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	Currency          *string  `json:"currency,omitempty"`
	Section           *string  `json:"section,omitempty"`
	Category          *string  `json:"category,omitempty"`
	Img               *string  `json:"img,omitempty"`
	AvailableQuantity *int     `json:"availableQuantity,omitempty"`
	CostLBP           *float64 `json:"costLBP,omitempty"`
	CostUSD           *float64 `json:"costUSD,omitempty"`
}

type ProductUpdateResponse struct {
	Message        string  `json:"message"`
	UpdatedProduct Product `json:"updatedProduct"`
}

// CartLineItem is a product/quantity pair embedded in a cart or a debt. ID
// refers to Product.ID; the remaining fields are a snapshot taken by the
// client at sale time.
type CartLineItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	CostLBP  float64 `json:"costLBP"`
	CostUSD  float64 `json:"costUSD"`
}

type Cart struct {
	ID          FlexString     `json:"id"`
	Products    []CartLineItem `json:"products"`
	TotalAmount float64        `json:"totalAmount"`
	Currency    string         `json:"currency,omitempty"`
	CartName    string         `json:"cartName,omitempty"`
	CartNumber  FlexString     `json:"cartNumber,omitempty"`
	CartNotes   string         `json:"cartNotes,omitempty"`
	Date        CalendarDate   `json:"date"`
	Time        string         `json:"time"`
}

type CartCreateRequest struct {
	CartID      FlexString     `json:"cartid,omitempty"`
	Products    []CartLineItem `json:"products"`
	TotalAmount float64        `json:"totalAmount"`
	Currency    string         `json:"currency"`
	CartName    string         `json:"cartName"`
	Name        string         `json:"name"`
	CartNumber  FlexString     `json:"cartNumber"`
	CartNotes   string         `json:"cartNotes"`
	Date        CalendarDate   `json:"date"`
	Time        string         `json:"time"`
}

type CartUpdateRequest struct {
	Products    *[]CartLineItem `json:"products,omitempty"`
	TotalAmount *float64        `json:"totalAmount,omitempty"`
	Currency    *string         `json:"currency,omitempty"`
	CartName    *string         `json:"cartName,omitempty"`
	CartNumber  *FlexString     `json:"cartNumber,omitempty"`
	CartNotes   *string         `json:"cartNotes,omitempty"`
	Date        *CalendarDate   `json:"date,omitempty"`
	Time        *string         `json:"time,omitempty"`
}

type Debt struct {
	ID          FlexString     `json:"id"`
	Products    []CartLineItem `json:"products"`
	TotalAmount float64        `json:"totalAmount"`
	Currency    string         `json:"currency,omitempty"`
	Label       string         `json:"label,omitempty"`
	CartNumber  FlexString     `json:"cartNumber,omitempty"`
	CartNotes   string         `json:"cartNotes,omitempty"`
	Date        CalendarDate   `json:"date"`
	Time        string         `json:"time"`
}

type DebtCreateRequest struct {
	Products    []CartLineItem `json:"products"`
	TotalAmount float64        `json:"totalAmount"`
	Currency    string         `json:"currency"`
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	CartNumber  FlexString     `json:"cartNumber"`
	CartNotes   string         `json:"cartNotes"`
}

type Expense struct {
	ID       int64        `json:"id"`
	Label    string       `json:"label"`
	Price    float64      `json:"price"`
	Currency string       `json:"currency"`
	Date     CalendarDate `json:"date"`
}

type ExpenseCreateRequest struct {
	Label    string       `json:"label" validate:"required"`
	Price    float64      `json:"price" validate:"gt=0"`
	Currency string       `json:"currency" validate:"required"`
	Date     CalendarDate `json:"date"`
}

type ExpenseUpdateRequest struct {
	Label    *string       `json:"label,omitempty"`
	Price    *float64      `json:"price,omitempty"`
	Currency *string       `json:"currency,omitempty"`
	Date     *CalendarDate `json:"date,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type QuantityLeader struct {
	Name     *string `json:"name"`
	Quantity int     `json:"quantity"`
}

type RevenueLeader struct {
	Name         *string `json:"name"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type ProfitLeader struct {
	Name        *string `json:"name"`
	TotalProfit float64 `json:"totalProfit"`
}

// ProductSales accumulates one product's figures across the carts of a day.
type ProductSales struct {
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalProfit  float64 `json:"totalProfit"`
}

type Report struct {
	Date                  CalendarDate   `json:"date"`
	Carts                 []Cart         `json:"carts"`
	Expenses              []Expense      `json:"expenses"`
	Debts                 []Debt         `json:"debts"`
	TotalCarts            float64        `json:"totalCarts"`
	TotalExpenses         float64        `json:"totalExpenses"`
	TotalDebts            float64        `json:"totalDebts"`
	TotalSoldItems        int            `json:"totalSoldItems"`
	TotalSoldItemsCostLBP float64        `json:"totalSoldItemsCostLBP"`
	TotalSoldItemsCostUSD float64        `json:"totalSoldItemsCostUSD"`
	BestSellingByQuantity QuantityLeader `json:"bestSellingByQuantity"`
	BestSellingByRevenue  RevenueLeader  `json:"bestSellingByRevenue"`
	BestSellingByProfit   ProfitLeader   `json:"bestSellingByProfit"`
	ProductSales          []ProductSales `json:"productSales"`
}
