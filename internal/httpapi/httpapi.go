package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/lock"
	"dukkan/backend/internal/metrics"
	"dukkan/backend/internal/report"
	"dukkan/backend/internal/service"
	"dukkan/backend/internal/store"
)

type API struct {
	service       *service.Service
	metrics       *metrics.Metrics
	allowedOrigin string
}

func New(svc *service.Service, m *metrics.Metrics, allowedOrigin string) *API {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &API{
		service:       svc,
		metrics:       m,
		allowedOrigin: allowedOrigin,
	}
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.handleHealth)
	if a.metrics != nil {
		mux.Handle("GET /metrics", a.metrics.Handler())
	}

	mux.HandleFunc("GET /api/products", a.handleListProducts)
	mux.HandleFunc("POST /api/products", a.handleCreateProduct)
	mux.HandleFunc("PUT /api/products/{id}", a.handleUpdateProduct)
	mux.HandleFunc("DELETE /api/products/delete/{id}", a.handleDeleteProduct)
	mux.HandleFunc("GET /api/products/calculateprices", a.handleCalculatePrices)
	mux.HandleFunc("GET /api/products/updatePrices", a.handleUpdatePrices)

	mux.HandleFunc("GET /api/carts", a.handleListCarts)
	mux.HandleFunc("POST /api/carts", a.handleCreateCart)
	mux.HandleFunc("GET /api/carts/{id}", a.handleGetCart)
	mux.HandleFunc("PUT /api/carts/{id}", a.handleUpdateCart)
	mux.HandleFunc("DELETE /api/carts/{id}", a.handleDeleteCart)

	mux.HandleFunc("GET /api/debts", a.handleListDebts)
	mux.HandleFunc("POST /api/debts", a.handleCreateDebt)
	mux.HandleFunc("DELETE /api/debts/{id}", a.handleDeleteDebt)

	mux.HandleFunc("GET /api/expenses", a.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", a.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", a.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", a.handleDeleteExpense)

	mux.HandleFunc("POST /api/reports", a.handleDailyReport)

	return a.withMiddleware(mux)
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.service.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	product, err := a.service.CreateProduct(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	resp, err := a.service.UpdateProduct(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	deleted, err := a.service.DeleteProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func (a *API) handleCalculatePrices(w http.ResponseWriter, r *http.Request) {
	products, err := a.service.CalculatePrices(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) handleUpdatePrices(w http.ResponseWriter, r *http.Request) {
	products, err := a.service.UpdatePrices(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) handleListCarts(w http.ResponseWriter, r *http.Request) {
	carts, err := a.service.ListCarts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, carts)
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := a.service.GetCart(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (a *API) handleCreateCart(w http.ResponseWriter, r *http.Request) {
	var req domain.CartCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	cart, err := a.service.CreateCart(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cart)
}

func (a *API) handleUpdateCart(w http.ResponseWriter, r *http.Request) {
	var req domain.CartUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	cart, err := a.service.UpdateCart(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (a *API) handleDeleteCart(w http.ResponseWriter, r *http.Request) {
	resp, err := a.service.DeleteCart(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := a.service.ListDebts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, debts)
}

func (a *API) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req domain.DebtCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	debt, err := a.service.CreateDebt(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, debt)
}

func (a *API) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	resp, err := a.service.DeleteDebt(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := a.service.ListExpenses(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (a *API) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req domain.ExpenseCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	expense, err := a.service.CreateExpense(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (a *API) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req domain.ExpenseUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	expense, err := a.service.UpdateExpense(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (a *API) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	resp, err := a.service.DeleteExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

const invalidReportDate = "Invalid date format. Please provide day, month, and year."

func (a *API) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	var date domain.CalendarDate
	if err := decodeJSON(r, &date); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.New(invalidReportDate))
		return
	}

	rep, err := a.service.DailyReport(r.Context(), date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	var (
		body        []byte
		contentType string
	)
	switch format {
	case "", "json":
		writeJSON(w, http.StatusOK, rep)
		return
	case "csv":
		body, err = report.ToCSV(rep)
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		body, err = report.ToXLSX(rep)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "html":
		body, err = report.ToHTML(rep)
		contentType = "text/html; charset=utf-8"
	default:
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("unsupported report format %q", format))
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if format != "html" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"daily-report-%s.%s\"", rep.Date, format))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// decodeJSON reads an optional JSON body. Unknown fields are ignored because
// older clients send extra record fields; an empty body decodes as {}.
func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body too large")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// statusFor maps service errors onto HTTP statuses. Invalid input is checked
// first so an unknown product inside a cart stays a client error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, store.ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lock.ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, statusFor(err), err)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	// 5xx details stay in the log; clients get a generic message.
	msg := err.Error()
	if status >= 500 {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"request_id", RequestIDFrom(r.Context()),
			"error", err,
		)
		msg = "internal server error"
		if errors.Is(err, lock.ErrBusy) {
			msg = lock.ErrBusy.Error()
		}
	}
	writeJSON(w, status, domain.MessageResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
