package expense

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, userID int64, year, month, page, pageSize int) (PageResult, error)
	ExpenditureYears(ctx context.Context, userID int64) ([]int, error)
	Create(ctx context.Context, userID int64, dto CreateExpenseDTO) (*Expense, error)
	Get(ctx context.Context, userID, id int64) (*Expense, error)
	Update(ctx context.Context, userID, id int64, dto UpdateExpenseDTO) (*Expense, error)
	Delete(ctx context.Context, userID, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	now     func() time.Time
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		now:         time.Now,
	}
}

// Period reads year and month from the query string, defaulting each to the
// current calendar period.
func Period(h *transport.BaseHandler, r *http.Request, now time.Time) (year, month int, err error) {
	defYear, defMonth := CurrentPeriod(now)
	year, ok := h.QueryInt(r, "year", defYear)
	if !ok {
		return 0, 0, errors.ErrInvalidFilter.WithMessage("year must be a number")
	}
	month, ok = h.QueryInt(r, "month", defMonth)
	if !ok {
		return 0, 0, errors.ErrInvalidFilter.WithMessage("month must be a number")
	}
	return year, month, nil
}

// Paging reads page and pageSize; a missing page size comes back as 0 so the
// service applies its default.
func Paging(h *transport.BaseHandler, r *http.Request) (page, pageSize int, err error) {
	page, ok := h.QueryInt(r, "page", 1)
	if !ok {
		return 0, 0, errors.NewValidationFieldError("page", "page must be a number", errors.ErrCodeValidationFailed)
	}
	pageSize, ok = h.QueryInt(r, "pageSize", 0)
	if !ok {
		return 0, 0, errors.ErrInvalidPageSize.WithMessage("pageSize must be a number")
	}
	return page, pageSize, nil
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	userID, ok := errors.UserIDFromContext(r.Context())
	if !ok {
		h.Logger.Error(op + ": user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return userID, true
}

func (h *Handler) expenseID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.Logger.Error(op+": invalid expense ID", "id", raw)
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return 0, false
	}
	return id, true
}

// ListExpenses handles GET /expenses?year=&month=&page=&pageSize=
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "ListExpenses")
	if !ok {
		return
	}

	year, month, err := Period(h.BaseHandler, r, h.now())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	page, pageSize, err := Paging(h.BaseHandler, r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.List(r.Context(), userID, year, month, page, pageSize)
	if err != nil {
		h.Logger.Error("ListExpenses: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// ListYears handles GET /expenses/years
func (h *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "ListYears")
	if !ok {
		return
	}

	years, err := h.Service.ExpenditureYears(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, YearsResponse{Years: years})
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "CreateExpense")
	if !ok {
		return
	}

	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := h.Service.Create(r.Context(), userID, dto)
	if err != nil {
		h.Logger.Error("CreateExpense: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "GetExpense")
	if !ok {
		return
	}
	id, ok := h.expenseID(w, r, "GetExpense")
	if !ok {
		return
	}

	expense, err := h.Service.Get(r.Context(), userID, id)
	if err != nil {
		h.Logger.Error("GetExpense: service error", "error", err, "expense_id", id, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "UpdateExpense")
	if !ok {
		return
	}
	id, ok := h.expenseID(w, r, "UpdateExpense")
	if !ok {
		return
	}

	var dto UpdateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := h.Service.Update(r.Context(), userID, id, dto)
	if err != nil {
		h.Logger.Error("UpdateExpense: service error", "error", err, "expense_id", id, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, "DeleteExpense")
	if !ok {
		return
	}
	id, ok := h.expenseID(w, r, "DeleteExpense")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		h.Logger.Error("DeleteExpense: service error", "error", err, "expense_id", id, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
