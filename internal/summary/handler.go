package summary

import (
	"context"
	"net/http"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

type ServiceAPI interface {
	Overview(ctx context.Context, criteria expense.FilterCriteria) (Overview, error)
	MonthlyReport(ctx context.Context, criteria expense.FilterCriteria, page, pageSize int) (Report, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	now     func() time.Time
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
		now:         time.Now,
	}
}

func (h *Handler) criteria(w http.ResponseWriter, r *http.Request, op string) (expense.FilterCriteria, bool) {
	userID, ok := errors.UserIDFromContext(r.Context())
	if !ok {
		h.Logger.Error(op + ": user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return expense.FilterCriteria{}, false
	}
	year, month, err := expense.Period(h.BaseHandler, r, h.now())
	if err != nil {
		h.HandleServiceError(w, err)
		return expense.FilterCriteria{}, false
	}
	return expense.NewFilterCriteria(userID, year, month), true
}

// GetDashboard handles GET /dashboard?year=&month=
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.criteria(w, r, "GetDashboard")
	if !ok {
		return
	}

	overview, err := h.Service.Overview(r.Context(), criteria)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, overview)
}

// GetMonthlyReport handles GET /reports/monthly?year=&month=&page=&pageSize=
func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.criteria(w, r, "GetMonthlyReport")
	if !ok {
		return
	}
	page, pageSize, err := expense.Paging(h.BaseHandler, r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	report, err := h.Service.MonthlyReport(r.Context(), criteria, page, pageSize)
	if err != nil {
		h.Logger.Error("GetMonthlyReport: service error", "error", err, "criteria", criteria.String())
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}
