package summary_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense/expensetest"
	"github.com/frahmantamala/expense-tracker/internal/expense/memory"
	"github.com/frahmantamala/expense-tracker/internal/summary"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Summary Handler", func() {
	var (
		repo    *memory.Store
		handler *summary.Handler
	)

	BeforeEach(func() {
		repo = memory.New()
		handler = summary.NewHandler(summary.NewService(repo, expense.PageLimits{Default: 10, Max: 100}, logger.Discard()))

		expensetest.Seed(repo, 1, expensetest.Day(2024, 1, 5), "Food", 1000)
		expensetest.Seed(repo, 1, expensetest.Day(2024, 1, 12), "Food", 500)
		expensetest.Seed(repo, 1, expensetest.Day(2024, 1, 20), "Transport", 300)
	})

	serve := func(h http.HandlerFunc, target string, userID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if userID > 0 {
			req = req.WithContext(errors.ContextWithUserID(context.Background(), userID))
		}
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	It("should render the dashboard with decimal strings", func() {
		w := serve(handler.GetDashboard, "/dashboard?year=2024&month=1", 1)
		Expect(w.Code).To(Equal(http.StatusOK))

		var body struct {
			TotalCents int64 `json:"total_cents"`
			Totals     []struct {
				Category   string `json:"category"`
				Value      string `json:"value"`
				Percentage string `json:"percentage"`
			} `json:"category_totals"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.TotalCents).To(Equal(int64(1800)))
		Expect(body.Totals).To(ConsistOf(
			SatisfyAll(HaveField("Category", "Food"), HaveField("Value", "1500"), HaveField("Percentage", "83.33")),
			SatisfyAll(HaveField("Category", "Transport"), HaveField("Value", "300"), HaveField("Percentage", "16.67")),
		))
	})

	It("should render the monthly report with a page of expenses", func() {
		w := serve(handler.GetMonthlyReport, "/reports/monthly?year=2024&month=1&page=2&pageSize=2", 1)
		Expect(w.Code).To(Equal(http.StatusOK))

		var body struct {
			Years    []int              `json:"years"`
			Expenses expense.PageResult `json:"expenses"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Years).To(Equal([]int{2024}))
		Expect(body.Expenses.Page).To(Equal(2))
		Expect(body.Expenses.Items).To(HaveLen(1))
		Expect(body.Expenses.Items[0].AmountCents).To(Equal(int64(1000)))
	})

	It("should reject anonymous callers", func() {
		w := serve(handler.GetDashboard, "/dashboard", 0)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should map invalid filters to 400", func() {
		w := serve(handler.GetDashboard, "/dashboard?year=2024&month=0", 1)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(string(errors.ErrCodeInvalidFilter)))

		w = serve(handler.GetMonthlyReport, "/reports/monthly?year=2024&month=1&pageSize=-2", 1)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(string(errors.ErrCodeInvalidPageSize)))
	})
})
