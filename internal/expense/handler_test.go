package expense_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense/memory"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Expense Handler", func() {
	var (
		repo   *memory.Store
		router *chi.Mux
	)

	BeforeEach(func() {
		repo = memory.New()
		now := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
		service := expense.NewService(repo, vocabulary{"Food", "Transport"}, expense.PageLimits{Default: 10, Max: 100}, logger.Discard()).
			WithClock(func() time.Time { return now })
		handler := expense.NewHandler(service)

		router = chi.NewRouter()
		router.Get("/expenses", handler.ListExpenses)
		router.Post("/expenses", handler.CreateExpense)
		router.Get("/expenses/years", handler.ListYears)
		router.Get("/expenses/{id}", handler.GetExpense)
		router.Put("/expenses/{id}", handler.UpdateExpense)
		router.Delete("/expenses/{id}", handler.DeleteExpense)
	})

	do := func(method, target string, userID int64, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, target, &buf)
		if userID > 0 {
			req = req.WithContext(errors.ContextWithUserID(context.Background(), userID))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	errorCode := func(w *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return body.Error.Code
	}

	It("should reject anonymous requests", func() {
		w := do(http.MethodGet, "/expenses", 0, nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should list a month page", func() {
		mustCreate(repo, 3, day(2024, 1, 10), "Food", 1000, "a")
		mustCreate(repo, 3, day(2024, 1, 12), "Transport", 300, "b")
		mustCreate(repo, 3, day(2023, 12, 31), "Food", 50, "c")

		w := do(http.MethodGet, "/expenses?year=2024&month=1&page=1&pageSize=1", 3, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var page expense.PageResult
		Expect(json.Unmarshal(w.Body.Bytes(), &page)).To(Succeed())
		Expect(page.Total).To(Equal(int64(2)))
		Expect(page.TotalPages).To(Equal(2))
		Expect(page.Items).To(HaveLen(1))
		Expect(page.Items[0].Description).To(Equal("b"))
	})

	It("should default to the current month", func() {
		w := do(http.MethodGet, "/expenses", 3, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	DescribeTable("should reject bad query parameters",
		func(query, code string) {
			w := do(http.MethodGet, "/expenses?"+query, 3, nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(w)).To(Equal(code))
		},
		Entry("non numeric year", "year=abc&month=1", string(errors.ErrCodeInvalidFilter)),
		Entry("month out of range", "year=2024&month=13", string(errors.ErrCodeInvalidFilter)),
		Entry("negative page size", "year=2024&month=1&pageSize=-1", string(errors.ErrCodeInvalidPageSize)),
		Entry("oversized page size", "year=2024&month=1&pageSize=1000", string(errors.ErrCodeInvalidPageSize)),
		Entry("non numeric page size", "year=2024&month=1&pageSize=ten", string(errors.ErrCodeInvalidPageSize)),
	)

	It("should list expenditure years", func() {
		mustCreate(repo, 3, day(2023, 5, 1), "Food", 1, "x")
		mustCreate(repo, 3, day(2024, 1, 1), "Food", 1, "y")

		w := do(http.MethodGet, "/expenses/years", 3, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"years":[2024,2023]}`))
	})

	It("should create, fetch, update and delete an expense", func() {
		w := do(http.MethodPost, "/expenses", 3, expense.CreateExpenseDTO{
			Date: "2024-01-15", Category: "Food", AmountCents: 1000, Description: "groceries",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created expense.Expense
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		path := "/expenses/" + strconv.FormatInt(created.ID, 10)

		w = do(http.MethodGet, path, 3, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPut, path, 3, expense.UpdateExpenseDTO{
			Date: "2024-01-16", Category: "Transport", AmountCents: 200, Description: "bus",
		})
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, path, 4, nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))

		w = do(http.MethodDelete, path, 3, nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, path, 3, nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(errorCode(w)).To(Equal(string(errors.ErrCodeExpenseNotFound)))
	})

	It("should return field errors for invalid payloads", func() {
		w := do(http.MethodPost, "/expenses", 3, expense.CreateExpenseDTO{Date: "2024-01-15", Category: "Travel", AmountCents: 0, Description: ""})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(w)).To(Equal(string(errors.ErrCodeValidationFailed)))
		Expect(w.Body.String()).To(ContainSubstring("amount_cents"))
		Expect(w.Body.String()).To(ContainSubstring("category"))
	})

	It("should reject malformed bodies and ids", func() {
		req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewBufferString("{not json"))
		req = req.WithContext(errors.ContextWithUserID(context.Background(), 3))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w = do(http.MethodGet, "/expenses/abc", 3, nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
