package main_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/frahmantamala/expense-tracker/api"
	"github.com/frahmantamala/expense-tracker/internal/auth"
	"github.com/frahmantamala/expense-tracker/internal/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense/memory"
	expensePostgres "github.com/frahmantamala/expense-tracker/internal/expense/postgres"
	"github.com/frahmantamala/expense-tracker/internal/summary"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/internal/transport/rest"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const e2eSecret = "end-to-end-secret-with-at-least-32-chars"

func newServer(repo expense.Repository) *httptest.Server {
	quiet := logger.Discard()
	limits := expense.PageLimits{Default: 10, Max: 100}
	categories := category.NewService([]string{"Food", "Transport", "Rent"}, quiet)
	tokens := auth.NewTokenManager(e2eSecret, time.Hour)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:     auth.NewHandler(tokens),
		Category: category.NewHandler(transport.NewBaseHandler(quiet), categories),
		Expense:  expense.NewHandler(expense.NewService(repo, categories, limits, quiet)),
		Summary:  summary.NewHandler(summary.NewService(repo, limits, quiet)),
		OpenAPI:  api.OpenAPI,
	}, quiet)
	return httptest.NewServer(router)
}

func sqliteRepository() expense.Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	Expect(err).NotTo(HaveOccurred())
	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)
	DeferCleanup(sqlDB.Close)
	Expect(db.AutoMigrate(&expenseDatamodel.Expense{})).To(Succeed())
	return expensePostgres.NewExpenseRepository(db)
}

type client struct {
	base  string
	token string
}

func (c client) do(method, path string, body interface{}) (int, []byte) {
	var buf bytes.Buffer
	if body != nil {
		ExpectWithOffset(1, json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return resp.StatusCode, raw
}

type stat struct {
	Category   string `json:"category"`
	Value      string `json:"value"`
	Percentage string `json:"percentage"`
}

func endToEnd(newRepo func() expense.Repository) {
	var (
		server *httptest.Server
		alice  client
		bob    client
	)

	BeforeEach(func() {
		server = newServer(newRepo())
		DeferCleanup(server.Close)

		tokens := auth.NewTokenManager(e2eSecret, time.Hour)
		aliceToken, _, err := tokens.Issue(1)
		Expect(err).NotTo(HaveOccurred())
		bobToken, _, err := tokens.Issue(2)
		Expect(err).NotTo(HaveOccurred())
		alice = client{base: server.URL + "/api/v1", token: aliceToken}
		bob = client{base: server.URL + "/api/v1", token: bobToken}

		for _, dto := range []expense.CreateExpenseDTO{
			{Date: "2024-01-05", Category: "Food", AmountCents: 1000, Description: "groceries"},
			{Date: "2024-01-12", Category: "Food", AmountCents: 500, Description: "lunch"},
			{Date: "2024-01-20", Category: "Transport", AmountCents: 300, Description: "bus pass"},
			{Date: "2024-02-02", Category: "Rent", AmountCents: 90000, Description: "february rent"},
		} {
			status, body := alice.do(http.MethodPost, "/expenses", dto)
			Expect(status).To(Equal(http.StatusCreated), string(body))
		}
		status, _ := bob.do(http.MethodPost, "/expenses", expense.CreateExpenseDTO{
			Date: "2024-01-07", Category: "Food", AmountCents: 4000, Description: "bob's dinner",
		})
		Expect(status).To(Equal(http.StatusCreated))
	})

	It("should report January 2024 for the owner only", func() {
		status, raw := alice.do(http.MethodGet, "/dashboard?year=2024&month=1", nil)
		Expect(status).To(Equal(http.StatusOK))

		var overview struct {
			TotalCents int64  `json:"total_cents"`
			Totals     []stat `json:"category_totals"`
			Averages   []stat `json:"category_averages"`
		}
		Expect(json.Unmarshal(raw, &overview)).To(Succeed())
		Expect(overview.TotalCents).To(Equal(int64(1800)))
		Expect(overview.Totals).To(ConsistOf(
			stat{Category: "Food", Value: "1500", Percentage: "83.33"},
			stat{Category: "Transport", Value: "300", Percentage: "16.67"},
		))
		Expect(overview.Averages).To(HaveLen(2))
	})

	It("should list the month page by page with identical repeats", func() {
		status, first := alice.do(http.MethodGet, "/expenses?year=2024&month=1&page=1&pageSize=2", nil)
		Expect(status).To(Equal(http.StatusOK))
		_, again := alice.do(http.MethodGet, "/expenses?year=2024&month=1&page=1&pageSize=2", nil)
		Expect(again).To(Equal(first))

		var page expense.PageResult
		Expect(json.Unmarshal(first, &page)).To(Succeed())
		Expect(page.Total).To(Equal(int64(3)))
		Expect(page.TotalPages).To(Equal(2))
		Expect(page.Items).To(HaveLen(2))
		Expect(page.Items[0].Description).To(Equal("bus pass"))
		Expect(page.Items[1].Description).To(Equal("lunch"))

		status, raw := alice.do(http.MethodGet, "/expenses?year=2024&month=1&page=7&pageSize=2", nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(raw, &page)).To(Succeed())
		Expect(page.Page).To(Equal(2))
		Expect(page.Items).To(HaveLen(1))
		Expect(page.Items[0].Description).To(Equal("groceries"))
	})

	It("should build the monthly report", func() {
		status, raw := alice.do(http.MethodGet, "/reports/monthly?year=2024&month=2", nil)
		Expect(status).To(Equal(http.StatusOK))

		var report struct {
			Years      []int              `json:"years"`
			TotalCents int64              `json:"total_cents"`
			Totals     []stat             `json:"category_totals"`
			Expenses   expense.PageResult `json:"expenses"`
		}
		Expect(json.Unmarshal(raw, &report)).To(Succeed())
		Expect(report.Years).To(Equal([]int{2024}))
		Expect(report.TotalCents).To(Equal(int64(90000)))
		Expect(report.Totals).To(ConsistOf(stat{Category: "Rent", Value: "90000", Percentage: "100"}))
		Expect(report.Expenses.Items).To(HaveLen(1))
	})

	It("should return empty aggregates for a month without expenses", func() {
		status, raw := alice.do(http.MethodGet, "/dashboard?year=2023&month=6", nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(raw).To(MatchJSON(`{"year":2023,"month":6,"total_cents":0,"category_totals":[],"category_averages":[]}`))
	})

	It("should enforce ownership and authentication", func() {
		status, raw := alice.do(http.MethodGet, "/expenses?year=2024&month=1", nil)
		Expect(status).To(Equal(http.StatusOK))
		var page expense.PageResult
		Expect(json.Unmarshal(raw, &page)).To(Succeed())
		id := page.Items[0].ID

		status, _ = bob.do(http.MethodGet, "/expenses/"+strconv.FormatInt(id, 10), nil)
		Expect(status).To(Equal(http.StatusForbidden))
		status, _ = bob.do(http.MethodDelete, "/expenses/"+strconv.FormatInt(id, 10), nil)
		Expect(status).To(Equal(http.StatusForbidden))

		anonymous := client{base: alice.base}
		status, _ = anonymous.do(http.MethodGet, "/dashboard", nil)
		Expect(status).To(Equal(http.StatusUnauthorized))

		forged := client{base: alice.base, token: alice.token + "x"}
		status, _ = forged.do(http.MethodGet, "/dashboard", nil)
		Expect(status).To(Equal(http.StatusUnauthorized))
	})

	It("should reject bad filters and page sizes", func() {
		status, _ := alice.do(http.MethodGet, "/expenses?year=2024&month=13", nil)
		Expect(status).To(Equal(http.StatusBadRequest))
		status, _ = alice.do(http.MethodGet, "/expenses?year=2024&month=1&pageSize=0", nil)
		Expect(status).To(Equal(http.StatusOK))
		status, _ = alice.do(http.MethodGet, "/expenses?year=2024&month=1&pageSize=101", nil)
		Expect(status).To(Equal(http.StatusBadRequest))
	})
}

var _ = Describe("Expense tracker end to end", func() {
	Context("on the in-memory store", func() {
		endToEnd(func() expense.Repository { return memory.New() })
	})

	Context("on gorm over sqlite", func() {
		endToEnd(sqliteRepository)
	})
})
