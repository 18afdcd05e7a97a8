// Package expensetest holds the behaviour every expense.Repository must share,
// written as ginkgo specs so each store's suite can run it.
package expensetest

import (
	"context"
	stderrors "errors"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func Day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Seed stores an expense and returns it with its assigned id.
func Seed(repo expense.Repository, userID int64, date time.Time, category string, amount int64) *expense.Expense {
	e := expense.NewExpense(userID, date, category, amount, category+" on "+date.Format(expense.DateLayout))
	ExpectWithOffset(1, repo.Create(context.Background(), e)).To(Succeed())
	return e
}

func amounts(rows []expense.CategoryAmount) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Category] = r.Amount.StringFixed(2)
	}
	return out
}

// RepositoryContract registers the shared repository specs. newRepo is called
// before every test and must return an empty repository.
func RepositoryContract(newRepo func() expense.Repository) {
	var (
		ctx  context.Context
		repo expense.Repository
		jan  expense.FilterCriteria
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newRepo()
		jan = expense.NewFilterCriteria(1, 2024, 1)
	})

	Describe("entry lifecycle", func() {
		It("should assign ids and round-trip every field", func() {
			created := Seed(repo, 1, Day(2024, 1, 15), "Food", 1000)
			Expect(created.ID).To(BeNumerically(">", 0))

			got, err := repo.GetByID(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.UserID).To(Equal(int64(1)))
			Expect(got.Date).To(Equal(Day(2024, 1, 15)))
			Expect(got.Category).To(Equal("Food"))
			Expect(got.AmountCents).To(Equal(int64(1000)))
			Expect(got.Description).To(Equal(created.Description))
		})

		It("should replace fields on update", func() {
			created := Seed(repo, 1, Day(2024, 1, 15), "Food", 1000)
			created.Replace(Day(2024, 2, 1), "Rent", 50000, "february rent")
			Expect(repo.Update(ctx, created)).To(Succeed())

			got, err := repo.GetByID(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Date).To(Equal(Day(2024, 2, 1)))
			Expect(got.Category).To(Equal("Rent"))
			Expect(got.AmountCents).To(Equal(int64(50000)))
			Expect(got.Description).To(Equal("february rent"))
		})

		It("should report missing rows", func() {
			_, err := repo.GetByID(ctx, 4242)
			Expect(err).To(MatchError(errors.ErrExpenseNotFound))

			Expect(repo.Update(ctx, &expense.Expense{ID: 4242, UserID: 1, Date: Day(2024, 1, 1), Category: "Food", AmountCents: 1, Description: "x"})).
				To(MatchError(errors.ErrExpenseNotFound))
			Expect(repo.Delete(ctx, 4242)).To(MatchError(errors.ErrExpenseNotFound))
		})

		It("should delete rows", func() {
			created := Seed(repo, 1, Day(2024, 1, 15), "Food", 1000)
			Expect(repo.Delete(ctx, created.ID)).To(Succeed())
			_, err := repo.GetByID(ctx, created.ID)
			Expect(err).To(MatchError(errors.ErrExpenseNotFound))
		})
	})

	Describe("filtered queries", func() {
		BeforeEach(func() {
			Seed(repo, 1, Day(2024, 1, 10), "Food", 1000)
			Seed(repo, 1, Day(2024, 1, 20), "Food", 500)
			Seed(repo, 1, Day(2024, 1, 20), "Transport", 300)
			Seed(repo, 1, Day(2024, 1, 31), "Transport", 200)
			Seed(repo, 1, Day(2023, 12, 31), "Food", 7000)
			Seed(repo, 1, Day(2024, 2, 1), "Food", 9000)
			Seed(repo, 2, Day(2024, 1, 15), "Food", 8000)
		})

		It("should count and sum only the user's month", func() {
			count, err := repo.CountMatching(ctx, jan)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(4)))

			total, err := repo.SumMatching(ctx, jan)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2000)))
		})

		It("should order by date descending then id ascending", func() {
			rows, err := repo.FindMatching(ctx, jan, 0, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(4))

			Expect(rows[0].Date).To(Equal(Day(2024, 1, 31)))
			Expect(rows[1].Date).To(Equal(Day(2024, 1, 20)))
			Expect(rows[2].Date).To(Equal(Day(2024, 1, 20)))
			Expect(rows[1].ID).To(BeNumerically("<", rows[2].ID))
			Expect(rows[1].Category).To(Equal("Food"))
			Expect(rows[3].Date).To(Equal(Day(2024, 1, 10)))
		})

		It("should apply offset and limit", func() {
			rows, err := repo.FindMatching(ctx, jan, 1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Date).To(Equal(Day(2024, 1, 20)))
			Expect(rows[1].Date).To(Equal(Day(2024, 1, 20)))

			rows, err = repo.FindMatching(ctx, jan, 4, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})

		It("should group sums by category", func() {
			rows, err := repo.SumByCategory(ctx, jan)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(amounts(rows)).To(Equal(map[string]string{"Food": "1500.00", "Transport": "500.00"}))
		})

		It("should average by category in the store", func() {
			rows, err := repo.AverageByCategory(ctx, jan)
			Expect(err).NotTo(HaveOccurred())
			Expect(amounts(rows)).To(Equal(map[string]string{"Food": "750.00", "Transport": "250.00"}))
		})

		It("should list distinct years newest first", func() {
			years, err := repo.DistinctYears(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(years).To(Equal([]int{2024, 2023}))

			years, err = repo.DistinctYears(ctx, 99)
			Expect(err).NotTo(HaveOccurred())
			Expect(years).To(BeEmpty())
		})

		It("should match nothing for an out of range month", func() {
			thirteenth := expense.NewFilterCriteria(1, 2023, 13)

			count, err := repo.CountMatching(ctx, thirteenth)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())

			total, err := repo.SumMatching(ctx, thirteenth)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())

			rows, err := repo.FindMatching(ctx, thirteenth, 0, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())

			groups, err := repo.SumByCategory(ctx, thirteenth)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(BeEmpty())
		})
	})

	Describe("empty criteria", func() {
		It("should return zero and empty results", func() {
			total, err := repo.SumMatching(ctx, jan)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())

			sums, err := repo.SumByCategory(ctx, jan)
			Expect(err).NotTo(HaveOccurred())
			Expect(sums).To(BeEmpty())

			avgs, err := repo.AverageByCategory(ctx, jan)
			Expect(err).NotTo(HaveOccurred())
			Expect(avgs).To(BeEmpty())
		})
	})

	Describe("ReadSnapshot", func() {
		It("should run every read against the same store", func() {
			Seed(repo, 1, Day(2024, 1, 10), "Food", 1000)

			var count, total int64
			err := repo.ReadSnapshot(ctx, func(store expense.Store) error {
				var err error
				if count, err = store.CountMatching(ctx, jan); err != nil {
					return err
				}
				total, err = store.SumMatching(ctx, jan)
				return err
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
			Expect(total).To(Equal(int64(1000)))
		})

		It("should return the callback's error", func() {
			boom := stderrors.New("boom")
			err := repo.ReadSnapshot(ctx, func(expense.Store) error { return boom })
			Expect(err).To(MatchError(boom))
		})
	})
}
