package expense_test

import (
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FilterCriteria", func() {
	Describe("Validate", func() {
		It("should accept a real month", func() {
			Expect(expense.NewFilterCriteria(1, 2024, 1).Validate()).To(Succeed())
			Expect(expense.NewFilterCriteria(1, 2024, 12).Validate()).To(Succeed())
		})

		DescribeTable("should reject",
			func(userID int64, year, month int) {
				err := expense.NewFilterCriteria(userID, year, month).Validate()
				Expect(err).To(MatchError(errors.ErrInvalidFilter))
			},
			Entry("a missing user", int64(0), 2024, 1),
			Entry("month zero", int64(1), 2024, 0),
			Entry("month thirteen", int64(1), 2024, 13),
			Entry("year zero", int64(1), 0, 5),
			Entry("a five digit year", int64(1), 10000, 5),
		)
	})

	Describe("Bounds", func() {
		It("should cover the whole month", func() {
			from, to := expense.NewFilterCriteria(1, 2024, 2).Bounds()
			Expect(from).To(Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
			Expect(to).To(Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
		})

		It("should roll December into the next year", func() {
			_, to := expense.NewFilterCriteria(1, 2023, 12).Bounds()
			Expect(to).To(Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
		})
	})

	Describe("Matches", func() {
		criteria := expense.NewFilterCriteria(7, 2024, 1)

		It("should match the first and last day of the month", func() {
			first := &expense.Expense{UserID: 7, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
			last := &expense.Expense{UserID: 7, Date: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)}
			Expect(criteria.Matches(first)).To(BeTrue())
			Expect(criteria.Matches(last)).To(BeTrue())
		})

		It("should not match neighbouring months or other users", func() {
			Expect(criteria.Matches(&expense.Expense{UserID: 7, Date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)})).To(BeFalse())
			Expect(criteria.Matches(&expense.Expense{UserID: 7, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})).To(BeFalse())
			Expect(criteria.Matches(&expense.Expense{UserID: 8, Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)})).To(BeFalse())
		})

		It("should match nothing for an out of range month instead of wrapping", func() {
			wrapped := expense.NewFilterCriteria(7, 2023, 13)
			Expect(wrapped.InRange()).To(BeFalse())
			Expect(wrapped.Matches(&expense.Expense{UserID: 7, Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)})).To(BeFalse())
		})
	})

	It("should default to the current calendar period", func() {
		year, month := expense.CurrentPeriod(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
		Expect(year).To(Equal(2025))
		Expect(month).To(Equal(3))
	})
})
