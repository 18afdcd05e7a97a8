package expense_test

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/expense"
	. "github.com/onsi/gomega"
)

var errBoom = stderrors.New("connection reset")

type vocabulary []string

func (v vocabulary) Names() []string { return v }

// failingRepository fails every method listed in fail with errBoom and
// delegates the rest.
type failingRepository struct {
	expense.Repository
	fail map[string]bool
}

func (f *failingRepository) CountMatching(ctx context.Context, c expense.FilterCriteria) (int64, error) {
	if f.fail["count"] {
		return 0, errBoom
	}
	return f.Repository.CountMatching(ctx, c)
}

func (f *failingRepository) FindMatching(ctx context.Context, c expense.FilterCriteria, offset, limit int) ([]*expense.Expense, error) {
	if f.fail["find"] {
		return nil, errBoom
	}
	return f.Repository.FindMatching(ctx, c, offset, limit)
}

func (f *failingRepository) DistinctYears(ctx context.Context, userID int64) ([]int, error) {
	if f.fail["years"] {
		return nil, errBoom
	}
	return f.Repository.DistinctYears(ctx, userID)
}

func (f *failingRepository) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	if f.fail["get"] {
		return nil, errBoom
	}
	return f.Repository.GetByID(ctx, id)
}

func (f *failingRepository) Create(ctx context.Context, e *expense.Expense) error {
	if f.fail["create"] {
		return errBoom
	}
	return f.Repository.Create(ctx, e)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func mustCreate(repo expense.Repository, userID int64, date time.Time, category string, amount int64, description string) *expense.Expense {
	e := expense.NewExpense(userID, date, category, amount, description)
	Expect(repo.Create(context.Background(), e)).To(Succeed())
	return e
}
