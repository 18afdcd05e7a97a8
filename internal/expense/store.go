package expense

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategoryAmount is one row of a grouped aggregate, in minor currency units.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// Store is the read side the reporting engine consumes. Every method applies the
// same FilterCriteria semantics; criteria outside a real calendar month match no
// rows rather than failing.
type Store interface {
	// FindMatching returns a page of expenses, newest date first, ties by id.
	FindMatching(ctx context.Context, criteria FilterCriteria, offset, limit int) ([]*Expense, error)
	CountMatching(ctx context.Context, criteria FilterCriteria) (int64, error)
	// SumMatching returns 0 when nothing matches.
	SumMatching(ctx context.Context, criteria FilterCriteria) (int64, error)
	SumByCategory(ctx context.Context, criteria FilterCriteria) ([]CategoryAmount, error)
	AverageByCategory(ctx context.Context, criteria FilterCriteria) ([]CategoryAmount, error)
	// DistinctYears returns the years the user has expenses in, newest first.
	DistinctYears(ctx context.Context, userID int64) ([]int, error)
}

// Repository is the full expense store.
type Repository interface {
	Store
	Create(ctx context.Context, expense *Expense) error
	GetByID(ctx context.Context, id int64) (*Expense, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id int64) error
	// ReadSnapshot runs fn against a Store that sees one consistent view of the data.
	ReadSnapshot(ctx context.Context, fn func(Store) error) error
}
