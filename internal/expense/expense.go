package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
)

const DateLayout = "2006-01-02"

type Expense struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *Expense) IsOwnedBy(userID int64) bool {
	return e.UserID == userID
}

// Replace rewrites every mutable field at once. Expenses are never patched.
func (e *Expense) Replace(date time.Time, category string, amountCents int64, description string) {
	e.Date = DateOnly(date)
	e.Category = category
	e.AmountCents = amountCents
	e.Description = description
	e.UpdatedAt = time.Now()
}

func NewExpense(userID int64, date time.Time, category string, amountCents int64, description string) *Expense {
	now := time.Now()
	return &Expense{
		UserID:      userID,
		Date:        DateOnly(date),
		Category:    category,
		AmountCents: amountCents,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DateOnly drops the time of day and pins the date to UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		ExpenseDate: DateOnly(e.Date),
		Category:    e.Category,
		AmountCents: e.AmountCents,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		Date:        DateOnly(e.ExpenseDate),
		Category:    e.Category,
		AmountCents: e.AmountCents,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
