package expense

import "time"

// Expense is the row stored in the expenses table.
type Expense struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index:idx_expenses_user_date,priority:1"`
	ExpenseDate time.Time `gorm:"column:expense_date;type:date;not null;index:idx_expenses_user_date,priority:2"`
	Category    string    `gorm:"column:category;not null"`
	AmountCents int64     `gorm:"column:amount_cents;not null"`
	Description string    `gorm:"column:description;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
