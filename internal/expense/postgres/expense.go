package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.Repository with GORM. It runs against
// PostgreSQL in production and SQLite in tests and local setups; the only dialect
// specific query is the year extraction.
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

var _ expense.Repository = (*ExpenseRepository)(nil)

type categoryRow struct {
	Category string
	Amount   decimal.Decimal
}

func (r *ExpenseRepository) matching(ctx context.Context, criteria expense.FilterCriteria) *gorm.DB {
	from, to := criteria.Bounds()
	return r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Where("user_id = ? AND expense_date >= ? AND expense_date < ?", criteria.UserID, from, to)
}

// Create saves a new expense to the database
func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	row := expense.ToDataModel(exp)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	exp.ID = row.ID
	exp.CreatedAt = row.CreatedAt
	exp.UpdatedAt = row.UpdatedAt
	return nil
}

// GetByID retrieves an expense by its ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	var row expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense.FromDataModel(&row), nil
}

// Update rewrites every column of an existing expense.
func (r *ExpenseRepository) Update(ctx context.Context, exp *expense.Expense) error {
	exp.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Where("id = ?", exp.ID).
		Updates(map[string]interface{}{
			"expense_date": expense.DateOnly(exp.Date),
			"category":     exp.Category,
			"amount_cents": exp.AmountCents,
			"description":  exp.Description,
			"updated_at":   exp.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&expenseDatamodel.Expense{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrExpenseNotFound
	}
	return nil
}

// FindMatching returns a page of expenses, newest first and stable on equal dates.
func (r *ExpenseRepository) FindMatching(ctx context.Context, criteria expense.FilterCriteria, offset, limit int) ([]*expense.Expense, error) {
	if !criteria.InRange() {
		return []*expense.Expense{}, nil
	}
	var rows []*expenseDatamodel.Expense
	err := r.matching(ctx, criteria).
		Order("expense_date DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return expense.FromDataModelSlice(rows), nil
}

func (r *ExpenseRepository) CountMatching(ctx context.Context, criteria expense.FilterCriteria) (int64, error) {
	if !criteria.InRange() {
		return 0, nil
	}
	var count int64
	err := r.matching(ctx, criteria).Count(&count).Error
	return count, err
}

func (r *ExpenseRepository) SumMatching(ctx context.Context, criteria expense.FilterCriteria) (int64, error) {
	if !criteria.InRange() {
		return 0, nil
	}
	var total int64
	err := r.matching(ctx, criteria).
		Select("CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT)").
		Scan(&total).Error
	return total, err
}

func (r *ExpenseRepository) SumByCategory(ctx context.Context, criteria expense.FilterCriteria) ([]expense.CategoryAmount, error) {
	return r.groupByCategory(ctx, criteria, "SUM(amount_cents)")
}

// AverageByCategory lets the database compute the mean; it is not derived from
// the category totals.
func (r *ExpenseRepository) AverageByCategory(ctx context.Context, criteria expense.FilterCriteria) ([]expense.CategoryAmount, error) {
	return r.groupByCategory(ctx, criteria, "AVG(amount_cents)")
}

func (r *ExpenseRepository) groupByCategory(ctx context.Context, criteria expense.FilterCriteria, aggregate string) ([]expense.CategoryAmount, error) {
	if !criteria.InRange() {
		return []expense.CategoryAmount{}, nil
	}
	var rows []categoryRow
	err := r.matching(ctx, criteria).
		Select("category, " + aggregate + " AS amount").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]expense.CategoryAmount, len(rows))
	for i, row := range rows {
		result[i] = expense.CategoryAmount{Category: row.Category, Amount: row.Amount}
	}
	return result, nil
}

func (r *ExpenseRepository) DistinctYears(ctx context.Context, userID int64) ([]int, error) {
	yearExpr := "CAST(EXTRACT(YEAR FROM expense_date) AS INTEGER)"
	if r.db.Dialector.Name() == "sqlite" {
		yearExpr = "CAST(strftime('%Y', expense_date) AS INTEGER)"
	}

	years := []int{}
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT "+yearExpr+" AS year FROM expenses WHERE user_id = ? ORDER BY year DESC", userID).
		Scan(&years).Error
	if err != nil {
		return nil, err
	}
	return years, nil
}

// ReadSnapshot runs fn inside one read-only transaction so every query of a
// report sees the same rows.
func (r *ExpenseRepository) ReadSnapshot(ctx context.Context, fn func(expense.Store) error) error {
	opts := &sql.TxOptions{}
	if r.db.Dialector.Name() == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ExpenseRepository{db: tx})
	}, opts)
}
