package expense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/common/pagination"
)

// CategoryVocabulary lists the categories an expense may be filed under.
type CategoryVocabulary interface {
	Names() []string
}

// PageLimits bounds the page sizes callers may request.
type PageLimits struct {
	Default int
	Max     int
}

// Resolve maps an unspecified (zero) page size to the default and rejects
// negative or oversized ones.
func (l PageLimits) Resolve(pageSize int) (int, error) {
	if pageSize == 0 {
		pageSize = l.Default
	}
	if pageSize <= 0 {
		return 0, errors.ErrInvalidPageSize.WithMessage("page size must be greater than 0")
	}
	if l.Max > 0 && pageSize > l.Max {
		return 0, errors.ErrInvalidPageSize.WithMessage(fmt.Sprintf("page size must not exceed %d", l.Max))
	}
	return pageSize, nil
}

// Service handles expense listing and the entry workflow.
type Service struct {
	repo       Repository
	vocabulary CategoryVocabulary
	limits     PageLimits
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new expense service
func NewService(repo Repository, vocabulary CategoryVocabulary, limits PageLimits, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		vocabulary: vocabulary,
		limits:     limits,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for the not-in-the-future rule.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Limits() PageLimits {
	return s.limits
}

// List returns one page of the user's expenses for the given month.
func (s *Service) List(ctx context.Context, userID int64, year, month, page, pageSize int) (PageResult, error) {
	size, err := s.limits.Resolve(pageSize)
	if err != nil {
		s.logger.Warn("list expenses rejected", "error", err, "user_id", userID, "page_size", pageSize)
		return PageResult{}, err
	}

	criteria := NewFilterCriteria(userID, year, month)
	result, err := ListPage(ctx, s.repo, criteria, page, size)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "criteria", criteria.String())
		return PageResult{}, err
	}

	return result, nil
}

// ListPage runs the listing algorithm against store: count, window, fetch.
// Both queries use the same criteria; run it inside Repository.ReadSnapshot when
// the result must agree with other reads.
func ListPage(ctx context.Context, store Store, criteria FilterCriteria, page, pageSize int) (PageResult, error) {
	if err := criteria.Validate(); err != nil {
		return PageResult{}, err
	}

	total, err := store.CountMatching(ctx, criteria)
	if err != nil {
		return PageResult{}, StoreFailure("count expenses", err)
	}

	window, err := pagination.Paginate(total, page, pageSize)
	if err != nil {
		return PageResult{}, err
	}

	items := []*Expense{}
	if total > 0 {
		found, err := store.FindMatching(ctx, criteria, window.Offset, window.Limit)
		if err != nil {
			return PageResult{}, StoreFailure("find expenses", err)
		}
		items = append(items, found...)
	}

	return PageResult{
		Items:      items,
		Page:       window.Page,
		PageSize:   window.Limit,
		Total:      total,
		TotalPages: window.TotalPages,
	}, nil
}

// ExpenditureYears returns the years the user has recorded expenses in, newest first.
func (s *Service) ExpenditureYears(ctx context.Context, userID int64) ([]int, error) {
	if userID <= 0 {
		return nil, errors.ErrInvalidFilter.WithMessage("user id must be positive")
	}
	years, err := s.repo.DistinctYears(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list expenditure years", "error", err, "user_id", userID)
		return nil, StoreFailure("list years", err)
	}
	if years == nil {
		years = []int{}
	}
	return years, nil
}

// Create validates the payload and stores a new expense for userID.
func (s *Service) Create(ctx context.Context, userID int64, dto CreateExpenseDTO) (*Expense, error) {
	date, err := dto.Validate(s.vocabulary.Names(), s.now())
	if err != nil {
		s.logger.Warn("expense validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	expense := NewExpense(userID, date, dto.Category, dto.AmountCents, dto.Description)
	if err := s.repo.Create(ctx, expense); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", userID)
		return nil, StoreFailure("create expense", err)
	}

	s.logger.Info("expense created successfully",
		"expense_id", expense.ID,
		"user_id", userID,
		"amount_cents", expense.AmountCents,
		"category", expense.Category)

	return expense, nil
}

// Get loads an expense owned by userID.
func (s *Service) Get(ctx context.Context, userID, id int64) (*Expense, error) {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrExpenseNotFound
		}
		s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		return nil, StoreFailure("get expense", err)
	}

	if !expense.IsOwnedBy(userID) {
		s.logger.Warn("unauthorized access to expense", "expense_id", id, "user_id", userID, "expense_user_id", expense.UserID)
		return nil, errors.ErrUnauthorizedAccess
	}

	return expense, nil
}

// Update replaces every field of an expense owned by userID.
func (s *Service) Update(ctx context.Context, userID, id int64, dto UpdateExpenseDTO) (*Expense, error) {
	expense, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	date, err := dto.Validate(s.vocabulary.Names(), s.now())
	if err != nil {
		s.logger.Warn("expense validation failed", "error", err, "expense_id", id, "user_id", userID)
		return nil, err
	}

	expense.Replace(date, dto.Category, dto.AmountCents, dto.Description)
	if err := s.repo.Update(ctx, expense); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, StoreFailure("update expense", err)
	}

	s.logger.Info("expense updated successfully", "expense_id", id, "user_id", userID)
	return expense, nil
}

// Delete removes an expense owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return StoreFailure("delete expense", err)
	}

	s.logger.Info("expense deleted successfully", "expense_id", id, "user_id", userID)
	return nil
}

// StoreFailure wraps a store error once; errors that already are store failures
// pass through unchanged.
func StoreFailure(operation string, err error) error {
	if appErr, ok := errors.IsAppError(err); ok && appErr.Code == errors.ErrCodeStoreFailure {
		return err
	}
	return errors.NewStoreFailure(operation, err)
}
