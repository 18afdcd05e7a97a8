package summary

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
)

// Service is the aggregation engine. It holds no state between calls; every
// result is computed from the store for the criteria given.
type Service struct {
	repo   expense.Repository
	limits expense.PageLimits
	logger *slog.Logger
}

func NewService(repo expense.Repository, limits expense.PageLimits, logger *slog.Logger) *Service {
	return &Service{repo: repo, limits: limits, logger: logger}
}

// TotalExpenditure is the sum of the amounts matching criteria, 0 when nothing matches.
func (s *Service) TotalExpenditure(ctx context.Context, criteria expense.FilterCriteria) (int64, error) {
	if err := criteria.Validate(); err != nil {
		return 0, err
	}
	total, err := totalExpenditure(ctx, s.repo, criteria)
	if err != nil {
		s.logger.Error("failed to compute total expenditure", "error", err, "criteria", criteria.String())
	}
	return total, err
}

// PerCategoryTotals returns each category's sum with its share of the total.
func (s *Service) PerCategoryTotals(ctx context.Context, criteria expense.FilterCriteria) ([]CategoryStat, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	stats, err := categoryTotals(ctx, s.repo, criteria)
	if err != nil {
		s.logger.Error("failed to compute category totals", "error", err, "criteria", criteria.String())
	}
	return stats, err
}

// PerCategoryAverages returns each category's mean amount as computed by the
// store, with its share of the sum of all means.
func (s *Service) PerCategoryAverages(ctx context.Context, criteria expense.FilterCriteria) ([]CategoryStat, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	stats, err := categoryAverages(ctx, s.repo, criteria)
	if err != nil {
		s.logger.Error("failed to compute category averages", "error", err, "criteria", criteria.String())
	}
	return stats, err
}

// Overview reads the total and both category breakdowns from one snapshot.
func (s *Service) Overview(ctx context.Context, criteria expense.FilterCriteria) (Overview, error) {
	if err := criteria.Validate(); err != nil {
		return Overview{}, err
	}

	var result Overview
	err := s.repo.ReadSnapshot(ctx, func(store expense.Store) error {
		var err error
		result, err = overview(ctx, store, criteria)
		return err
	})
	if err != nil {
		s.logger.Error("failed to build overview", "error", err, "criteria", criteria.String())
		return Overview{}, snapshotFailure("overview", err)
	}
	return result, nil
}

// MonthlyReport builds the full month view. Any store error aborts the whole
// report; partial reports are never returned.
func (s *Service) MonthlyReport(ctx context.Context, criteria expense.FilterCriteria, page, pageSize int) (Report, error) {
	if err := criteria.Validate(); err != nil {
		return Report{}, err
	}
	size, err := s.limits.Resolve(pageSize)
	if err != nil {
		return Report{}, err
	}

	var report Report
	err = s.repo.ReadSnapshot(ctx, func(store expense.Store) error {
		years, err := store.DistinctYears(ctx, criteria.UserID)
		if err != nil {
			return expense.StoreFailure("list years", err)
		}
		if years == nil {
			years = []int{}
		}

		ov, err := overview(ctx, store, criteria)
		if err != nil {
			return err
		}

		listing, err := expense.ListPage(ctx, store, criteria, page, size)
		if err != nil {
			return err
		}

		report = Report{Overview: ov, Years: years, Expenses: listing}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to build monthly report", "error", err, "criteria", criteria.String())
		return Report{}, snapshotFailure("monthly report", err)
	}

	s.logger.Debug("monthly report built",
		"criteria", criteria.String(),
		"total_cents", report.TotalCents,
		"categories", len(report.Totals))
	return report, nil
}

// snapshotFailure keeps errors raised inside the snapshot as they are and wraps
// the ones coming from opening or closing it.
func snapshotFailure(operation string, err error) error {
	if _, ok := errors.IsAppError(err); ok {
		return err
	}
	return expense.StoreFailure(operation, err)
}

func overview(ctx context.Context, store expense.Store, criteria expense.FilterCriteria) (Overview, error) {
	total, err := totalExpenditure(ctx, store, criteria)
	if err != nil {
		return Overview{}, err
	}
	totals, err := categoryTotals(ctx, store, criteria)
	if err != nil {
		return Overview{}, err
	}
	averages, err := categoryAverages(ctx, store, criteria)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Year:       criteria.Year,
		Month:      criteria.Month,
		TotalCents: total,
		Totals:     totals,
		Averages:   averages,
	}, nil
}

func totalExpenditure(ctx context.Context, store expense.Store, criteria expense.FilterCriteria) (int64, error) {
	total, err := store.SumMatching(ctx, criteria)
	if err != nil {
		return 0, expense.StoreFailure("sum expenses", err)
	}
	return total, nil
}

func categoryTotals(ctx context.Context, store expense.Store, criteria expense.FilterCriteria) ([]CategoryStat, error) {
	amounts, err := store.SumByCategory(ctx, criteria)
	if err != nil {
		return nil, expense.StoreFailure("sum by category", err)
	}
	return withPercentages(amounts), nil
}

func categoryAverages(ctx context.Context, store expense.Store, criteria expense.FilterCriteria) ([]CategoryStat, error) {
	amounts, err := store.AverageByCategory(ctx, criteria)
	if err != nil {
		return nil, expense.StoreFailure("average by category", err)
	}
	return withPercentages(amounts), nil
}
