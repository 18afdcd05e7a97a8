// Package memory is an in-process expense.Repository used by tests and by the
// memory database driver for local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu     sync.RWMutex
	items  []expense.Expense
	nextID int64
}

func New() *Store {
	return &Store{nextID: 1}
}

var _ expense.Repository = (*Store)(nil)

func (s *Store) Create(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	e.ID = s.nextID
	s.nextID++
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	e.Date = expense.DateOnly(e.Date)
	s.items = append(s.items, *e)
	return nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrExpenseNotFound
	}
	cp := s.items[i]
	return &cp, nil
}

func (s *Store) Update(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(e.ID)
	if i < 0 {
		return errors.ErrExpenseNotFound
	}
	e.UpdatedAt = time.Now()
	e.Date = expense.DateOnly(e.Date)
	s.items[i] = *e
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return errors.ErrExpenseNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// matching returns copies of the rows matching criteria in insertion order.
func (s *Store) matching(criteria expense.FilterCriteria) []expense.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []expense.Expense
	for i := range s.items {
		if criteria.Matches(&s.items[i]) {
			out = append(out, s.items[i])
		}
	}
	return out
}

func (s *Store) FindMatching(_ context.Context, criteria expense.FilterCriteria, offset, limit int) ([]*expense.Expense, error) {
	rows := s.matching(criteria)
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].ID < rows[j].ID
	})

	result := []*expense.Expense{}
	if offset < 0 {
		offset = 0
	}
	for i := offset; i < len(rows) && (limit <= 0 || len(result) < limit); i++ {
		cp := rows[i]
		result = append(result, &cp)
	}
	return result, nil
}

func (s *Store) CountMatching(_ context.Context, criteria expense.FilterCriteria) (int64, error) {
	return int64(len(s.matching(criteria))), nil
}

func (s *Store) SumMatching(_ context.Context, criteria expense.FilterCriteria) (int64, error) {
	var total int64
	for _, e := range s.matching(criteria) {
		total += e.AmountCents
	}
	return total, nil
}

type group struct {
	category string
	sum      int64
	count    int64
}

// groups aggregates by category in order of first appearance.
func (s *Store) groups(criteria expense.FilterCriteria) []*group {
	index := map[string]*group{}
	var ordered []*group
	for _, e := range s.matching(criteria) {
		g, ok := index[e.Category]
		if !ok {
			g = &group{category: e.Category}
			index[e.Category] = g
			ordered = append(ordered, g)
		}
		g.sum += e.AmountCents
		g.count++
	}
	return ordered
}

func (s *Store) SumByCategory(_ context.Context, criteria expense.FilterCriteria) ([]expense.CategoryAmount, error) {
	result := []expense.CategoryAmount{}
	for _, g := range s.groups(criteria) {
		result = append(result, expense.CategoryAmount{Category: g.category, Amount: decimal.NewFromInt(g.sum)})
	}
	return result, nil
}

func (s *Store) AverageByCategory(_ context.Context, criteria expense.FilterCriteria) ([]expense.CategoryAmount, error) {
	result := []expense.CategoryAmount{}
	for _, g := range s.groups(criteria) {
		avg := decimal.NewFromInt(g.sum).Div(decimal.NewFromInt(g.count))
		result = append(result, expense.CategoryAmount{Category: g.category, Amount: avg})
	}
	return result, nil
}

func (s *Store) DistinctYears(_ context.Context, userID int64) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[int]struct{}{}
	years := []int{}
	for _, e := range s.items {
		if e.UserID != userID {
			continue
		}
		y := e.Date.Year()
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// ReadSnapshot hands fn a frozen copy of the current rows, so writes made while
// fn runs are not visible to it.
func (s *Store) ReadSnapshot(_ context.Context, fn func(expense.Store) error) error {
	s.mu.RLock()
	frozen := &Store{
		items:  append([]expense.Expense(nil), s.items...),
		nextID: s.nextID,
	}
	s.mu.RUnlock()
	return fn(frozen)
}
