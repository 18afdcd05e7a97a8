package expense

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
)

// FilterCriteria scopes every query of one reporting request to a user and a
// calendar month. It is a value type; share one instance across the listing and
// the aggregates of a request.
type FilterCriteria struct {
	UserID int64
	Year   int
	Month  int
}

func NewFilterCriteria(userID int64, year, month int) FilterCriteria {
	return FilterCriteria{UserID: userID, Year: year, Month: month}
}

// CurrentPeriod is the year and month a request defaults to when none is given.
func CurrentPeriod(now time.Time) (year, month int) {
	return now.Year(), int(now.Month())
}

func (c FilterCriteria) String() string {
	return fmt.Sprintf("user=%d period=%04d-%02d", c.UserID, c.Year, c.Month)
}

// InRange reports whether year and month name a real calendar month.
func (c FilterCriteria) InRange() bool {
	return c.Year >= 1 && c.Year <= 9999 && c.Month >= 1 && c.Month <= 12
}

// Validate rejects criteria that cannot match anything meaningful.
func (c FilterCriteria) Validate() error {
	if c.UserID <= 0 {
		return errors.ErrInvalidFilter.WithMessage("user id must be positive")
	}
	if c.Year < 1 || c.Year > 9999 {
		return errors.ErrInvalidFilter.WithMessage(fmt.Sprintf("year %d is out of range", c.Year))
	}
	if c.Month < 1 || c.Month > 12 {
		return errors.ErrInvalidFilter.WithMessage(fmt.Sprintf("month %d is out of range", c.Month))
	}
	return nil
}

// Bounds returns the half-open date range [from, to) covered by the criteria.
// It must only be called when InRange is true; out-of-range months would
// otherwise be normalised into a neighbouring year by time.Date.
func (c FilterCriteria) Bounds() (from, to time.Time) {
	from = time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// Matches is the in-process form of the store predicate.
func (c FilterCriteria) Matches(e *Expense) bool {
	if !c.InRange() || e.UserID != c.UserID {
		return false
	}
	from, to := c.Bounds()
	d := DateOnly(e.Date)
	return !d.Before(from) && d.Before(to)
}
