package expense

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
)

const maxDescriptionLength = 500

// CreateExpenseDTO represents the request payload for creating an expense
type CreateExpenseDTO struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
}

// UpdateExpenseDTO carries the full replacement of an expense.
type UpdateExpenseDTO CreateExpenseDTO

// Validate checks the payload against the category vocabulary and returns the
// parsed expense date.
func (dto CreateExpenseDTO) Validate(categories []string, now time.Time) (time.Time, error) {
	var date time.Time
	var dateErr *errors.AppError
	if strings.TrimSpace(dto.Date) != "" {
		parsed, err := time.Parse(DateLayout, strings.TrimSpace(dto.Date))
		if err != nil {
			dateErr = errors.NewValidationFieldError("date", "date must use the YYYY-MM-DD format", errors.ErrCodeInvalidDate)
		}
		date = parsed
	}

	v := validation.NewValidator()
	v.Field("amount_cents", dto.AmountCents).
		Positive(errors.ErrCodeInvalidAmount)
	v.Field("description", dto.Description).
		Required().
		MaxLength(maxDescriptionLength, errors.ErrCodeInvalidDescription)
	v.Field("category", dto.Category).
		Required().
		OneOf(categories, errors.ErrCodeInvalidCategory)
	v.Field("date", date).
		Custom(func(interface{}) *errors.AppError { return dateErr }).
		Required().
		NotAfter(now)

	if appErr := v.Validate(); appErr != nil {
		return time.Time{}, appErr
	}
	return DateOnly(date), nil
}

func (dto UpdateExpenseDTO) Validate(categories []string, now time.Time) (time.Time, error) {
	return CreateExpenseDTO(dto).Validate(categories, now)
}

// PageResult is one page of a filtered expense listing.
type PageResult struct {
	Items      []*Expense `json:"items"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"total_pages"`
}

// YearsResponse feeds the year selector of the listing and dashboard pages.
type YearsResponse struct {
	Years []int `json:"years"`
}
