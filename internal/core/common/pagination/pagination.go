// Package pagination computes page windows over a counted result set.
package pagination

import (
	errors "github.com/frahmantamala/expense-tracker/internal"
)

// Window is the slice of a result set a single page covers.
type Window struct {
	Page       int `json:"page"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the window for requestedPage over totalCount rows.
//
// Pages below 1 are treated as page 1. Pages past the last page are clamped to
// the last page; with no rows at all the window is page 1 with TotalPages 0.
// A non-positive pageSize is rejected with ErrInvalidPageSize.
func Paginate(totalCount int64, requestedPage, pageSize int) (Window, error) {
	if pageSize <= 0 {
		return Window{}, errors.ErrInvalidPageSize.WithMessage("page size must be greater than 0")
	}
	if totalCount < 0 {
		totalCount = 0
	}

	totalPages := TotalPages(totalCount, pageSize)

	page := requestedPage
	switch {
	case page < 1, totalPages == 0:
		page = 1
	case page > totalPages:
		page = totalPages
	}

	return Window{
		Page:       page,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
		TotalPages: totalPages,
	}, nil
}

// TotalPages is ceil(totalCount / pageSize), 0 for an empty set.
func TotalPages(totalCount int64, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((totalCount + size - 1) / size)
}
