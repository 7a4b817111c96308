package store

import "github.com/johnyfernandes/Shlf-Backend/internal/domain"

// Book sort fields accepted by ListBooks. Anything else falls back to createdAt.
var allowedBookSorts = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"title":         "title",
	"rating":        "rating",
	"currentPage":   "current_page",
	"readingStatus": "reading_status",
}

// BookFilter narrows and orders a book listing.
type BookFilter struct {
	Status string // reading status filter, empty for all
	SortBy string // API-facing sort field name
	Order  string // "asc" or "desc" (default desc)
	PageParams
}

// Validate clamps the filter into its allowed values. An unknown status is
// reported as invalid input; unknown sort fields silently fall back.
func (f *BookFilter) Validate() error {
	if f.Status != "" && !domain.ReadingStatus(f.Status).Valid() {
		return ErrInvalidInput.WithMessage("Invalid reading status filter")
	}
	if _, ok := allowedBookSorts[f.SortBy]; !ok {
		f.SortBy = "createdAt"
	}
	if f.Order != "asc" {
		f.Order = "desc"
	}
	f.PageParams.Validate()
	return nil
}

// SortColumn returns the SQL column for the validated sort field.
func (f BookFilter) SortColumn() string {
	if col, ok := allowedBookSorts[f.SortBy]; ok {
		return col
	}
	return "created_at"
}
