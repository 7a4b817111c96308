package domain

import "time"

// Default appearance for new collections.
const (
	DefaultCollectionIcon  = "folder.fill"
	DefaultCollectionColor = "#007AFF"
)

// Collection is a user-curated shelf of books. Collections are account-only
// and carry client display hints (icon, color, sort order).
type Collection struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Name      string           `json:"name"`
	Icon      string           `json:"icon"`
	Color     string           `json:"color"`
	SortOrder int              `json:"sortOrder"`
	Books     []CollectionBook `json:"books"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// CollectionBook is the short book form listed inside a collection.
type CollectionBook struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CoverImageURL string `json:"coverImageUrl,omitempty"`
}
