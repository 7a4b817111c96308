package openlibrary

import "fmt"

// Cover sizes accepted by the covers API.
const (
	CoverSizeSmall  = "S"
	CoverSizeMedium = "M"
	CoverSizeLarge  = "L"
)

// CoverURL builds a cover image URL for a cover ID.
// Returns "" when the cover ID is unset.
func (c *Client) CoverURL(coverID int64, size string) string {
	if coverID <= 0 {
		return ""
	}
	if size == "" {
		size = CoverSizeLarge
	}
	return fmt.Sprintf("%s/id/%d-%s.jpg", c.coverBaseURL, coverID, size)
}

// CoverURLByISBN builds a cover image URL for an ISBN.
// Returns "" when the ISBN is empty.
func (c *Client) CoverURLByISBN(isbn, size string) string {
	if isbn == "" {
		return ""
	}
	if size == "" {
		size = CoverSizeLarge
	}
	return fmt.Sprintf("%s/isbn/%s-%s.jpg", c.coverBaseURL, isbn, size)
}
