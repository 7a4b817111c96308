package service

import (
	"context"

	domainerrors "github.com/johnyfernandes/Shlf-Backend/internal/errors"
	"github.com/johnyfernandes/Shlf-Backend/internal/metadata/openlibrary"
)

// MetadataService fronts the Open Library client for the search endpoints.
type MetadataService struct {
	client *openlibrary.Client
}

// NewMetadataService creates a new metadata service.
func NewMetadataService(client *openlibrary.Client) *MetadataService {
	return &MetadataService{client: client}
}

// SearchBooks searches Open Library.
func (s *MetadataService) SearchBooks(ctx context.Context, query string, page, limit int) (*openlibrary.SearchPage, error) {
	if query == "" {
		return nil, domainerrors.Validation("Search query is required")
	}
	return s.client.SearchBooks(ctx, query, page, limit)
}

// GetWorkDetails resolves an Open Library work ID to full book details.
func (s *MetadataService) GetWorkDetails(ctx context.Context, workID string) (*openlibrary.BookDetails, error) {
	if workID == "" {
		return nil, domainerrors.Validation("Work ID is required")
	}
	return s.client.GetWorkDetails(ctx, workID)
}

// GetBookByISBN resolves an ISBN to book details.
func (s *MetadataService) GetBookByISBN(ctx context.Context, isbn string) (*openlibrary.BookDetails, error) {
	if isbn == "" {
		return nil, domainerrors.Validation("ISBN is required")
	}
	return s.client.GetBookByISBN(ctx, isbn)
}
