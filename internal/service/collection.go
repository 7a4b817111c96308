package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/id"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/store/sqlite"
	"github.com/johnyfernandes/Shlf-Backend/internal/validation"
)

// CollectionService manages user-curated book collections. Collections are
// account-only; membership requires the book to belong to the same user.
type CollectionService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store *sqlite.Store, validator *validation.Validator, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateCollectionRequest contains the data for a new collection.
type CreateCollectionRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Icon      string `json:"icon" validate:"max=100"`
	Color     string `json:"color" validate:"max=20"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

// UpdateCollectionRequest is a partial collection update. Nil fields are
// untouched.
type UpdateCollectionRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Icon      *string `json:"icon" validate:"omitempty,max=100"`
	Color     *string `json:"color" validate:"omitempty,max=20"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,gte=0"`
}

// AddCollectionBookRequest names the book to add to a collection.
type AddCollectionBookRequest struct {
	BookID string `json:"bookId" validate:"required"`
}

// CreateCollection creates an empty collection for the user.
func (s *CollectionService) CreateCollection(ctx context.Context, userID string, req CreateCollectionRequest) (*domain.Collection, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Icon == "" {
		req.Icon = domain.DefaultCollectionIcon
	}
	if req.Color == "" {
		req.Color = domain.DefaultCollectionColor
	}

	collectionID, err := id.Generate("coll")
	if err != nil {
		return nil, fmt.Errorf("generate collection ID: %w", err)
	}

	now := time.Now()
	collection := &domain.Collection{
		ID:        collectionID,
		UserID:    userID,
		Name:      req.Name,
		Icon:      req.Icon,
		Color:     req.Color,
		SortOrder: req.SortOrder,
		Books:     []domain.CollectionBook{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateCollection(ctx, collection); err != nil {
		return nil, err
	}

	s.logger.Info("collection created",
		"user_id", userID,
		"collection_id", collection.ID,
		"name", collection.Name)

	return collection, nil
}

// ListCollections returns all of the user's collections with their books.
func (s *CollectionService) ListCollections(ctx context.Context, userID string) ([]*domain.Collection, error) {
	collections, err := s.store.ListCollections(ctx, userID)
	if err != nil {
		return nil, err
	}
	if collections == nil {
		collections = []*domain.Collection{}
	}
	return collections, nil
}

// UpdateCollection applies a partial update to one of the user's collections.
func (s *CollectionService) UpdateCollection(ctx context.Context, userID, collectionID string, req UpdateCollectionRequest) (*domain.Collection, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	collection, err := s.store.GetCollection(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		collection.Name = *req.Name
	}
	if req.Icon != nil {
		collection.Icon = *req.Icon
	}
	if req.Color != nil {
		collection.Color = *req.Color
	}
	if req.SortOrder != nil {
		collection.SortOrder = *req.SortOrder
	}
	collection.UpdatedAt = time.Now()

	if err := s.store.UpdateCollection(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// DeleteCollection removes one of the user's collections. The books
// themselves stay in the library.
func (s *CollectionService) DeleteCollection(ctx context.Context, userID, collectionID string) error {
	return s.store.DeleteCollection(ctx, userID, collectionID)
}

// AddBook puts one of the user's books into one of the user's collections.
// Adding a book that is already there is a no-op.
func (s *CollectionService) AddBook(ctx context.Context, userID, collectionID string, req AddCollectionBookRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	// Both sides must belong to the user before a membership exists.
	if _, err := s.store.GetCollection(ctx, userID, collectionID); err != nil {
		return err
	}
	if _, err := s.store.GetBook(ctx, identity.User(userID), req.BookID); err != nil {
		return err
	}

	return s.store.AddBookToCollection(ctx, collectionID, req.BookID, time.Now())
}

// RemoveBook takes a book out of one of the user's collections. Removing a
// book that is not there is a no-op.
func (s *CollectionService) RemoveBook(ctx context.Context, userID, collectionID, bookID string) error {
	if _, err := s.store.GetCollection(ctx, userID, collectionID); err != nil {
		return err
	}
	return s.store.RemoveBookFromCollection(ctx, collectionID, bookID)
}
