package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	domainerrors "github.com/johnyfernandes/Shlf-Backend/internal/errors"
	"github.com/johnyfernandes/Shlf-Backend/internal/id"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/metadata/openlibrary"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
	"github.com/johnyfernandes/Shlf-Backend/internal/store/sqlite"
	"github.com/johnyfernandes/Shlf-Backend/internal/validation"
)

// WorkDetailsFetcher resolves an Open Library work ID to full book details.
// Satisfied by *openlibrary.Client.
type WorkDetailsFetcher interface {
	GetWorkDetails(ctx context.Context, workID string) (*openlibrary.BookDetails, error)
}

// BookService manages library books: adding (behind the quota), progress
// updates, and stats.
type BookService struct {
	store     *sqlite.Store
	quota     *QuotaService
	metadata  WorkDetailsFetcher
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service. metadata may be nil, in which
// case books must arrive with their details filled in.
func NewBookService(
	store *sqlite.Store,
	quota *QuotaService,
	metadata WorkDetailsFetcher,
	validator *validation.Validator,
	logger *slog.Logger,
) *BookService {
	return &BookService{
		store:     store,
		quota:     quota,
		metadata:  metadata,
		validator: validator,
		logger:    logger,
	}
}

// AddBookRequest contains the data to add a book to a library.
// Title may be omitted when an Open Library ID is given; details are then
// fetched from Open Library.
type AddBookRequest struct {
	OpenLibraryID string   `json:"openLibraryId" validate:"required"`
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title" validate:"max=500"`
	Subtitle      string   `json:"subtitle" validate:"max=500"`
	Authors       []string `json:"authors"`
	CoverImageURL string   `json:"coverImageUrl" validate:"omitempty,url"`
	Description   string   `json:"description"`
	PublishedDate string   `json:"publishedDate"`
	PageCount     int      `json:"pageCount" validate:"gte=0"`
	Subjects      []string `json:"subjects"`
	ReadingStatus string   `json:"readingStatus" validate:"omitempty,oneof=want_to_read reading completed did_not_finish"`
}

// BookPage is a page of library books with pagination info.
type BookPage struct {
	Books      []*domain.Book   `json:"books"`
	Pagination store.Pagination `json:"pagination"`
}

// AddBook adds a book to the owner's library. Devices are checked against
// the quota first; duplicates of the same work are rejected.
func (s *BookService) AddBook(ctx context.Context, owner identity.Owner, req AddBookRequest) (*domain.Book, error) {
	if !owner.Identified() {
		return nil, domainerrors.DeviceRequired("Device ID is required for anonymous users")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.quota.CheckCanAddBook(ctx, owner); err != nil {
		return nil, err
	}

	// Reject duplicates before hitting Open Library.
	if _, err := s.store.FindBookByWork(ctx, owner, req.OpenLibraryID); err == nil {
		return nil, domainerrors.AlreadyExists("Book already in your library")
	} else if !stderrors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check for existing book: %w", err)
	}

	// Fill in details from Open Library when the client only sent the work ID.
	if req.Title == "" && s.metadata != nil {
		details, err := s.metadata.GetWorkDetails(ctx, req.OpenLibraryID)
		if err != nil {
			return nil, fmt.Errorf("fetch book details: %w", err)
		}
		req.Title = details.Title
		if req.Subtitle == "" {
			req.Subtitle = details.Subtitle
		}
		if len(req.Authors) == 0 {
			req.Authors = details.Authors
		}
		if req.CoverImageURL == "" {
			req.CoverImageURL = details.CoverImageURL
		}
		if req.Description == "" {
			req.Description = details.Description
		}
		if req.PublishedDate == "" {
			req.PublishedDate = details.PublishedDate
		}
		if req.ISBN == "" {
			req.ISBN = details.ISBN
		}
		if req.PageCount == 0 && details.PageCount != nil {
			req.PageCount = *details.PageCount
		}
		if len(req.Subjects) == 0 {
			req.Subjects = details.Subjects
		}
	}
	if req.Title == "" {
		return nil, domainerrors.Validation("title is required")
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	status := domain.StatusWantToRead
	if req.ReadingStatus != "" {
		status = domain.ReadingStatus(req.ReadingStatus)
	}

	now := time.Now()
	book := &domain.Book{
		ID:            bookID,
		OpenLibraryID: req.OpenLibraryID,
		ISBN:          req.ISBN,
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		Authors:       req.Authors,
		CoverImageURL: req.CoverImageURL,
		Description:   req.Description,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Subjects:      req.Subjects,
		ReadingStatus: status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if userID, ok := owner.UserID(); ok {
		book.UserID = userID
	} else if deviceID, ok := owner.DeviceID(); ok {
		book.DeviceID = deviceID
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info("book added",
		"book_id", book.ID,
		"owner", owner.String(),
		"work", book.OpenLibraryID)

	return book, nil
}

// GetBook retrieves a single book in the owner's library.
func (s *BookService) GetBook(ctx context.Context, owner identity.Owner, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, owner, bookID)
}

// ListBooks returns a filtered, sorted page of the owner's library.
func (s *BookService) ListBooks(ctx context.Context, owner identity.Owner, filter store.BookFilter) (*BookPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	books, total, err := s.store.ListBooks(ctx, owner, filter)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*domain.Book{}
	}

	return &BookPage{
		Books:      books,
		Pagination: store.NewPagination(filter.PageParams, total),
	}, nil
}

// UpdateBook applies a partial update, driving the reading-status state
// machine, and persists the result.
func (s *BookService) UpdateBook(ctx context.Context, owner identity.Owner, bookID string, update domain.BookUpdate) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, owner, bookID)
	if err != nil {
		return nil, err
	}

	if err := book.ApplyUpdate(update, time.Now()); err != nil {
		return nil, err
	}

	if err := s.store.UpdateBook(ctx, owner, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a book and, via cascade, its reading sessions.
func (s *BookService) DeleteBook(ctx context.Context, owner identity.Owner, bookID string) error {
	return s.store.DeleteBook(ctx, owner, bookID)
}

// Stats aggregates reading statistics over the owner's whole library.
func (s *BookService) Stats(ctx context.Context, owner identity.Owner) (domain.ReadingStats, error) {
	books, err := s.store.ListAllBooks(ctx, owner)
	if err != nil {
		return domain.ReadingStats{}, err
	}
	return domain.ComputeReadingStats(books), nil
}
