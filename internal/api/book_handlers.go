package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/http/response"
	"github.com/johnyfernandes/Shlf-Backend/internal/service"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
)

// UpdateBookRequest carries a partial book update. Absent fields leave the
// book untouched.
type UpdateBookRequest struct {
	ReadingStatus *string `json:"readingStatus"`
	CurrentPage   *int    `json:"currentPage"`
	Rating        *int    `json:"rating"`
	Review        *string `json:"review"`
	Notes         *string `json:"notes"`
	IsFavorite    *bool   `json:"isFavorite"`
}

func (req UpdateBookRequest) toUpdate() domain.BookUpdate {
	update := domain.BookUpdate{
		CurrentPage: req.CurrentPage,
		Rating:      req.Rating,
		Review:      req.Review,
		Notes:       req.Notes,
		IsFavorite:  req.IsFavorite,
	}
	if req.ReadingStatus != nil {
		status := domain.ReadingStatus(*req.ReadingStatus)
		update.ReadingStatus = &status
	}
	return update
}

// handleAddBook adds a book to the caller's library.
func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	var req service.AddBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.services.Books.AddBook(ctx, owner, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, book, s.logger)
}

// handleListBooks returns a paginated list of the caller's books.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	filter := parseBookFilter(r)

	page, err := s.services.Books.ListBooks(ctx, owner, filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleGetBook returns a single book from the caller's library.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	id := chi.URLParam(r, "bookID")
	if id == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	book, err := s.services.Books.GetBook(ctx, owner, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleUpdateBook applies a partial update to a book, driving the reading
// progress state machine.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	id := chi.URLParam(r, "bookID")
	if id == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	var req UpdateBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.services.Books.UpdateBook(ctx, owner, id, req.toUpdate())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleDeleteBook removes a book and its reading sessions.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	id := chi.URLParam(r, "bookID")
	if id == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	if err := s.services.Books.DeleteBook(ctx, owner, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "Book removed from library", s.logger)
}

// handleBookStats returns aggregate reading statistics for the caller.
func (s *Server) handleBookStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	stats, err := s.services.Books.Stats(ctx, owner)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}

// parseBookFilter parses listing parameters from the query string.
func parseBookFilter(r *http.Request) store.BookFilter {
	q := r.URL.Query()

	filter := store.BookFilter{
		Status:     q.Get("status"),
		SortBy:     q.Get("sortBy"),
		Order:      q.Get("order"),
		PageParams: store.DefaultPageParams(),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	return filter
}
