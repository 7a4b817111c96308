package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/johnyfernandes/Shlf-Backend/internal/http/response"
)

// handleSearchBooks proxies a book search to Open Library.
func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	results, err := s.services.Metadata.SearchBooks(ctx, q.Get("q"), page, limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, results, s.logger)
}

// handleGetWorkDetails returns the details of one Open Library work.
func (s *Server) handleGetWorkDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	details, err := s.services.Metadata.GetWorkDetails(ctx, chi.URLParam(r, "workID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, details, s.logger)
}

// handleGetBookByISBN looks up an edition by ISBN.
func (s *Server) handleGetBookByISBN(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	details, err := s.services.Metadata.GetBookByISBN(ctx, chi.URLParam(r, "isbn"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, details, s.logger)
}
