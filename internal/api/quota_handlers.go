package api

import (
	"net/http"

	"github.com/johnyfernandes/Shlf-Backend/internal/http/response"
)

// handleQuotaStatus reports how many more books the caller may add.
// Accounts are unlimited; anonymous devices get the configured cap.
func (s *Server) handleQuotaStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	status, err := s.services.Quota.Status(ctx, owner)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, status, s.logger)
}
