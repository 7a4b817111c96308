package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	domainerrors "github.com/johnyfernandes/Shlf-Backend/internal/errors"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/store/sqlite"
)

// QuotaService enforces the anonymous-device book cap. Authenticated
// accounts are never limited.
type QuotaService struct {
	store  *sqlite.Store
	limit  int
	logger *slog.Logger
}

// NewQuotaService creates a quota service with the given device book limit.
func NewQuotaService(store *sqlite.Store, limit int, logger *slog.Logger) *QuotaService {
	return &QuotaService{
		store:  store,
		limit:  limit,
		logger: logger,
	}
}

// CheckCanAddBook verifies the owner may add another book.
// Users always can. Devices are checked against the cap. Requests with no
// identity at all are told to send a device ID.
func (s *QuotaService) CheckCanAddBook(ctx context.Context, owner identity.Owner) error {
	if owner.IsUser() {
		return nil
	}

	deviceID, ok := owner.DeviceID()
	if !ok {
		return domainerrors.DeviceRequired("Device ID is required for anonymous users")
	}

	used, err := s.store.CountDeviceBooks(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("count device books: %w", err)
	}

	if used >= s.limit {
		s.logger.Info("device book limit reached",
			"device_id", deviceID,
			"limit", s.limit,
			"used", used)
		return domainerrors.QuotaExceeded("Book limit reached. Create an account to add more books.").
			WithDetails(map[string]any{
				"limit":           s.limit,
				"used":            used,
				"remaining":       0,
				"requiresAccount": true,
			})
	}
	return nil
}

// Status reports the owner's quota usage.
func (s *QuotaService) Status(ctx context.Context, owner identity.Owner) (domain.QuotaStatus, error) {
	if owner.IsUser() {
		return domain.UnlimitedQuota(), nil
	}

	deviceID, ok := owner.DeviceID()
	if !ok {
		return domain.QuotaStatus{}, domainerrors.DeviceRequired("Device ID is required for anonymous users")
	}

	used, err := s.store.CountDeviceBooks(ctx, deviceID)
	if err != nil {
		return domain.QuotaStatus{}, fmt.Errorf("count device books: %w", err)
	}
	return domain.NewQuotaStatus(s.limit, used), nil
}
