package api

import (
	"github.com/johnyfernandes/Shlf-Backend/internal/service"
)

// Services bundles the application services the HTTP layer depends on.
type Services struct {
	Auth        *service.AuthService
	Books       *service.BookService
	Sessions    *service.SessionService
	Goals       *service.GoalService
	Collections *service.CollectionService
	Quota       *service.QuotaService
	Metadata    *service.MetadataService
}
