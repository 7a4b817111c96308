package providers

import (
	"github.com/samber/do/v2"

	"github.com/johnyfernandes/Shlf-Backend/internal/config"
	"github.com/johnyfernandes/Shlf-Backend/internal/logger"
	"github.com/johnyfernandes/Shlf-Backend/internal/metadata/openlibrary"
)

// OpenLibraryClientHandle wraps the Open Library client with Shutdownable.
type OpenLibraryClientHandle struct {
	*openlibrary.Client
}

// Shutdown implements do.Shutdownable.
func (h *OpenLibraryClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideOpenLibraryClient provides the Open Library metadata client.
func ProvideOpenLibraryClient(i do.Injector) (*OpenLibraryClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := openlibrary.NewClient(cfg.Metadata.OpenLibraryBaseURL, cfg.Metadata.CoverBaseURL, log.Logger)

	return &OpenLibraryClientHandle{Client: client}, nil
}
