package handlers

import (
	"github.com/bbyte-app/backend/internal/events"
	"github.com/bbyte-app/backend/internal/storage"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	uploader storage.Uploader
	bus      *events.Bus
}

// NewHandlers creates a new handlers instance
func NewHandlers(uploader storage.Uploader, bus *events.Bus) *Handlers {
	return &Handlers{
		uploader: uploader,
		bus:      bus,
	}
}
