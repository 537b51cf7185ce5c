// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package scanner

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/longboxhq/longbox/internal/platform/request"
	"github.com/longboxhq/longbox/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for scan management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new scanner [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the scan endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Post("/libraries/{rootID}/scan", handler.StartScan)
	api.Get("/libraries/{rootID}/scan", handler.GetStatus)
}

/*
POST /api/v1/libraries/{rootID}/scan.

Description: Triggers an asynchronous scan pass. The response returns
immediately with the initial status; progress is polled via GET.

Response:
  - 202: Status (state "running")
  - 404: Library root not found
  - 409: A pass is already running for this root
*/
func (handler *Handler) StartScan(writer http.ResponseWriter, request *http.Request) {
	rootID := requestutil.ID(request, "rootID")

	status, err := handler.service.StartScan(request.Context(), rootID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Accepted(writer, status)
}

/*
GET /api/v1/libraries/{rootID}/scan.

Description: Returns the most recent scan status for a root. Finished
statuses are retained for a bounded window, then expire.

Response:
  - 200: Status
  - 404: Root unknown, never scanned, or status expired
*/
func (handler *Handler) GetStatus(writer http.ResponseWriter, request *http.Request) {
	rootID := requestutil.ID(request, "rootID")

	status, err := handler.service.GetStatus(request.Context(), rootID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}
