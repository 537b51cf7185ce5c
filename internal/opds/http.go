// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package opds

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/longboxhq/longbox/internal/library"
	requestutil "github.com/longboxhq/longbox/internal/platform/request"
	"github.com/longboxhq/longbox/internal/platform/respond"
)

// catalogPageSize bounds how many series one catalog page carries.
const catalogPageSize = 100

// # Handler Implementation

// Handler implements the OPDS catalog routes.
type Handler struct {
	library *library.Service
}

// NewHandler constructs a new OPDS [Handler].
func NewHandler(libraryService *library.Service) *Handler {
	return &Handler{library: libraryService}
}

// RegisterRoutes attaches the catalog tree to the given router. OPDS lives
// outside /api/v1: it is a protocol surface for e-reader clients, not part
// of the JSON API.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/opds", handler.Root)
	router.Get("/opds/libraries/{rootID}", handler.Library)
	router.Get("/opds/series/{id}", handler.Series)
}

/*
GET /opds.

Description: The catalog root: one navigation entry per library root.

Response:
  - 200: Atom navigation feed
*/
func (handler *Handler) Root(writer http.ResponseWriter, request *http.Request) {
	roots, err := handler.library.ListRoots(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Atom(writer, request, rootFeed(roots, time.Now()))
}

/*
GET /opds/libraries/{rootID}.

Description: One navigation entry per series under a root, with issue
counts as entry content.

Response:
  - 200: Atom navigation feed
  - 404: Library root not found
*/
func (handler *Handler) Library(writer http.ResponseWriter, request *http.Request) {
	rootID := requestutil.ID(request, "rootID")

	root, err := handler.library.GetRoot(request.Context(), rootID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	series, _, err := handler.library.ListSeries(request.Context(), root.ID, catalogPageSize, 0)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Atom(writer, request, libraryFeed(root, series, time.Now()))
}

/*
GET /opds/series/{id}.

Description: The acquisition feed for one series: every issue in view
order with download and cover links.

Response:
  - 200: Atom acquisition feed
  - 404: Series not found
*/
func (handler *Handler) Series(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	view, err := handler.library.GetSeries(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Atom(writer, request, seriesFeed(view, time.Now()))
}
