// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/longboxhq/longbox/internal/platform/request"
	"github.com/longboxhq/longbox/internal/platform/respond"
	"github.com/longboxhq/longbox/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for library browsing.
type Handler struct {
	service *Service
}

// NewHandler constructs a new library [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the browsing endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/libraries", handler.ListRoots)
	api.Post("/libraries", handler.RegisterRoot)
	api.Get("/libraries/{rootID}/series", handler.ListSeries)
	api.Get("/series/{id}", handler.GetSeries)
	api.Get("/issues/{id}", handler.GetIssue)
	api.Get("/issues/{id}/download", handler.DownloadIssue)
}

// # Root Endpoints

/*
GET /api/v1/libraries.

Description: Returns every configured library root.

Response:
  - 200: []Root
*/
func (handler *Handler) ListRoots(writer http.ResponseWriter, request *http.Request) {
	roots, err := handler.service.ListRoots(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if roots == nil {
		roots = []*Root{}
	}
	respond.OK(writer, roots)
}

// registerRootRequest defines the inbound JSON schema for adding a root.
type registerRootRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

/*
POST /api/v1/libraries.

Description: Registers a directory tree as a library root. The tree is not
scanned yet; scanning is a separate, explicitly triggered operation.

Request:
  - name: string (Display label)
  - path: string (Absolute path on the server)

Response:
  - 200: Root
  - 400: Validation failure
*/
func (handler *Handler) RegisterRoot(writer http.ResponseWriter, request *http.Request) {
	var payload registerRootRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	root, err := handler.service.RegisterRoot(request.Context(), payload.Name, payload.Path)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, root)
}

// # Series Endpoints

/*
GET /api/v1/libraries/{rootID}/series.

Description: Returns a paginated list of series under a root with their
plain-issue counts.

Request:
  - rootID: string (UUID)
  - limit: int
  - page: int

Response:
  - 200: []SeriesSummary: Paginated list
  - 404: Library root not found
*/
func (handler *Handler) ListSeries(writer http.ResponseWriter, request *http.Request) {
	rootID := requestutil.ID(request, "rootID")
	paginationParams := pagination.FromRequest(request)

	summaries, total, err := handler.service.ListSeries(request.Context(), rootID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if summaries == nil {
		summaries = []*SeriesSummary{}
	}
	respond.Paginated(writer, summaries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/series/{id}.

Description: Returns the full series detail view: volumes with partitioned
issue lists (plain, annuals, specials) and derived counts.

Response:
  - 200: SeriesView
  - 404: Series not found
*/
func (handler *Handler) GetSeries(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	view, err := handler.service.GetSeries(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// # Issue Endpoints

/*
GET /api/v1/issues/{id}.

Description: Returns a single issue's metadata. Archive paths stay
server-side; clients get content hash, container kind, and page count.

Response:
  - 200: Issue
  - 404: Issue not found
*/
func (handler *Handler) GetIssue(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	issue, err := handler.service.GetIssue(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, issue)
}

/*
GET /api/v1/issues/{id}/download.

Description: Serves the original archive file unmodified. This is the OPDS
acquisition target; download clients get the bytes the scanner hashed.

Response:
  - 200: application/vnd.comicbook+zip or +rar
  - 404: Issue not found
*/
func (handler *Handler) DownloadIssue(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	issue, err := handler.service.GetIssue(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", ContainerMediaType(issue.Container))
	http.ServeFile(writer, request, issue.Path)
}
