// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package reader

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/longboxhq/longbox/internal/platform/apperr"
	"github.com/longboxhq/longbox/internal/platform/ctxutil"
	requestutil "github.com/longboxhq/longbox/internal/platform/request"
	"github.com/longboxhq/longbox/internal/platform/respond"
	"github.com/longboxhq/longbox/internal/platform/sec"
)

// webpContentType is the media type of every served artifact.
const webpContentType = "image/webp"

// # Handler Implementation

// Handler implements the HTTP layer for reading sessions and page serving.
type Handler struct {
	service *Service
}

// NewHandler constructs a new reader [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the reader endpoints to the root API router.
//
// Covers are public: OPDS clients fetch them without a session. Page bytes
// require a session token scoped to the issue.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Post("/issues/{id}/reader", handler.CreateSession)
	api.Get("/issues/{id}/cover", handler.GetCover)
	api.Get("/issues/{id}/pages/{page}", handler.GetPage)
	api.Get("/issues/{id}/spreads/{position}", handler.GetSpread)
	api.Put("/reader/sessions/{sessionID}/progress", handler.SaveProgress)
	api.Get("/reader/sessions/{sessionID}/progress", handler.GetProgress)
}

// # Sessions

// createSessionRequest defines the inbound JSON schema for opening a session.
type createSessionRequest struct {
	Mode string `json:"mode"`
}

/*
POST /api/v1/issues/{id}/reader.

Description: Opens a reading session. The response carries the session
token to append to page URLs ("?st=..."), the page count, and the full
spread layout for the chosen mode.

Request:
  - mode: string (native or manga; defaults to native)

Response:
  - 200: Session
  - 400: Unknown mode
  - 404: Issue not found
*/
func (handler *Handler) CreateSession(writer http.ResponseWriter, request *http.Request) {
	issueID := requestutil.ID(request, "id")

	var payload createSessionRequest
	if request.ContentLength > 0 {
		if err := requestutil.DecodeJSON(request, &payload); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	session, err := handler.service.CreateSession(request.Context(), issueID, payload.Mode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// # Artifact Serving

/*
GET /api/v1/issues/{id}/cover.

Description: Serves the cover thumbnail (page 0, WebP). Public — no session
token required, so catalog clients can render shelves.

Response:
  - 200: image/webp bytes, cacheable forever
  - 404: Issue not found or cover unreadable
  - 503: Transcode failed (retryable)
*/
func (handler *Handler) GetCover(writer http.ResponseWriter, request *http.Request) {
	issueID := requestutil.ID(request, "id")

	data, err := handler.service.GetCover(request.Context(), issueID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Bytes(writer, webpContentType, data)
}

/*
GET /api/v1/issues/{id}/pages/{page}?st=<token>.

Description: Serves one reader-optimized page. Requires a session token
issued for this issue.

Response:
  - 200: image/webp bytes, cacheable forever
  - 401: Missing or foreign session token
  - 404: Issue or page not found
  - 503: Transcode failed (retryable)
*/
func (handler *Handler) GetPage(writer http.ResponseWriter, request *http.Request) {
	issueID := requestutil.ID(request, "id")

	if _, err := sessionForIssue(request, issueID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := requestutil.IntParam(request, "page")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	data, err := handler.service.GetPage(request.Context(), issueID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Bytes(writer, webpContentType, data)
}

/*
GET /api/v1/issues/{id}/spreads/{position}?mode=manga.

Description: Returns the page indices at one spread position. Indices are
always the underlying page numbers; manga mode only flips pair order.

Response:
  - 200: {"pages": [indices]}
  - 404: Issue or position not found
*/
func (handler *Handler) GetSpread(writer http.ResponseWriter, request *http.Request) {
	issueID := requestutil.ID(request, "id")

	position, err := requestutil.IntParam(request, "position")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	mode := request.URL.Query().Get("mode")
	if mode == "" {
		mode = ModeNative
	}

	pages, err := handler.service.Spread(request.Context(), issueID, position, mode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string][]int{"pages": pages})
}

// # Reading Progress

// saveProgressRequest defines the inbound JSON schema for progress updates.
type saveProgressRequest struct {
	Page int `json:"page"`
}

/*
PUT /api/v1/reader/sessions/{sessionID}/progress?st=<token>.

Description: Records the last-read page for a session. The token must
belong to the session being updated.

Response:
  - 204: Saved
  - 401: Missing or foreign session token
*/
func (handler *Handler) SaveProgress(writer http.ResponseWriter, request *http.Request) {
	sessionID := requestutil.ID(request, "sessionID")

	if err := requireSessionOwner(request, sessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload saveProgressRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SaveProgress(request.Context(), sessionID, payload.Page); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /api/v1/reader/sessions/{sessionID}/progress?st=<token>.

Response:
  - 200: Progress
  - 401: Missing or foreign session token
  - 404: No progress recorded (or TTL lapsed)
*/
func (handler *Handler) GetProgress(writer http.ResponseWriter, request *http.Request) {
	sessionID := requestutil.ID(request, "sessionID")

	if err := requireSessionOwner(request, sessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	progress, err := handler.service.GetProgress(request.Context(), sessionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, progress)
}

// # Session Checks

// sessionForIssue returns the request's session claims when they cover the
// given issue.
func sessionForIssue(request *http.Request, issueID string) (*sec.SessionClaims, error) {
	claims := ctxutil.GetSession(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("A session token is required")
	}
	if claims.IssueID != issueID {
		return nil, apperr.Unauthorized("Session token does not cover this issue")
	}
	return claims, nil
}

// requireSessionOwner checks the request's session claims match a session ID.
func requireSessionOwner(request *http.Request, sessionID string) error {
	claims := ctxutil.GetSession(request.Context())
	if claims == nil {
		return apperr.Unauthorized("A session token is required")
	}
	if claims.SessionID != sessionID {
		return apperr.Unauthorized("Session token does not cover this session")
	}
	return nil
}
