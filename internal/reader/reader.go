// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package reader serves ordered page sequences for issues: sessions, page and
cover artifacts, spread pairing, and reading progress.

Architecture:
  - reader.go: session issuance, page/spread logic, artifact routing.
  - progress_redis.go: per-session last-read page with TTL.
  - http.go: chi handlers; page bytes require a session token.

# Render Modes

Manga mode affects display order only. Page indices are never remapped, so a
bookmark at page 12 stays page 12 when the client switches modes.
*/
package reader

import (
	"context"
	"log/slog"
	"time"

	"github.com/longboxhq/longbox/internal/artifact"
	"github.com/longboxhq/longbox/internal/comic/archive"
	"github.com/longboxhq/longbox/internal/library"
	"github.com/longboxhq/longbox/internal/platform/apperr"
	"github.com/longboxhq/longbox/internal/platform/constants"
	"github.com/longboxhq/longbox/internal/platform/sec"
	"github.com/longboxhq/longbox/internal/platform/validate"
	"github.com/longboxhq/longbox/pkg/uuidv7"
)

// Render modes.
const (
	ModeNative = "native"
	ModeManga  = "manga"
)

// Session is an issued reading session.
//
// The token authorizes page fetches for exactly this issue; it is the only
// hotlink protection page URLs carry.
type Session struct {
	ID              string    `json:"id"`
	IssueID         string    `json:"issue_id"`
	Mode            string    `json:"mode"`
	PageCount       int       `json:"page_count"`
	Spreads         [][]int   `json:"spreads"`
	PreviousIssueID *string   `json:"previous_issue_id,omitempty"`
	NextIssueID     *string   `json:"next_issue_id,omitempty"`
	Token           string    `json:"token"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// Service orchestrates reading sessions and page serving.
type Service struct {
	library    *library.Service
	cache      *artifact.Cache
	pool       *artifact.Pool
	transcoder *artifact.Transcoder
	tokens     *sec.TokenService
	progress   *ProgressStore
	logger     *slog.Logger
}

// NewService constructs a reader [Service].
func NewService(
	libraryService *library.Service,
	cache *artifact.Cache,
	pool *artifact.Pool,
	transcoder *artifact.Transcoder,
	tokens *sec.TokenService,
	progress *ProgressStore,
	logger *slog.Logger,
) *Service {
	return &Service{
		library:    libraryService,
		cache:      cache,
		pool:       pool,
		transcoder: transcoder,
		tokens:     tokens,
		progress:   progress,
		logger:     logger,
	}
}

// # Sessions

/*
CreateSession opens a reading session for an issue.

Parameters:
  - context: context.Context
  - issueID: string (UUID)
  - mode: string (native or manga; empty defaults to native)

Returns:
  - *Session: Token, page count, spread layout, and sibling issue navigation
  - error: Validation, ErrNotFound, or signing errors
*/
func (service *Service) CreateSession(context context.Context, issueID, mode string) (*Session, error) {
	if mode == "" {
		mode = ModeNative
	}

	validator := &validate.Validator{}
	validator.OneOf(constants.FieldMode, mode, ModeNative, ModeManga)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	issue, err := service.library.GetIssue(context, issueID)
	if err != nil {
		return nil, err
	}

	previous, next, err := service.library.IssueNeighbors(context, issue)
	if err != nil {
		return nil, err
	}

	sessionID := uuidv7.New()
	token, err := service.tokens.Sign(sessionID, issue.ID, constants.SessionTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.Info("reader_session_created",
		slog.String("session_id", sessionID),
		slog.String("issue_id", issue.ID),
		slog.String("mode", mode),
	)

	session := &Session{
		ID:        sessionID,
		IssueID:   issue.ID,
		Mode:      mode,
		PageCount: issue.PageCount,
		Spreads:   Spreads(issue.PageCount, mode),
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(constants.SessionTokenTTL),
	}
	if previous != nil {
		session.PreviousIssueID = &previous.ID
	}
	if next != nil {
		session.NextIssueID = &next.ID
	}

	return session, nil
}

// # Spread Layout

/*
Spreads computes the double-page layout for an issue.

Description: The first and last page render singly (cover and back-cover
convention); everything between pairs as (N, N+1). An odd run leaves the
final middle page single. Manga mode reverses the order within each pair —
the indices themselves never change.

Parameters:
  - pageCount: int
  - mode: string (native or manga)

Returns:
  - [][]int: One slice per spread position, each of one or two page indices
*/
func Spreads(pageCount int, mode string) [][]int {
	if pageCount <= 0 {
		return [][]int{}
	}

	spreads := [][]int{{0}}
	if pageCount == 1 {
		return spreads
	}

	// Middle pages pair up; the last page stays out of pairing.
	for page := 1; page < pageCount-1; page += 2 {
		if page+1 < pageCount-1 {
			pair := []int{page, page + 1}
			if mode == ModeManga {
				pair = []int{page + 1, page}
			}
			spreads = append(spreads, pair)
		} else {
			spreads = append(spreads, []int{page})
		}
	}

	spreads = append(spreads, []int{pageCount - 1})
	return spreads
}

/*
Spread returns the page indices at one spread position for an issue.

Returns:
  - []int: One or two page indices
  - error: ErrNotFound for an unknown issue or out-of-range position
*/
func (service *Service) Spread(context context.Context, issueID string, position int, mode string) ([]int, error) {
	issue, err := service.library.GetIssue(context, issueID)
	if err != nil {
		return nil, err
	}

	spreads := Spreads(issue.PageCount, mode)
	if position < 0 || position >= len(spreads) {
		return nil, apperr.NotFound("Spread position")
	}

	return spreads[position], nil
}

// # Page Serving

/*
GetPage returns the reader-optimized artifact for one page.

Description: Routes through the artifact cache; on a miss, the transcode
runs on a pool slot, never inline on the request goroutine beyond waiting.
Concurrent requests for the same page share one computation.

Parameters:
  - context: context.Context
  - issueID: string (UUID)
  - page: int (0-based index)

Returns:
  - []byte: WebP page bytes
  - error: ErrNotFound, PAGE_UNREADABLE, or TRANSCODE_FAILED
*/
func (service *Service) GetPage(context context.Context, issueID string, page int) ([]byte, error) {
	issue, err := service.library.GetIssue(context, issueID)
	if err != nil {
		return nil, err
	}

	return service.derive(context, issue, page, constants.TransformPageWebP)
}

/*
GetCover returns the cover thumbnail artifact for an issue (page 0).
*/
func (service *Service) GetCover(context context.Context, issueID string) ([]byte, error) {
	issue, err := service.library.GetIssue(context, issueID)
	if err != nil {
		return nil, err
	}

	return service.derive(context, issue, 0, constants.TransformCoverThumb)
}

// derive routes one artifact request through cache and pool.
func (service *Service) derive(ctx context.Context, issue *library.Issue, page int, spec string) ([]byte, error) {
	if page < 0 || page >= issue.PageCount {
		return nil, apperr.NotFound("Page")
	}

	key := artifact.Key{Hash: issue.ContentHash, Page: page, Transform: spec}

	return service.cache.GetOrCompute(ctx, key, func(computeCtx context.Context) ([]byte, error) {
		return service.pool.Run(computeCtx, func(runCtx context.Context) ([]byte, error) {
			handle, err := archive.Open(issue.Path)
			if err != nil {
				return nil, err
			}
			defer handle.Close()

			source, err := handle.ReadPage(page)
			if err != nil {
				return nil, err
			}

			return service.transcoder.Derive(spec, source)
		})
	})
}

// # Reading Progress

/*
SaveProgress records the last-read page for a session.
*/
func (service *Service) SaveProgress(context context.Context, sessionID string, page int) error {
	validator := &validate.Validator{}
	validator.Custom(constants.FieldPage, page < 0, "Page index cannot be negative")
	if err := validator.Err(); err != nil {
		return err
	}

	return service.progress.Save(context, sessionID, page)
}

/*
GetProgress returns the last-read page for a session.
*/
func (service *Service) GetProgress(context context.Context, sessionID string) (*Progress, error) {
	return service.progress.Load(context, sessionID)
}
