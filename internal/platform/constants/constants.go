// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Pipeline: Transform specs and archive-processing bounds.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "longbox-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Page artifacts can be several megabytes, so this is generous.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	// Page readers burst hard when preloading, so this sits well above
	// a typical reading pace.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Reader Sessions

const (
	// SessionIssuer is the standard 'iss' claim in reader session tokens.
	SessionIssuer = "longbox.app"

	// SessionTokenTTL bounds how long a page-access token stays valid.
	SessionTokenTTL = 12 * time.Hour

	// ProgressTTL is how long per-session reading progress survives in Redis.
	ProgressTTL = 90 * 24 * time.Hour
)

// # Pipeline

const (
	// TransformCoverThumb is the cover thumbnail transform spec. The spec
	// string is part of every ArtifactKey: changing any parameter here mints
	// new keys instead of mutating cached bytes.
	TransformCoverThumb = "cover-thumb-webp-q85-w400"

	// TransformPageWebP is the reader-optimized full page transform spec.
	TransformPageWebP = "page-webp-q85-d1920"

	// ThumbMaxDimension is the bounding box edge for cover thumbnails.
	ThumbMaxDimension = 400

	// PageMaxDimension is the bounding box edge for reader page transcodes.
	PageMaxDimension = 1920

	// WebPQuality is the lossy quality used for every WebP encode.
	WebPQuality = 85

	// ScanStatusTTL is how long a finished scan's status lingers in Redis.
	ScanStatusTTL = 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
)

// # Validation Field Names

const (
	FieldName    = "name"
	FieldPath    = "path"
	FieldRootID  = "root_id"
	FieldIssueID = "issue_id"
	FieldPage    = "page"
	FieldMode    = "mode"
)

// # Database Schemas

const (
	SchemaLibrary = "library"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixScanStatus = "scan:status:"
	RedisPrefixProgress   = "reader:progress:"
)
