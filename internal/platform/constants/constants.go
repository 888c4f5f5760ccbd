// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, domain limits, and cross-cutting keys
that are shared between different layers of the system.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "tsuzuri-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "tsuzuri.app"

	// AccessTokenCookieName is the cookie consulted when no Authorization header is sent.
	AccessTokenCookieName = "access_token"
)

// # Engagement

const (
	// ViewCooldown is the window during which repeat views from one viewer are not counted.
	ViewCooldown = 5 * time.Minute

	// ViewTrackerSweepInterval is how often the in-memory tracker drops expired entries.
	ViewTrackerSweepInterval = 1 * time.Minute

	// PopularTagsTTL is how long the popular tag list stays cached.
	PopularTagsTTL = 1 * time.Hour

	// PopularTagsLimit is the number of tags returned by the popular tag list.
	PopularTagsLimit = 20

	// RankingLimit is the number of posts returned by the view ranking.
	RankingLimit = 30

	// LatestCommentsLimit is the number of comments returned after posting one.
	LatestCommentsLimit = 5

	// SearchLimit caps the number of posts returned by a search.
	SearchLimit = 50
)

// # Content Limits

const (
	SeriesTitleMin       = 5
	SeriesTitleMax       = 400
	SeriesDescriptionMin = 20
	SeriesDescriptionMax = 2000
	SeriesTagsMax        = 10

	PostTitleMax       = 400
	PostDescriptionMax = 3000
	PostTagMax         = 50
	PostTagsMax        = 10

	CommentTextMax = 1000

	ProfileNicknameMax    = 50
	ProfileDescriptionMax = 2000
	ProfileLinkMax        = 500
	PasswordMin           = 8

	// PasswordMaxBytes is the bcrypt input limit. Longer input is rejected, not truncated.
	PasswordMaxBytes = 72
)

// # Uploads

const (
	// UploadURLPrefix is the public path prefix of uploaded files.
	UploadURLPrefix = "/uploads/"

	// DefaultIconPath is assigned to accounts registered without an icon.
	DefaultIconPath = "/uploads/default.png"

	// MaxUploadBytes bounds multipart request bodies.
	MaxUploadBytes = 5 << 20

	// MaxJSONBytes bounds JSON request bodies, post content included.
	MaxJSONBytes = 2 << 20
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixResetToken = "auth:reset_token:"
	RedisPrefixView       = "post:view:"
	RedisKeyPopularTags   = "tags:popular"
)
