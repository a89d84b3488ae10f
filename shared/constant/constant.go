// Package constant collects names shared across layers: request parameters, headers, table fields and trace scopes.
package constant

import "time"

// Actors recorded in created_by/modified_by when no user is behind a write.
const (
	ContextGuest  = "guest"
	ContextSystem = "system"
)

type contextKey string

const ContextKeySession contextKey = "session"

// Query string and path parameters.
const (
	RequestParamID       = "id"
	RequestParamPage     = "page"
	RequestParamLimit    = "limit"
	RequestParamSortBy   = "sort_by"
	RequestParamSortDir  = "sort_dir"
	RequestParamDateFrom = "date_from"
	RequestParamDateTo   = "date_to"

	RequestMaxMemory = 10 << 20
)

const (
	DefaultValuePage    = 1
	DefaultValueLimit   = 10
	MaxValueLimit       = 100
	DefaultValueSortBy  = FieldCreatedAt
	DefaultValueSortDir = "DESC"
)

const (
	DateFormat     = time.RFC3339
	DateOnlyFormat = time.DateOnly
)

const MinutesToSeconds = 60

// Audit columns every table carries.
const (
	FieldCreatedAt  = "created_at"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const PqErrorCodeUniqueViolation = "23505"

// Cache prefixes for sessions: auth:session:<user id>:<token id> and auth:revoked:<token id>.
const (
	CacheSessionPrefix = "auth:session"
	CacheRevokedPrefix = "auth:revoked"
)

// Tracer scopes and span attribute keys.
const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelEventScopeName      = "event"
	OtelKafkaScopeName      = "kafka"
	OtelS3ScopeName         = "s3"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
)

const (
	ContentTypeJSON        = "application/json"
	ContentTypeImagePrefix = "image/"
	FormDocument           = "document"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
	ResponseErrorUpstreamUnavailable  = "service temporarily unavailable, please try again"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Asterix = "*"
	Empty   = ""
)
