package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pxltravel/infras/jwt"
	"pxltravel/infras/otel"
	"pxltravel/permissions"
	"pxltravel/shared/access"
	"pxltravel/shared/constant"
	"pxltravel/shared/failure"
	"pxltravel/transport/http/response"
)

// SessionResolver turns validated claims into the session the guard evaluates.
type SessionResolver interface {
	Resolve(ctx context.Context, claims *jwt.Claims) (*access.Session, error)
}

// Auth attaches the caller's session to the request context
type Auth interface {
	Auth(http.Handler) http.Handler
}

// Role rejects requests that do not meet the route's access level
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	resolver   SessionResolver
	otel       otel.Otel
	permission *permissions.PermissionData
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, resolver SessionResolver, otel otel.Otel, permissions *permissions.PermissionData) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		resolver:   resolver,
		otel:       otel,
		permission: permissions,
	}
}

// Auth validates a bearer token when one is sent. Requests without one continue anonymously,
// leaving the decision to RBAC and the services. A token that fails on a public route is dropped.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header := request.Header.Get(constant.RequestHeaderAuthorization)
		if header == constant.Empty {
			next.ServeHTTP(writer, request)

			return
		}

		session, err := m.authenticate(request.Context(), header)
		if err != nil && m.public(request) {
			log.Debug().Err(err).Str("path", request.URL.Path).Msg("ignoring rejected token on public route")
			next.ServeHTTP(writer, request)

			return
		}

		if err != nil {
			response.WithError(writer, err)

			return
		}

		next.ServeHTTP(writer, request.WithContext(access.WithSession(request.Context(), session)))
	})
}

// tokenMessages maps token validation errors to what the client is told.
var tokenMessages = map[error]string{
	jwt.ErrExpiredToken: access.MessageSessionExpired,
	jwt.ErrInvalidClaim: "Invalid token claims",
}

func (m *authRoleImpl) authenticate(ctx context.Context, header string) (session *access.Session, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	token, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, failure.Unauthorized("Invalid authorization header format") //nolint:wrapcheck
	}

	claims, err := m.jwtService.ValidateToken(ctx, token, jwt.AccessToken)
	if err != nil {
		message, ok := tokenMessages[err]
		if !ok {
			message = "Invalid token"
		}

		return nil, failure.Unauthorized(message) //nolint:wrapcheck
	}

	if session, err = m.resolver.Resolve(ctx, claims); err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("failed to resolve session")

		return nil, err //nolint:wrapcheck
	}

	scope.SetAttributes(map[string]any{
		"user.id":   session.UserID,
		"user.role": string(session.Role),
	})

	return session, nil
}

// RBAC evaluates the access guard for the level permissions.json lists for the route.
// Unlisted routes need a signed-in user; skipped routes are public.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if err := m.authorize(request); err != nil {
			response.WithError(writer, err)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

func (m *authRoleImpl) authorize(request *http.Request) (err error) {
	_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if m.permission == nil {
		return failure.ForbiddenError
	}

	if m.public(request) {
		return nil
	}

	path := routePattern(request)
	permission := m.permission.FindPermissions(path, request.Method)

	session := access.FromContext(request.Context())

	scope.SetAttributes(map[string]any{
		"http.route":     path,
		"required_level": string(permission.Required()),
		"user_role":      roleOf(session),
	})

	return access.Authorize(session, permission.Required()) //nolint:wrapcheck
}

// public reports whether the route is skipped by the permission table.
func (m *authRoleImpl) public(request *http.Request) bool {
	if m.permission == nil {
		return false
	}

	return m.permission.Skip || m.permission.FindPermissions(routePattern(request), request.Method).Skip
}

func roleOf(session *access.Session) string {
	if session == nil {
		return constant.ContextGuest
	}

	return string(session.Role)
}

// routePattern resolves the chi pattern for the request before the sub-routers have run,
// without a trailing slash.
func routePattern(request *http.Request) string {
	path := request.URL.Path

	if rctx := chi.RouteContext(request.Context()); rctx != nil && rctx.Routes != nil {
		if pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, path); pattern != constant.Empty {
			path = pattern
		}
	}

	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return path
}
