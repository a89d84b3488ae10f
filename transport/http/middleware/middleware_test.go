package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pxltravel/config"
	"pxltravel/infras/jwt"
	jwtMocks "pxltravel/infras/jwt/mocks"
	"pxltravel/infras/otel"
	"pxltravel/infras/otel/mocks"
	"pxltravel/permissions"
	"pxltravel/shared/access"
	cacheMocks "pxltravel/shared/cache/mocks"
	"pxltravel/shared/failure"
	"pxltravel/transport/http/middleware"
)

const permissionTable = `{"endpoints":[
	{"path":"/v1/bookings","method":"GET","level":"admin"},
	{"path":"/v1/local-flights","method":"GET","skip":true}
]}`

type resolverFunc func(ctx context.Context, claims *jwt.Claims) (*access.Session, error)

func (f resolverFunc) Resolve(ctx context.Context, claims *jwt.Claims) (*access.Session, error) {
	return f(ctx, claims)
}

func sessionFor(role access.Role) resolverFunc {
	return func(_ context.Context, claims *jwt.Claims) (*access.Session, error) {
		return &access.Session{UserID: claims.UserID, Role: role, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
}

func newAuthRouter(t *testing.T, resolver middleware.SessionResolver) (*chi.Mux, *jwtMocks.MockJWT) {
	t.Helper()

	return newTracedAuthRouter(t, resolver, mocks.NewOtel())
}

func newTracedAuthRouter(t *testing.T, resolver middleware.SessionResolver, tracer otel.Otel) (*chi.Mux, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	jwtService := jwtMocks.NewMockJWT(ctrl)

	table, err := permissions.Parse([]byte(permissionTable))
	require.NoError(t, err)

	mw := middleware.NewAuthRoleMiddleware(jwtService, resolver, tracer, table)

	echo := func(w http.ResponseWriter, r *http.Request) {
		session := access.FromContext(r.Context())
		if session == nil {
			_, _ = w.Write([]byte("anonymous"))

			return
		}

		_, _ = w.Write([]byte(string(session.Role)))
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.RBAC)
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", echo)
			r.Get("/{id}", echo)
		})
		r.Get("/local-flights", echo)
	})

	return router, jwtService
}

func serve(router http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestAuth_AnonymousOnOpenRoute(t *testing.T) {
	router, _ := newAuthRouter(t, sessionFor(access.RoleRegular))

	rec := serve(router, "/v1/local-flights", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestAuth_AnonymousOnGuardedRoute(t *testing.T) {
	router, _ := newAuthRouter(t, sessionFor(access.RoleRegular))

	rec := serve(router, "/v1/bookings/b-1", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), access.MessageUnauthenticated)
}

func TestAuth_MalformedHeader(t *testing.T) {
	router, _ := newAuthRouter(t, sessionFor(access.RoleRegular))

	rec := serve(router, "/v1/bookings/b-1", "Token abc")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RejectedTokenOnOpenRoute(t *testing.T) {
	tests := []struct {
		name   string
		header string
		setup  func(jwtService *jwtMocks.MockJWT)
	}{
		{
			name:   "malformed header",
			header: "Token abc",
		},
		{
			name:   "expired token",
			header: "Bearer stale",
			setup: func(jwtService *jwtMocks.MockJWT) {
				jwtService.EXPECT().ValidateToken(gomock.Any(), "stale", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, jwtService := newAuthRouter(t, sessionFor(access.RoleRegular))
			if tt.setup != nil {
				tt.setup(jwtService)
			}

			rec := serve(router, "/v1/local-flights", tt.header)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "anonymous", rec.Body.String())
		})
	}
}

func TestAuth_TracesRejection(t *testing.T) {
	tracer := &mocks.Recorder{}
	router, jwtService := newTracedAuthRouter(t, sessionFor(access.RoleRegular), tracer)

	jwtService.EXPECT().ValidateToken(gomock.Any(), "stale", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

	rec := serve(router, "/v1/bookings/b-1", "Bearer stale")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	traced := tracer.Traced()
	require.Len(t, traced, 1)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(traced[0]))
}

func TestRBAC_TracesDenial(t *testing.T) {
	tracer := &mocks.Recorder{}
	router, _ := newTracedAuthRouter(t, sessionFor(access.RoleRegular), tracer)

	rec := serve(router, "/v1/bookings", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	traced := tracer.Traced()
	require.Len(t, traced, 1)
	assert.Equal(t, access.MessageUnauthenticated, traced[0].Error())
}

func TestAuth_ExpiredToken(t *testing.T) {
	router, jwtService := newAuthRouter(t, sessionFor(access.RoleRegular))

	jwtService.EXPECT().ValidateToken(gomock.Any(), "stale", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

	rec := serve(router, "/v1/bookings/b-1", "Bearer stale")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), access.MessageSessionExpired)
}

func TestAuth_RoleChecks(t *testing.T) {
	tests := []struct {
		name     string
		role     access.Role
		path     string
		wantCode int
	}{
		{name: "unlisted route needs a session", role: access.RoleRegular, path: "/v1/bookings/b-1", wantCode: http.StatusOK},
		{name: "regular lists all bookings", role: access.RoleRegular, path: "/v1/bookings", wantCode: http.StatusForbidden},
		{name: "admin lists all bookings", role: access.RoleAdmin, path: "/v1/bookings", wantCode: http.StatusOK},
		{name: "super admin lists all bookings", role: access.RoleSuperAdmin, path: "/v1/bookings/", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, jwtService := newAuthRouter(t, sessionFor(tt.role))

			jwtService.EXPECT().ValidateToken(gomock.Any(), "token", jwt.AccessToken).
				Return(&jwt.Claims{UserID: "u-1", TokenID: "t-1"}, nil)

			rec := serve(router, tt.path, "Bearer token")

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, string(tt.role), rec.Body.String())
			}
		})
	}
}

func TestAuth_ResolverFailure(t *testing.T) {
	resolver := resolverFunc(func(context.Context, *jwt.Claims) (*access.Session, error) {
		return nil, failure.UpstreamUnavailable(errors.New("redis: connection refused"))
	})

	router, jwtService := newAuthRouter(t, resolver)

	jwtService.EXPECT().ValidateToken(gomock.Any(), "token", jwt.AccessToken).
		Return(&jwt.Claims{UserID: "u-1", TokenID: "t-1"}, nil)

	rec := serve(router, "/v1/bookings/b-1", "Bearer token")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestRBAC_WithoutTableDenies(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mw := middleware.NewAuthRoleMiddleware(jwtMocks.NewMockJWT(ctrl), sessionFor(access.RoleAdmin), mocks.NewOtel(), nil)

	router := chi.NewRouter()
	router.With(mw.RBAC).Get("/v1/bookings", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := serve(router, "/v1/bookings", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func newLimiter(t *testing.T, enable bool) (http.Handler, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 3
	cfg.App.RateLimiter.WindowSeconds = 60

	app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RealIP)
	router.Use(app.Tracing)
	router.Use(app.RateLimit())
	router.Get("/v1/local-flights", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return router, cache
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		count         int64
		err           error
		wantCode      int
		wantRemaining string
	}{
		{name: "first request", count: 1, wantCode: http.StatusOK, wantRemaining: "2"},
		{name: "last allowed request", count: 3, wantCode: http.StatusOK, wantRemaining: "0"},
		{name: "over the limit", count: 4, wantCode: http.StatusTooManyRequests, wantRemaining: "0"},
		{name: "cache outage lets the request through", err: errors.New("dial tcp: refused"), wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, cache := newLimiter(t, true)

			cache.EXPECT().Increment(gomock.Any(), "limiter:10.0.0.7:curl/8.5", 60).Return(tt.count, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/v1/local-flights", nil)
			req.Header.Set("X-Forwarded-For", "10.0.0.7, 172.16.0.1")
			req.Header.Set("User-Agent", "curl/8.5")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get("X-RateLimit-Remaining"))
		})
	}
}

func TestRateLimit_DirectClient(t *testing.T) {
	router, cache := newLimiter(t, true)

	cache.EXPECT().Increment(gomock.Any(), "limiter:192.0.2.10:unknown", 60).Return(int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/local-flights", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	req.Header.Del("User-Agent")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_Disabled(t *testing.T) {
	router, _ := newLimiter(t, false)

	rec := serve(router, "/v1/local-flights", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
