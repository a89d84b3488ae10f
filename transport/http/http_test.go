package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pxltravel/config"
	"pxltravel/infras/jwt"
	jwtMocks "pxltravel/infras/jwt/mocks"
	"pxltravel/infras/metrics"
	"pxltravel/infras/otel/mocks"
	"pxltravel/internal/domains/inventory/model"
	"pxltravel/internal/domains/inventory/model/dto"
	serviceMocks "pxltravel/internal/domains/inventory/service/mocks"
	"pxltravel/internal/handlers/inventory"
	"pxltravel/permissions"
	"pxltravel/shared/access"
	transport "pxltravel/transport/http"
	"pxltravel/transport/http/middleware"
	"pxltravel/transport/http/router"
)

type noSessions struct{}

func (noSessions) Resolve(context.Context, *jwt.Claims) (*access.Session, error) {
	return nil, nil
}

func newServer(t *testing.T) (http.Handler, *serviceMocks.MockInventory) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	metrics.Register()

	cfg := &config.Config{}
	otel := mocks.NewOtel()
	svc := serviceMocks.NewMockInventory(ctrl)

	table := permissions.Get()
	require.NotNil(t, table)

	r := router.New(
		router.DomainHandlers{Inventory: inventory.New(svc, otel)},
		cfg,
		middleware.NewAppMiddleware(otel, cfg, nil),
		middleware.NewAuthRoleMiddleware(jwtMocks.NewMockJWT(ctrl), noSessions{}, otel, table),
	)

	server := transport.New(cfg, r, nil)

	return server.Handler(), svc
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestHealth(t *testing.T) {
	handler, _ := newServer(t)

	rec := get(handler, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OK")
}

func TestPublicInventoryIsOpen(t *testing.T) {
	handler, svc := newServer(t)

	svc.EXPECT().GetAll(gomock.Any(), model.VariantLocalFlight, gomock.Any(), gomock.Any()).
		Return(dto.GetRecordsResponse{Records: []dto.RecordResponse{}}, nil)

	rec := get(handler, "/v1/local-flights?origin=BUD")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardedRoutesNeedSession(t *testing.T) {
	handler, _ := newServer(t)

	for _, path := range []string{"/v1/bookings", "/v1/bookings/mine", "/v1/users", "/v1/auth/session"} {
		rec := get(handler, path)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestMetricsExposed(t *testing.T) {
	handler, svc := newServer(t)

	svc.EXPECT().Get(gomock.Any(), model.VariantUrbanRoute, "r-1").Return(dto.RecordResponse{ID: "r-1"}, nil)
	get(handler, "/v1/urban-transportation/r-1")

	rec := get(handler, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/v1/urban-transportation/{id}"`)
}
