package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pxltravel/config"
	kafkaMocks "pxltravel/infras/kafka/mocks"
	"pxltravel/infras/otel/mocks"
	inventoryMocks "pxltravel/internal/domains/inventory/mocks"
	"pxltravel/internal/domains/inventory/model"
	"pxltravel/internal/domains/inventory/model/dto"
	"pxltravel/internal/domains/inventory/service"
	"pxltravel/shared/access"
	"pxltravel/shared/cache"
	cacheMocks "pxltravel/shared/cache/mocks"
	gDto "pxltravel/shared/dto"
	"pxltravel/shared/failure"
	gModel "pxltravel/shared/model"
)

type fixture struct {
	flights *inventoryMocks.MockLocalFlight
	routes  *inventoryMocks.MockUrbanRoute
	cache   *cacheMocks.MockRedisCache
	kafka   *kafkaMocks.MockClient
	svc     service.Inventory
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := fixture{
		flights: inventoryMocks.NewMockLocalFlight(ctrl),
		routes:  inventoryMocks.NewMockUrbanRoute(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
		kafka:   kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 300
	cfg.Kafka.Topic.Inventory = "pxltravel.inventory"

	f.svc = service.New(f.flights, f.routes, cfg, f.cache, mocks.NewOtel(), f.kafka)

	return f
}

func (f fixture) allowAsync() {
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func session(role access.Role) *access.Session {
	return &access.Session{
		UserID:    "user-" + string(role),
		Email:     string(role) + "@example.com",
		Role:      role,
		TokenID:   "token-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func flightDraft() dto.Draft {
	return dto.Draft{
		Origin:         "BUD",
		Destination:    "VIE",
		DepartureTime:  "08:30",
		ArrivalTime:    "09:20",
		Duration:       "50m",
		Price:          "150.00",
		AvailableSeats: "50",
		Airline:        "Austrian",
		FlightDate:     "2024-03-15",
	}
}

func routeDraft() dto.Draft {
	return dto.Draft{
		Origin:         "Keleti",
		Destination:    "Airport",
		DepartureTime:  "06:00",
		ArrivalTime:    "06:45",
		Duration:       "45m",
		Price:          "2.50",
		AvailableSeats: "80",
		RouteName:      "100E",
		TransportType:  "Bus",
		TripDate:       "2024-03-15",
	}
}

func storedFlight(id string) model.LocalFlight {
	return model.LocalFlight{
		ID:         id,
		Airline:    "Austrian",
		FlightDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Schedule: model.Schedule{
			Origin:         "BUD",
			Destination:    "VIE",
			DepartureTime:  "08:30",
			ArrivalTime:    "09:20",
			Duration:       "50m",
			Price:          decimal.RequireFromString("150"),
			AvailableSeats: 50,
		},
		Metadata: gModel.NewMetadata(time.Now(), "user-admin"),
	}
}

func miss() error {
	return fmt.Errorf("failed to get cache value: %w", cache.Nil)
}

func assertFailure(t *testing.T, err error, code int, msg string) {
	t.Helper()

	require.Error(t, err)
	assert.Equal(t, code, failure.GetCode(err), err.Error())

	if msg != "" {
		var fail *failure.Failure
		require.ErrorAs(t, err, &fail)
		assert.Equal(t, msg, fail.Message)
	}
}

func TestInventoryService_Create_LocalFlight(t *testing.T) {
	f := newFixture(t)
	f.allowAsync()

	f.flights.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, flight model.LocalFlight) error {
			assert.NotEmpty(t, flight.ID)
			assert.True(t, flight.Price.Equal(decimal.RequireFromString("150.00")), flight.Price.String())
			assert.Equal(t, 50, flight.AvailableSeats)
			assert.Equal(t, "BUD", flight.Origin)
			assert.Equal(t, "VIE", flight.Destination)
			assert.Equal(t, "Austrian", flight.Airline)
			assert.Equal(t, flight.CreatedAt, flight.ModifiedAt)
			assert.Equal(t, "user-admin", flight.CreatedBy)

			return nil
		}).
		Times(1)

	res, err := f.svc.Create(context.Background(), session(access.RoleAdmin), model.VariantLocalFlight, flightDraft())

	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "150.00", res.Price)
	assert.Equal(t, 50, res.AvailableSeats)
	assert.Equal(t, "2024-03-15", res.Date)
	assert.Equal(t, "local_flight", res.Variant)

	time.Sleep(10 * time.Millisecond)
}

func TestInventoryService_Create_UrbanRoute(t *testing.T) {
	f := newFixture(t)
	f.allowAsync()

	f.routes.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, route model.UrbanRoute) error {
			assert.Equal(t, "bus", route.TransportType)
			assert.Equal(t, "100E", route.RouteName)
			assert.Equal(t, "2024-03-15", route.TripDate.Format("2006-01-02"))

			return nil
		})

	res, err := f.svc.Create(context.Background(), session(access.RoleSuperAdmin), model.VariantUrbanRoute, routeDraft())

	require.NoError(t, err)
	assert.Equal(t, "2.50", res.Price)
	assert.Equal(t, "urban_route", res.Variant)
	assert.Empty(t, res.Airline)

	time.Sleep(10 * time.Millisecond)
}

func TestInventoryService_Create_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		session   *access.Session
		variant   model.Variant
		draft     func() dto.Draft
		setupMock func(f fixture)
		wantCode  int
		wantMsg   string
	}{
		{
			name:     "regular user is denied",
			session:  session(access.RoleRegular),
			variant:  model.VariantLocalFlight,
			draft:    flightDraft,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "anonymous caller",
			session:  nil,
			variant:  model.VariantLocalFlight,
			draft:    flightDraft,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown variant",
			session:  session(access.RoleAdmin),
			variant:  model.Variant("ferry"),
			draft:    flightDraft,
			wantCode: http.StatusNotFound,
		},
		{
			name:    "malformed price",
			session: session(access.RoleAdmin),
			variant: model.VariantLocalFlight,
			draft: func() dto.Draft {
				d := flightDraft()
				d.Price = "150,00"

				return d
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "price must be a non-negative amount below 10000000000 with at most 2 decimal places",
		},
		{
			name:    "negative seats",
			session: session(access.RoleAdmin),
			variant: model.VariantLocalFlight,
			draft: func() dto.Draft {
				d := flightDraft()
				d.AvailableSeats = "-1"

				return d
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "available_seats must be a whole number from 0 to 2147483647",
		},
		{
			name:    "fractional seats",
			session: session(access.RoleAdmin),
			variant: model.VariantLocalFlight,
			draft: func() dto.Draft {
				d := flightDraft()
				d.AvailableSeats = "2.5"

				return d
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "available_seats must be a whole number from 0 to 2147483647",
		},
		{
			name:    "price beyond the column range",
			session: session(access.RoleAdmin),
			variant: model.VariantLocalFlight,
			draft: func() dto.Draft {
				d := flightDraft()
				d.Price = "1e15"

				return d
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "price must be a non-negative amount below 10000000000 with at most 2 decimal places",
		},
		{
			name:    "price with sub-cent digits",
			session: session(access.RoleAdmin),
			variant: model.VariantUrbanRoute,
			draft: func() dto.Draft {
				d := routeDraft()
				d.Price = "150.999"

				return d
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "price must be a non-negative amount below 10000000000 with at most 2 decimal places",
		},
		{
			name:    "seats beyond the column range",
			session: session(access.RoleAdmin),
			variant: model.VariantLocalFlight,
			draft: func() dto.Draft {
				d := flightDraft()
				d.AvailableSeats = "3000000000"

				return d
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "available_seats must be a whole number from 0 to 2147483647",
		},
		{
			name:    "local flight without airline",
			session: session(access.RoleAdmin),
			variant: model.VariantLocalFlight,
			draft: func() dto.Draft {
				d := flightDraft()
				d.Airline = " "

				return d
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "airline is required",
		},
		{
			name:    "departure time is not a clock time",
			session: session(access.RoleAdmin),
			variant: model.VariantLocalFlight,
			draft: func() dto.Draft {
				d := flightDraft()
				d.DepartureTime = "8.30am"

				return d
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "departure_time must match the format 15:04",
		},
		{
			name:    "unknown transport type",
			session: session(access.RoleAdmin),
			variant: model.VariantUrbanRoute,
			draft: func() dto.Draft {
				d := routeDraft()
				d.TransportType = "gondola"

				return d
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "transport_type must be one of bus, train, metro, tram, shuttle, other",
		},
		{
			name:    "urban route without trip date",
			session: session(access.RoleAdmin),
			variant: model.VariantUrbanRoute,
			draft: func() dto.Draft {
				d := routeDraft()
				d.TripDate = ""

				return d
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "trip_date is required",
		},
		{
			name:    "store outage",
			session: session(access.RoleAdmin),
			variant: model.VariantLocalFlight,
			draft:   flightDraft,
			setupMock: func(f fixture) {
				f.flights.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
			},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.Create(context.Background(), tt.session, tt.variant, tt.draft())

			assertFailure(t, err, tt.wantCode, tt.wantMsg)
			assert.Empty(t, res.ID)
		})
	}
}

func TestInventoryService_GetAll(t *testing.T) {
	tests := []struct {
		name       string
		variant    model.Variant
		params     gDto.QueryParams
		wantSortBy string
		wantDir    string
	}{
		{
			name:       "local flights default to date then departure",
			variant:    model.VariantLocalFlight,
			params:     gDto.QueryParams{Page: 1, Limit: 10},
			wantSortBy: "flight_date ASC, departure_time",
			wantDir:    "ASC",
		},
		{
			name:       "urban routes default to trip date",
			variant:    model.VariantUrbanRoute,
			params:     gDto.QueryParams{Page: 1, Limit: 10, SortBy: "flight_date"},
			wantSortBy: "trip_date ASC, departure_time",
			wantDir:    "ASC",
		},
		{
			name:       "sortable column is kept",
			variant:    model.VariantLocalFlight,
			params:     gDto.QueryParams{Page: 1, Limit: 10, SortBy: "price", SortDir: "DESC"},
			wantSortBy: "price",
			wantDir:    "DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.allowAsync()

			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(miss())

			check := func(params gDto.QueryParams) {
				assert.Equal(t, tt.wantSortBy, params.SortBy)
				assert.Equal(t, tt.wantDir, params.SortDir)
			}

			if tt.variant == model.VariantUrbanRoute {
				f.routes.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				f.routes.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.UrbanRoute, error) {
						check(params)

						return nil, nil
					})
			} else {
				f.flights.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				f.flights.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.LocalFlight, error) {
						check(params)

						return []model.LocalFlight{storedFlight("f-1")}, nil
					})
			}

			res, err := f.svc.GetAll(context.Background(), tt.variant, tt.params, gDto.FilterGroup{})
			require.NoError(t, err)

			if tt.variant == model.VariantLocalFlight {
				require.Len(t, res.Records, 1)
				assert.Equal(t, "150.00", res.Records[0].Price)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}

	t.Run("store outage", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(miss())
		f.flights.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("timeout"))

		_, err := f.svc.GetAll(context.Background(), model.VariantLocalFlight, gDto.QueryParams{}, gDto.FilterGroup{})
		assertFailure(t, err, http.StatusServiceUnavailable, "")
	})
}

func TestInventoryService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		f.allowAsync()

		f.cache.EXPECT().Get(gomock.Any(), "local_flight:get:f-1", gomock.Any()).Return(miss())
		f.flights.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedFlight("f-1"), nil)

		res, err := f.svc.Get(context.Background(), model.VariantLocalFlight, "f-1")
		require.NoError(t, err)
		assert.Equal(t, "f-1", res.ID)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(miss())
		f.routes.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.UrbanRoute{}, nil)

		_, err := f.svc.Get(context.Background(), model.VariantUrbanRoute, "r-404")
		assertFailure(t, err, http.StatusNotFound, "urban_route not found")
	})
}

func TestInventoryService_Update(t *testing.T) {
	price := dto.Numeric("99.90")
	seats := dto.Numeric("0")
	blank := "  "
	hugePrice := dto.Numeric("1e15")
	finePrice := dto.Numeric("150.999")
	manySeats := dto.Numeric("3000000000")

	tests := []struct {
		name      string
		session   *access.Session
		draft     dto.UpdateDraft
		setupMock func(f fixture)
		wantCode  int
		wantMsg   string
	}{
		{
			name:     "regular user is denied",
			session:  session(access.RoleRegular),
			draft:    dto.UpdateDraft{Price: &price},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "empty change",
			session:  session(access.RoleAdmin),
			draft:    dto.UpdateDraft{},
			wantCode: http.StatusBadRequest,
			wantMsg:  "nothing to update",
		},
		{
			name:     "blank origin",
			session:  session(access.RoleAdmin),
			draft:    dto.UpdateDraft{Origin: &blank},
			wantCode: http.StatusBadRequest,
			wantMsg:  "origin must not be empty",
		},
		{
			name:     "price beyond the column range",
			session:  session(access.RoleAdmin),
			draft:    dto.UpdateDraft{Price: &hugePrice},
			wantCode: http.StatusBadRequest,
			wantMsg:  "price must be a non-negative amount below 10000000000 with at most 2 decimal places",
		},
		{
			name:     "price with sub-cent digits",
			session:  session(access.RoleAdmin),
			draft:    dto.UpdateDraft{Price: &finePrice},
			wantCode: http.StatusBadRequest,
			wantMsg:  "price must be a non-negative amount below 10000000000 with at most 2 decimal places",
		},
		{
			name:     "seats beyond the column range",
			session:  session(access.RoleAdmin),
			draft:    dto.UpdateDraft{AvailableSeats: &manySeats},
			wantCode: http.StatusBadRequest,
			wantMsg:  "available_seats must be a whole number from 0 to 2147483647",
		},
		{
			name:    "missing record",
			session: session(access.RoleAdmin),
			draft:   dto.UpdateDraft{Price: &price},
			setupMock: func(f fixture) {
				f.flights.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.LocalFlight{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:    "price and seats change",
			session: session(access.RoleAdmin),
			draft:   dto.UpdateDraft{Price: &price, AvailableSeats: &seats},
			setupMock: func(f fixture) {
				updated := storedFlight("f-1")
				updated.Price = decimal.RequireFromString("99.90")
				updated.AvailableSeats = 0

				gomock.InOrder(
					f.flights.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedFlight("f-1"), nil),
					f.flights.EXPECT().
						Update(gomock.Any(), gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
							got, ok := fields["price"].(decimal.Decimal)
							require.True(t, ok)
							assert.True(t, got.Equal(decimal.RequireFromString("99.9")))
							assert.Equal(t, 0, fields["available_seats"])
							assert.Equal(t, "user-admin", fields["modified_by"])

							return nil
						}),
					f.flights.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil),
				)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.allowAsync()

			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.Update(context.Background(), tt.session, model.VariantLocalFlight, "f-1", tt.draft)

			if tt.wantCode != 0 {
				assertFailure(t, err, tt.wantCode, tt.wantMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "99.90", res.Price)
			assert.Equal(t, 0, res.AvailableSeats)
		})
	}
}

func TestInventoryService_TracesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	tracer := &mocks.Recorder{}
	flights := inventoryMocks.NewMockLocalFlight(ctrl)
	svc := service.New(flights, inventoryMocks.NewMockUrbanRoute(ctrl), &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), tracer, kafkaMocks.NewMockClient(ctrl))

	_, err := svc.Create(context.Background(), nil, model.VariantLocalFlight, flightDraft())
	require.Error(t, err)

	flights.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	_, err = svc.Create(context.Background(), session(access.RoleAdmin), model.VariantLocalFlight, flightDraft())
	require.Error(t, err)

	traced := tracer.Traced()
	require.Len(t, traced, 2)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(traced[0]))
	assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(traced[1]))
}
