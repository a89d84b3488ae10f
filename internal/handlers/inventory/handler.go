package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pxltravel/infras/otel"
	"pxltravel/internal/domains/inventory/model"
	"pxltravel/internal/domains/inventory/model/dto"
	"pxltravel/internal/domains/inventory/service"
	"pxltravel/internal/handlers"
	"pxltravel/shared"
	"pxltravel/shared/access"
	"pxltravel/shared/constant"
	gDto "pxltravel/shared/dto"
	"pxltravel/shared/validator"
	"pxltravel/transport/http/response"
)

const (
	pathLocalFlights = "/local-flights"
	pathUrbanRoutes  = "/urban-transportation"
)

type Handler struct {
	service service.Inventory
	otel    otel.Otel
}

func New(service service.Inventory, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	handler.mount(router, pathLocalFlights, model.VariantLocalFlight)
	handler.mount(router, pathUrbanRoutes, model.VariantUrbanRoute)
}

func (handler *Handler) mount(router chi.Router, path string, variant model.Variant) {
	router.Route(path, func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRecord(variant))
		routerGroup.Get("/", handler.GetRecords(variant))
		routerGroup.Get("/{id}", handler.GetRecordByID(variant))
		routerGroup.Patch("/{id}", handler.UpdateRecord(variant))
	})
}

// CreateRecord adds a local flight or urban route.
// @Summary Create an inventory record
// @Description Admins add a local flight (airline, flight_date) or an urban route (route_name, transport_type, trip_date).
// @Description Price accepts a string or a number with at most two decimals.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.Draft true "Inventory Draft"
// @Success 201 {object} response.Data[dto.RecordResponse] "Created record"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/local-flights [post]
// @Router /v1/urban-transportation [post]
// @Security BearerAuth
func (handler *Handler) CreateRecord(variant model.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRecord")
		defer scope.End()

		scope.SetAttribute("inventory.variant", string(variant))

		draft := dto.Draft{}
		if err := validator.Decode(r.Body, &draft); err != nil {
			handlers.Fail(w, scope, "failed to decode request body", err)

			return
		}

		res, err := handler.service.Create(ctx, access.FromContext(ctx), variant, draft)
		if err != nil {
			handlers.Fail(w, scope, "failed to create inventory record", err)

			return
		}

		scope.AddEvent("Inventory record created")

		response.WithJSON(w, http.StatusCreated, res)
	}
}

// GetRecords lists records of one variant.
// @Summary List inventory records
// @Description Ordered by travel date then departure time unless sort_by is given.
// @Tags Inventory
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param origin query string false "Filter by origin"
// @Param destination query string false "Filter by destination"
// @Param flight_date query string false "Filter local flights by date"
// @Param trip_date query string false "Filter urban routes by date"
// @Param date_from query string false "Earliest travel date, inclusive"
// @Param date_to query string false "Latest travel date, inclusive"
// @Failure 400 {object} response.Error
// @Success 200 {object} response.Data[dto.GetRecordsResponse] "List of records"
// @Failure 503 {object} response.Error
// @Router /v1/local-flights [get]
// @Router /v1/urban-transportation [get]
func (handler *Handler) GetRecords(variant model.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRecords")
		defer scope.End()

		queryParams := gDto.NewQueryParams(r.URL.Query())

		fields := []string{model.FieldOrigin, model.FieldDestination, variant.DateField()}
		if variant == model.VariantUrbanRoute {
			fields = append(fields, model.FieldTransportType)
		}

		filter, err := shared.WithDateRange(
			shared.FilterByQuery(r.URL.Query(), variant.Table(), fields...),
			r.URL.Query(), variant.Table(), variant.DateField(),
		)
		if err != nil {
			handlers.Fail(w, scope, "invalid date range", err)

			return
		}

		res, err := handler.service.GetAll(ctx, variant, queryParams, filter)
		if err != nil {
			handlers.Fail(w, scope, "failed to get inventory records", err)

			return
		}

		response.WithJSON(w, http.StatusOK, res)
	}
}

// GetRecordByID retrieves one record.
// @Summary Get an inventory record
// @Tags Inventory
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Data[dto.RecordResponse] "Record details"
// @Failure 404 {object} response.Error
// @Router /v1/local-flights/{id} [get]
// @Router /v1/urban-transportation/{id} [get]
func (handler *Handler) GetRecordByID(variant model.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRecordByID")
		defer scope.End()

		id := chi.URLParam(r, constant.RequestParamID)

		res, err := handler.service.Get(ctx, variant, id)
		if err != nil {
			handlers.Fail(w, scope, "failed to get inventory record", err)

			return
		}

		response.WithJSON(w, http.StatusOK, res)
	}
}

// UpdateRecord changes some fields of a record.
// @Summary Update an inventory record
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param request body dto.UpdateDraft true "Fields to change"
// @Success 200 {object} response.Data[dto.RecordResponse] "Updated record"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/local-flights/{id} [patch]
// @Router /v1/urban-transportation/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRecord(variant model.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRecord")
		defer scope.End()

		id := chi.URLParam(r, constant.RequestParamID)

		draft := dto.UpdateDraft{}
		if err := validator.Decode(r.Body, &draft); err != nil {
			handlers.Fail(w, scope, "failed to decode request body", err)

			return
		}

		res, err := handler.service.Update(ctx, access.FromContext(ctx), variant, id, draft)
		if err != nil {
			handlers.Fail(w, scope, "failed to update inventory record", err)

			return
		}

		scope.AddEvent("Inventory record updated")

		response.WithJSON(w, http.StatusOK, res)
	}
}
