package booking

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/infras/otel"
	"pxltravel/internal/domains/booking/model"
	"pxltravel/internal/domains/booking/model/dto"
	"pxltravel/internal/domains/booking/service"
	"pxltravel/internal/handlers"
	"pxltravel/shared"
	"pxltravel/shared/access"
	"pxltravel/shared/constant"
	gDto "pxltravel/shared/dto"
	"pxltravel/shared/failure"
	"pxltravel/transport/http/response"
)

// formOverhead is the room left for the text fields and multipart framing.
const formOverhead = 1 << 20

type Handler struct {
	service service.Booking
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Booking, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.SubmitBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/mine", handler.GetMyBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}/status", handler.ReviewBooking)
	})
}

// SubmitBooking handles a booking submission.
// @Summary Submit a booking
// @Description Submit flight details, passenger contact, payment reference and a passport image.
// @Description On failure the response names the stage that failed.
// @Tags Booking
// @Accept mpfd
// @Produce json
// @Param flight_origin formData string true "Origin"
// @Param flight_destination formData string true "Destination"
// @Param flight_date formData string true "Flight date (YYYY-MM-DD)"
// @Param passenger_name formData string true "Passenger name"
// @Param phone_number formData string true "Phone number"
// @Param transaction_number formData string true "Payment transaction number"
// @Param document formData file true "Passport image, at most 5 MB"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking submitted"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitBooking")
	defer scope.End()

	r.Body = http.MaxBytesReader(w, r.Body, 2*handler.cfg.App.Upload.MaxDocumentBytes+formOverhead)

	draft, file, err := draftFromForm(r)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to read booking form")

		response.WithStageError(w, string(service.StageEditing), err)

		return
	}

	if file != nil {
		defer file.Close()
	}

	res, err := handler.service.Submit(ctx, access.FromContext(ctx), draft)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit booking")

		response.WithStageError(w, string(service.FailedStage(err)), err)

		return
	}

	scope.AddEvent("Booking submitted")

	response.WithJSON(w, http.StatusCreated, res)
}

// draftFromForm reads the multipart form. A missing document leaves Draft.Document nil.
func draftFromForm(r *http.Request) (dto.BookingDraft, multipart.File, error) {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dto.BookingDraft{}, nil, failure.BadRequestFromString(fmt.Sprintf("document must not exceed %d MB", dto.MaxDocumentMB)) //nolint:wrapcheck
		}

		return dto.BookingDraft{}, nil, failure.BadRequestFromString("request must be multipart/form-data") //nolint:wrapcheck
	}

	draft := dto.BookingDraft{
		FlightOrigin:      r.FormValue(model.FieldFlightOrigin),
		FlightDestination: r.FormValue(model.FieldFlightDestination),
		FlightDate:        r.FormValue(model.FieldFlightDate),
		PassengerName:     r.FormValue(model.FieldPassengerName),
		PhoneNumber:       r.FormValue(model.FieldPhoneNumber),
		TransactionNumber: r.FormValue(model.FieldTransactionNumber),
	}

	file, header, err := r.FormFile(constant.FormDocument)
	if errors.Is(err, http.ErrMissingFile) {
		return draft, nil, nil
	}

	if err != nil {
		return dto.BookingDraft{}, nil, failure.BadRequest(fmt.Errorf("failed to read document: %w", err)) //nolint:wrapcheck
	}

	draft.Document = &dto.Document{
		FileName:    header.Filename,
		ContentType: header.Header.Get(constant.RequestHeaderContentType),
		Size:        header.Size,
		Body:        file,
	}

	return draft, file, nil
}

// GetBookings lists every booking.
// @Summary Get all bookings
// @Description Admins list bookings with optional status filter and pagination.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param user_id query string false "Filter by owner"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.NewQueryParams(r.URL.Query())

	filter := shared.FilterByQuery(r.URL.Query(), model.TableName, model.FieldStatus, model.FieldUserID)

	bookings, err := handler.service.GetAll(ctx, access.FromContext(ctx), queryParams, filter)
	if err != nil {
		handlers.Fail(w, scope, "failed to get bookings", err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetMyBookings lists the caller's bookings.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 401 {object} response.Error
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	queryParams := gDto.NewQueryParams(r.URL.Query())

	bookings, err := handler.service.GetMine(ctx, access.FromContext(ctx), queryParams)
	if err != nil {
		handlers.Fail(w, scope, "failed to get own bookings", err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking.
// @Summary Get a booking by ID
// @Description Owners and admins may read a booking.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, access.FromContext(ctx), id)
	if err != nil {
		handlers.Fail(w, scope, "failed to get booking", err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// ReviewBooking confirms or rejects a pending booking.
// @Summary Review a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.ReviewRequest true "Review Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Reviewed booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) ReviewBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReviewBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req, ok := handlers.Bind[dto.ReviewRequest](w, r, scope)
	if !ok {
		return
	}

	booking, err := handler.service.Review(ctx, access.FromContext(ctx), id, req)
	if err != nil {
		handlers.Fail(w, scope, "failed to review booking", err)

		return
	}

	scope.AddEvent("Booking reviewed")

	response.WithJSON(w, http.StatusOK, booking)
}
