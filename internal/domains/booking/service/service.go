package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/infras/kafka"
	"pxltravel/infras/metrics"
	"pxltravel/infras/otel"
	"pxltravel/infras/s3"
	"pxltravel/internal/domains/booking/model"
	"pxltravel/internal/domains/booking/model/dto"
	"pxltravel/internal/domains/booking/repository"
	"pxltravel/shared"
	"pxltravel/shared/access"
	"pxltravel/shared/cache"
	"pxltravel/shared/constant"
	gDto "pxltravel/shared/dto"
	"pxltravel/shared/event"
	"pxltravel/shared/failure"
	gRepo "pxltravel/shared/repository"
	"pxltravel/shared/timezone"
	"pxltravel/shared/validator"
)

const (
	cacheGetBooking     = "booking:get"
	cacheGetAllBooking  = "booking:gets"
	cacheGetMineBooking = "booking:mine"
	cacheCountBooking   = "booking:count"

	documentPrefix = "passports"
)

type Booking interface {
	Submit(ctx context.Context, session *access.Session, draft dto.BookingDraft) (dto.BookingResponse, error)
	GetMine(ctx context.Context, session *access.Session, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	GetAll(ctx context.Context, session *access.Session, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, session *access.Session, id string) (dto.BookingResponse, error)
	Review(ctx context.Context, session *access.Session, id string, req dto.ReviewRequest) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo  repository.Booking
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
	kafka kafka.Client
}

func New(repo repository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3, kafka kafka.Client) Booking {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
		kafka: kafka,
	}
}

// Submit runs one attempt of editing, validating, uploading and persisting. A failure at any
// point is a *StageError and leaves nothing behind except, after a failed insert, the uploaded image.
// Repeated submissions of the same draft create separate bookings.
func (s *serviceImpl) Submit(ctx context.Context, session *access.Session, draft dto.BookingDraft) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	defer func() {
		if stage := FailedStage(err); stage != constant.Empty {
			metrics.IncBookingFailure(string(stage))
		}
	}()

	if err = access.Authorize(session, access.LevelAuthenticated); err != nil {
		return res, &StageError{Stage: StageEditing, Err: err}
	}

	draft.Trim()

	if missing := draft.Missing(); missing != constant.Empty {
		return res, &StageError{Stage: StageEditing, Err: failure.BadRequestFromString(missing + " is required")}
	}

	if err = validator.ValidateStruct(&draft); err != nil {
		return res, &StageError{Stage: StageValidating, Err: err}
	}

	key, url, err := s.upload(ctx, session, draft.Document)
	if err != nil {
		return res, &StageError{Stage: StageUploading, Err: err}
	}

	booking, err := s.persist(ctx, session, draft, key, url)
	if err != nil {
		return res, &StageError{Stage: StagePersisting, Err: err}
	}

	res.FromModel(booking)
	metrics.IncBookingSubmitted()

	log.Info().Str("booking_id", booking.ID).Str("user_id", booking.UserID).Msg("booking submitted")

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidate(c, booking)
		event.Publish(c, s.kafka, s.cfg.Kafka.Topic.Booking, booking.ID, event.BookingSubmitted, booking.UserID, payload(booking))
	}()

	return res, nil
}

func (s *serviceImpl) upload(ctx context.Context, session *access.Session, doc *dto.Document) (key, url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".upload")
	defer scope.End()

	// the session may have expired while the draft was being validated
	if err = access.Authorize(session, access.LevelAuthenticated); err != nil {
		return key, url, err //nolint:wrapcheck
	}

	key = documentKey(session.UserID, doc.Ext(), timezone.Now())

	url, err = s.s3.Upload(ctx, key, doc.ContentType, doc.Body, doc.Size)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to upload passport image")

		return key, url, failure.UpstreamUnavailable(fmt.Errorf("failed to upload passport image: %w", err)) //nolint:wrapcheck
	}

	return key, url, nil
}

func (s *serviceImpl) persist(ctx context.Context, session *access.Session, draft dto.BookingDraft, key, url string) (model.Booking, error) {
	booking, err := draft.ToModel(session.UserID, url)
	if err != nil {
		return booking, failure.BadRequest(fmt.Errorf("invalid flight_date: %w", err)) //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to insert booking")
		log.Warn().Str("key", key).Str("user_id", session.UserID).Msg("passport image orphaned by failed booking insert")

		return booking, failure.UpstreamUnavailable(fmt.Errorf("failed to insert booking: %w", err)) //nolint:wrapcheck
	}

	return booking, nil
}

// documentKey namespaces an upload by owner and submission instant; the random suffix keeps
// keys unique within the same nanosecond.
func documentKey(userID, ext string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%d-%s%s", documentPrefix, userID, at.UnixNano(), uuid.NewString(), ext)
}

func (s *serviceImpl) GetMine(ctx context.Context, session *access.Session, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = access.Authorize(session, access.LevelAuthenticated); err != nil {
		return res, err //nolint:wrapcheck
	}

	params.Restrict(model.Sortable, constant.FieldCreatedAt, gDto.SortDirDesc)
	filter := shared.FilterByField(model.FieldUserID, session.UserID, model.TableName)

	return s.list(ctx, shared.BuildCacheKeyWithQuery(cacheGetMineBooking, params, filter, session.UserID), params, filter)
}

func (s *serviceImpl) GetAll(ctx context.Context, session *access.Session, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = access.Authorize(session, access.LevelAdmin); err != nil {
		return res, err //nolint:wrapcheck
	}

	params.Restrict(model.Sortable, constant.FieldCreatedAt, gDto.SortDirDesc)

	return s.list(ctx, shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter), params, filter)
}

func (s *serviceImpl) list(ctx context.Context, cacheKey string, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to get bookings: %w", err)) //nolint:wrapcheck
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to count bookings: %w", err)) //nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Get returns a booking to its owner or to an admin.
func (s *serviceImpl) Get(ctx context.Context, session *access.Session, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = access.Authorize(session, access.LevelAuthenticated); err != nil {
		return res, err //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		booking, err := s.find(ctx, id)
		if err != nil {
			return res, err
		}

		res.FromModel(booking)

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}()
	}

	if res.UserID != session.UserID {
		if err = access.Authorize(session, access.LevelAdmin); err != nil {
			return dto.BookingResponse{}, failure.ResourceRestrictedError
		}
	}

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, failure.UpstreamUnavailable(fmt.Errorf("failed to get booking: %w", err)) //nolint:wrapcheck
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

// Review moves a pending booking to confirmed or rejected. Decided bookings are final.
func (s *serviceImpl) Review(ctx context.Context, session *access.Session, id string, req dto.ReviewRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Review")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = access.Authorize(session, access.LevelAdmin); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if !booking.Reviewable() {
		return res, failure.Conflict("booking has already been " + booking.Status) //nolint:wrapcheck
	}

	// the status condition keeps a concurrent review from being overwritten
	filter := gDto.And(
		gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldStatus, Value: model.StatusPending, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	)

	fields := req.ToFields(session.UserID)
	if err = s.repo.Update(ctx, fields, filter); err != nil {
		if errors.Is(err, gRepo.ErrNoRowsAffected) {
			return res, failure.Conflict("booking has already been reviewed") //nolint:wrapcheck
		}

		log.Error().Err(err).Str("booking_id", id).Msg("failed to review booking")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to review booking: %w", err)) //nolint:wrapcheck
	}

	booking.Status = req.Status
	booking.ReviewedBy = &session.UserID
	booking.ModifiedBy = session.UserID

	if modifiedAt, ok := fields[constant.FieldModifiedAt].(time.Time); ok {
		booking.ModifiedAt = modifiedAt
	}

	res.FromModel(booking)
	metrics.IncBookingReviewed(req.Status)

	log.Info().Str("booking_id", id).Str("status", req.Status).Str("by", session.UserID).Msg("booking reviewed")

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidate(c, booking)
		event.Publish(c, s.kafka, s.cfg.Kafka.Topic.Booking, booking.ID, event.BookingReviewed, session.UserID, payload(booking))
	}()

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, booking model.Booking) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to invalidate booking cache")
	}

	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(cacheGetMineBooking, booking.UserID))
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)
}

func payload(booking model.Booking) event.BookingPayload {
	reviewedBy := constant.Empty
	if booking.ReviewedBy != nil {
		reviewedBy = *booking.ReviewedBy
	}

	return event.BookingPayload{
		BookingID:         booking.ID,
		UserID:            booking.UserID,
		PassengerName:     booking.PassengerName,
		FlightOrigin:      booking.FlightOrigin,
		FlightDestination: booking.FlightDestination,
		FlightDate:        booking.FlightDate.Format(constant.DateOnlyFormat),
		Status:            booking.Status,
		ReviewedBy:        reviewedBy,
	}
}
