package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/infras/kafka"
	"pxltravel/infras/metrics"
	"pxltravel/infras/otel"
	"pxltravel/internal/domains/inventory/model"
	"pxltravel/internal/domains/inventory/model/dto"
	"pxltravel/internal/domains/inventory/repository"
	"pxltravel/shared"
	"pxltravel/shared/access"
	"pxltravel/shared/cache"
	"pxltravel/shared/constant"
	gDto "pxltravel/shared/dto"
	"pxltravel/shared/event"
	"pxltravel/shared/failure"
)

const (
	cacheGet    = "get"
	cacheGetAll = "gets"
)

// Inventory manages local flights and urban routes. Reads are public; writes need an admin.
type Inventory interface {
	Create(ctx context.Context, session *access.Session, variant model.Variant, draft dto.Draft) (dto.RecordResponse, error)
	GetAll(ctx context.Context, variant model.Variant, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRecordsResponse, error)
	Get(ctx context.Context, variant model.Variant, id string) (dto.RecordResponse, error)
	Update(ctx context.Context, session *access.Session, variant model.Variant, id string, draft dto.UpdateDraft) (dto.RecordResponse, error)
}

type serviceImpl struct {
	flights repository.LocalFlight
	routes  repository.UrbanRoute
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
	kafka   kafka.Client
}

func New(flights repository.LocalFlight, routes repository.UrbanRoute, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Inventory {
	return &serviceImpl{
		flights: flights,
		routes:  routes,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
		kafka:   kafka,
	}
}

// store is the read side shared by both repositories.
type store[T any] interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (T, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]T, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

func unknownVariant(variant model.Variant) error {
	return failure.NotFound(fmt.Sprintf("unknown inventory variant %q", variant)) //nolint:wrapcheck
}

// Create writes exactly one record, and nothing at all unless the session is an admin's and the draft is valid.
func (s *serviceImpl) Create(ctx context.Context, session *access.Session, variant model.Variant, draft dto.Draft) (res dto.RecordResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !variant.Valid() {
		return res, unknownVariant(variant)
	}

	if err = access.Authorize(session, access.LevelAdmin); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = draft.Validate(variant); err != nil {
		return res, err //nolint:wrapcheck
	}

	switch variant {
	case model.VariantUrbanRoute:
		route, err := draft.ToUrbanRoute(session.UserID)
		if err != nil {
			return res, failure.BadRequest(err) //nolint:wrapcheck
		}

		if err = s.routes.Insert(ctx, route); err != nil {
			log.Error().Err(err).Msg("failed to insert urban route")

			return res, failure.UpstreamUnavailable(fmt.Errorf("failed to insert urban route: %w", err)) //nolint:wrapcheck
		}

		res = dto.FromUrbanRoute(route)
	default:
		flight, err := draft.ToLocalFlight(session.UserID)
		if err != nil {
			return res, failure.BadRequest(err) //nolint:wrapcheck
		}

		if err = s.flights.Insert(ctx, flight); err != nil {
			log.Error().Err(err).Msg("failed to insert local flight")

			return res, failure.UpstreamUnavailable(fmt.Errorf("failed to insert local flight: %w", err)) //nolint:wrapcheck
		}

		res = dto.FromLocalFlight(flight)
	}

	metrics.IncInventoryCreated(string(variant))

	log.Info().Str("variant", string(variant)).Str("id", res.ID).Str("by", session.UserID).Msg("inventory record created")

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(string(variant), cacheGetAll))
		event.Publish(c, s.kafka, s.cfg.Kafka.Topic.Inventory, res.ID, event.InventoryCreated, session.UserID, event.InventoryPayload{
			Variant:     res.Variant,
			ID:          res.ID,
			Origin:      res.Origin,
			Destination: res.Destination,
			Date:        res.Date,
		})
	}()

	return res, nil
}

// GetAll lists records ordered by travel date then departure time unless another sortable column is asked for.
func (s *serviceImpl) GetAll(ctx context.Context, variant model.Variant, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRecordsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !variant.Valid() {
		return res, unknownVariant(variant)
	}

	params.Restrict(variant.Sortable(), variant.DefaultSortBy(), gDto.SortDirAsc)
	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(string(variant), cacheGetAll), params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for inventory")

		return res, nil
	}

	if variant == model.VariantUrbanRoute {
		res, err = fetchAll[model.UrbanRoute](ctx, s.routes, params, filter, dto.FromUrbanRoute)
	} else {
		res, err = fetchAll[model.LocalFlight](ctx, s.flights, params, filter, dto.FromLocalFlight)
	}

	if err != nil {
		log.Error().Err(err).Str("variant", string(variant)).Msg("failed to get inventory")

		return res, failure.UpstreamUnavailable(err) //nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save inventory to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, variant model.Variant, id string) (res dto.RecordResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !variant.Valid() {
		return res, unknownVariant(variant)
	}

	cacheKey := shared.BuildCacheKey(string(variant), cacheGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.find(ctx, variant, id)
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save inventory record to cache")
		}
	}()

	return res, nil
}

// Update applies a partial change and returns the stored record.
func (s *serviceImpl) Update(ctx context.Context, session *access.Session, variant model.Variant, id string, draft dto.UpdateDraft) (res dto.RecordResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !variant.Valid() {
		return res, unknownVariant(variant)
	}

	if err = access.Authorize(session, access.LevelAdmin); err != nil {
		return res, err //nolint:wrapcheck
	}

	fields, err := draft.ToFields(variant, session.UserID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if _, err = s.find(ctx, variant, id); err != nil {
		return res, err
	}

	filter := shared.FilterByID(id, model.FieldID, variant.Table())

	if variant == model.VariantUrbanRoute {
		err = s.routes.Update(ctx, fields, filter)
	} else {
		err = s.flights.Update(ctx, fields, filter)
	}

	if err != nil {
		log.Error().Err(err).Str("variant", string(variant)).Str("id", id).Msg("failed to update inventory record")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to update %s: %w", variant, err)) //nolint:wrapcheck
	}

	log.Info().Str("variant", string(variant)).Str("id", id).Str("by", session.UserID).Msg("inventory record updated")

	s.invalidate(ctx, variant, id)

	return s.find(ctx, variant, id)
}

func (s *serviceImpl) find(ctx context.Context, variant model.Variant, id string) (dto.RecordResponse, error) {
	if variant == model.VariantUrbanRoute {
		return fetch[model.UrbanRoute](ctx, s.routes, variant, id, dto.FromUrbanRoute)
	}

	return fetch[model.LocalFlight](ctx, s.flights, variant, id, dto.FromLocalFlight)
}

func (s *serviceImpl) invalidate(ctx context.Context, variant model.Variant, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(string(variant), cacheGet, id)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to invalidate inventory record cache")
	}

	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(string(variant), cacheGetAll))
}

func fetch[T any](ctx context.Context, repo store[T], variant model.Variant, id string, convert func(T) dto.RecordResponse) (dto.RecordResponse, error) {
	record, err := repo.Get(ctx, shared.FilterByID(id, model.FieldID, variant.Table()))
	if err != nil {
		log.Error().Err(err).Str("variant", string(variant)).Str("id", id).Msg("failed to get inventory record")

		return dto.RecordResponse{}, failure.UpstreamUnavailable(fmt.Errorf("failed to get %s: %w", variant, err)) //nolint:wrapcheck
	}

	res := convert(record)
	if res.ID == constant.Empty {
		return dto.RecordResponse{}, failure.NotFound(string(variant) + " not found") //nolint:wrapcheck
	}

	return res, nil
}

func fetchAll[T any](ctx context.Context, repo store[T], params gDto.QueryParams, filter gDto.FilterGroup, convert func(T) dto.RecordResponse) (dto.GetRecordsResponse, error) {
	total, err := repo.Count(ctx, filter)
	if err != nil {
		return dto.GetRecordsResponse{}, fmt.Errorf("failed to count records: %w", err)
	}

	records, err := repo.GetAll(ctx, params, filter)
	if err != nil {
		return dto.GetRecordsResponse{}, fmt.Errorf("failed to get records: %w", err)
	}

	return dto.FromModels(records, convert, total, params.Limit), nil
}
