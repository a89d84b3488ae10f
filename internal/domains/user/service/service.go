package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/infras/otel"
	"pxltravel/internal/domains/user/model"
	"pxltravel/internal/domains/user/model/dto"
	"pxltravel/internal/domains/user/repository"
	"pxltravel/shared"
	"pxltravel/shared/access"
	"pxltravel/shared/cache"
	"pxltravel/shared/constant"
	gDto "pxltravel/shared/dto"
	"pxltravel/shared/failure"
)

const (
	cacheGetAllUser = "user:gets"
	cacheCountUser  = "user:count"
)

// User is the super-admin view over accounts.
type User interface {
	GetAll(ctx context.Context, session *access.Session, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	UpdateRole(ctx context.Context, session *access.Session, id string, req dto.UpdateRoleRequest) (dto.UserResponse, error)
	SeedAdmins(ctx context.Context, emails []string) (int, error)
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, session *access.Session, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = access.Authorize(session, access.LevelSuperAdmin); err != nil {
		return res, err //nolint:wrapcheck
	}

	params.Restrict(model.Sortable, constant.DefaultValueSortBy, constant.DefaultValueSortDir)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.count(ctx, params, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to get users: %w", err)) //nolint:wrapcheck
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save users to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountUser, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to count users: %w", err)) //nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save user count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateRole(ctx context.Context, session *access.Session, id string, req dto.UpdateRoleRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateRole")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = access.Authorize(session, access.LevelSuperAdmin); err != nil {
		return res, err //nolint:wrapcheck
	}

	if !access.Role(req.Role).Valid() {
		return res, failure.BadRequestFromString("role must be one of [regular admin super_admin]") //nolint:wrapcheck
	}

	if id == session.UserID && access.Role(req.Role) != access.RoleSuperAdmin {
		return res, failure.BadRequestFromString("you cannot lower your own role") //nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	user, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to get user")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to get user: %w", err)) //nolint:wrapcheck
	}

	if user.ID == constant.Empty {
		return res, failure.NotFound("user not found") //nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, req.ToFields(session.UserID), filter); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to update user role")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to update user role: %w", err)) //nolint:wrapcheck
	}

	user.Role = req.Role
	res.FromModel(user)

	log.Info().Str("user_id", id).Str("role", req.Role).Str("by", session.UserID).Msg("user role changed")

	go s.invalidate(context.WithoutCancel(ctx), id)

	return res, nil
}

func (s *serviceImpl) SeedAdmins(ctx context.Context, emails []string) (promoted int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SeedAdmins")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	for _, raw := range emails {
		email := dto.NormalizeEmail(raw)
		if email == constant.Empty {
			continue
		}

		user, err := s.repo.Get(ctx, shared.FilterByField(model.FieldEmail, email, model.TableName))
		if err != nil {
			return promoted, fmt.Errorf("failed to get user %s: %w", email, err)
		}

		if user.ID == constant.Empty {
			log.Warn().Str("email", email).Msg("admin seed skipped, no such user")

			continue
		}

		if access.ParseRole(user.Role).AtLeast(access.RoleAdmin) {
			continue
		}

		req := dto.UpdateRoleRequest{Role: string(access.RoleAdmin)}
		if err := s.repo.Update(ctx, req.ToFields(constant.ContextSystem), shared.FilterByID(user.ID, model.FieldID, model.TableName)); err != nil {
			return promoted, fmt.Errorf("failed to promote %s: %w", email, err)
		}

		s.invalidate(ctx, user.ID)

		promoted++

		log.Info().Str("email", email).Msg("user promoted to admin")
	}

	return promoted, nil
}

// invalidate drops listings and every cached session copy of the user so a role change applies on the next request.
func (s *serviceImpl) invalidate(ctx context.Context, userID string) {
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllUser)
	shared.InvalidateCaches(ctx, s.cache, cacheCountUser)
	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(constant.CacheSessionPrefix, userID))
}
