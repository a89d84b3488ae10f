package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/infras/jwt"
	"pxltravel/infras/kafka"
	"pxltravel/infras/otel"
	"pxltravel/internal/domains/auth/model/dto"
	userModel "pxltravel/internal/domains/user/model"
	userDto "pxltravel/internal/domains/user/model/dto"
	userRepo "pxltravel/internal/domains/user/repository"
	"pxltravel/shared"
	"pxltravel/shared/access"
	"pxltravel/shared/cache"
	"pxltravel/shared/constant"
	"pxltravel/shared/event"
	"pxltravel/shared/failure"
	"pxltravel/shared/password"
	gRepo "pxltravel/shared/repository"
	"pxltravel/shared/timezone"
)

const (
	messageInvalidCredentials = "invalid email or password"
	messageEmailTaken         = "email already registered"
	messageSessionRevoked     = "session has been revoked"
	messageAccountInactive    = "user account is deactivated"
	messageInvalidRefresh     = "invalid refresh token"
	revokedMarker             = "1"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (userDto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, session *access.Session, req dto.LogoutRequest) error
	Session(ctx context.Context, session *access.Session) (dto.SessionResponse, error)
	Resolve(ctx context.Context, claims *jwt.Claims) (*access.Session, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	jwtService jwt.JWT
	kafka      kafka.Client
}

func New(userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, jwt jwt.JWT, kafka kafka.Client) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		jwtService: jwt,
		kafka:      kafka,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := userDto.NormalizeEmail(req.Email)

	exists, err := s.userRepo.Exist(ctx, shared.FilterByField(userModel.FieldEmail, email, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to check if user exists: %w", err)) //nolint:wrapcheck
	}

	if exists {
		return res, failure.Conflict(messageEmailTaken) //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(hashedPassword)

	if err = s.userRepo.Insert(ctx, user); err != nil {
		if errors.Is(err, gRepo.ErrUniqueViolation) {
			return res, failure.Conflict(messageEmailTaken) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to create user: %w", err)) //nolint:wrapcheck
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := userDto.NormalizeEmail(req.Email)
	emailFilter := shared.FilterByField(userModel.FieldEmail, email, userModel.TableName)

	user, err := s.userRepo.Get(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to get user: %w", err)) //nolint:wrapcheck
	}

	if user.ID == constant.Empty {
		log.Warn().Str("email", email).Msg("login attempt with non-existent email")

		return res, failure.Unauthorized(messageInvalidCredentials) //nolint:wrapcheck
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(messageInvalidCredentials) //nolint:wrapcheck
	}

	if !user.Active {
		return res, failure.Unauthorized(messageAccountInactive) //nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := timezone.Now()
	lastLogin := dto.UpdateLastLoginRequest{LastLogin: now}

	if err := s.userRepo.Update(ctx, shared.TransformFields(lastLogin, user.ID), shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	} else {
		user.LastLogin = &now
	}

	res.FromTokenPair(tokenPair)
	res.User.FromModel(user)

	go func() {
		c := context.WithoutCancel(ctx)

		event.Publish(c, s.kafka, s.cfg.Kafka.Topic.Session, user.ID, event.SessionChanged, user.ID,
			event.SessionPayload{UserID: user.ID, Email: user.Email, Change: event.SignedIn})
	}()

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(ctx, req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized(messageInvalidRefresh) //nolint:wrapcheck
	}

	if err = s.ensureNotRevoked(ctx, claims.TokenID); err != nil {
		return res, err
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(claims.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to get user: %w", err)) //nolint:wrapcheck
	}

	if user.ID == constant.Empty || !user.Active {
		return res, failure.Unauthorized(messageInvalidRefresh) //nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) Logout(ctx context.Context, session *access.Session, req dto.LogoutRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Logout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = access.Authorize(session, access.LevelAuthenticated); err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return err
	}

	if req.RefreshToken != constant.Empty {
		claims, err := s.jwtService.ValidateToken(ctx, req.RefreshToken, jwt.RefreshToken)
		if err == nil && claims.UserID == session.UserID {
			if err := s.revoke(ctx, claims.TokenID, claims.Expiry()); err != nil {
				log.Warn().Err(err).Str("user_id", session.UserID).Msg("failed to revoke refresh token")
			}
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, sessionCacheKey(session.UserID, session.TokenID)); err != nil {
			log.Error().Err(err).Msg("failed to delete session copy")
		}

		event.Publish(c, s.kafka, s.cfg.Kafka.Topic.Session, session.UserID, event.SessionChanged, session.UserID,
			event.SessionPayload{UserID: session.UserID, Email: session.Email, Change: event.SignedOut})
	}()

	return nil
}

func (s *serviceImpl) Session(ctx context.Context, session *access.Session) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Session")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = access.Authorize(session, access.LevelAuthenticated); err != nil {
		return res, err //nolint:wrapcheck
	}

	user, err := s.sessionUser(ctx, session.UserID, session.TokenID, session.ExpiresAt)
	if err != nil {
		return res, err
	}

	res.User = user
	res.ExpiresAt = timezone.Format(session.ExpiresAt, constant.DateFormat)

	return res, nil
}

func (s *serviceImpl) Resolve(ctx context.Context, claims *jwt.Claims) (res *access.Session, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if claims == nil || claims.UserID == constant.Empty {
		return nil, failure.Unauthorized(access.MessageUnauthenticated) //nolint:wrapcheck
	}

	if err = s.ensureNotRevoked(ctx, claims.TokenID); err != nil {
		return nil, err
	}

	user, err := s.sessionUser(ctx, claims.UserID, claims.TokenID, claims.Expiry())
	if err != nil {
		return nil, err
	}

	return &access.Session{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      access.ParseRole(user.Role),
		TokenID:   claims.TokenID,
		ExpiresAt: claims.Expiry(),
	}, nil
}

// sessionUser reads the cached copy of the account, falling back to the store.
func (s *serviceImpl) sessionUser(ctx context.Context, userID, tokenID string, expiresAt time.Time) (res dto.SessionUser, err error) {
	cacheKey := sessionCacheKey(userID, tokenID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		if !res.Active {
			return res, failure.Unauthorized(messageAccountInactive) //nolint:wrapcheck
		}

		return res, nil
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get session user")

		return res, failure.UpstreamUnavailable(fmt.Errorf("failed to get session user: %w", err)) //nolint:wrapcheck
	}

	if user.ID == constant.Empty {
		return res, failure.Unauthorized(access.MessageUnauthenticated) //nolint:wrapcheck
	}

	res.FromModel(user)

	if !res.Active {
		return res, failure.Unauthorized(messageAccountInactive) //nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, ttlUntil(expiresAt, s.cfg.Cache.TTL)); err != nil {
			log.Error().Err(err).Msg("failed to save session copy to cache")
		}
	}()

	return res, nil
}

// ensureNotRevoked fails closed: a denylist that cannot be read rejects the token.
func (s *serviceImpl) ensureNotRevoked(ctx context.Context, tokenID string) error {
	var marker string

	err := s.cache.Get(ctx, shared.BuildCacheKey(constant.CacheRevokedPrefix, tokenID), &marker)
	if err == nil {
		return failure.Unauthorized(messageSessionRevoked) //nolint:wrapcheck
	}

	if !errors.Is(err, cache.Nil) {
		log.Error().Err(err).Msg("failed to read session denylist")

		return failure.UpstreamUnavailable(err) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := int(time.Until(expiresAt).Seconds()) + 1
	if ttl <= 1 {
		return nil
	}

	if err := s.cache.Save(ctx, shared.BuildCacheKey(constant.CacheRevokedPrefix, tokenID), revokedMarker, ttl); err != nil {
		log.Error().Err(err).Msg("failed to revoke token")

		return failure.UpstreamUnavailable(fmt.Errorf("failed to revoke token: %w", err)) //nolint:wrapcheck
	}

	return nil
}

func sessionCacheKey(userID, tokenID string) string {
	return shared.BuildCacheKey(constant.CacheSessionPrefix, userID, tokenID)
}

// ttlUntil caps the cache lifetime at the token expiry.
func ttlUntil(expiresAt time.Time, fallback int) int {
	remaining := int(time.Until(expiresAt).Seconds())
	if remaining <= 0 {
		return 1
	}

	if fallback > 0 && fallback < remaining {
		return fallback
	}

	return remaining
}
