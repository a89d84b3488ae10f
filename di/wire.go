//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"pxltravel/config"
	"pxltravel/infras/jwt"
	"pxltravel/infras/otel"
	"pxltravel/infras/postgres"
	"pxltravel/infras/redis"
	"pxltravel/infras/s3"
	"pxltravel/internal/notifier"
	"pxltravel/permissions"
	"pxltravel/shared/cache"
	"pxltravel/transport/http"
	"pxltravel/transport/http/middleware"
	"pxltravel/transport/http/router"

	authService "pxltravel/internal/domains/auth/service"
	bookingRepository "pxltravel/internal/domains/booking/repository"
	bookingService "pxltravel/internal/domains/booking/service"
	inventoryRepository "pxltravel/internal/domains/inventory/repository"
	inventoryService "pxltravel/internal/domains/inventory/service"
	userRepository "pxltravel/internal/domains/user/repository"
	userService "pxltravel/internal/domains/user/service"
	authHandler "pxltravel/internal/handlers/auth"
	bookingHandler "pxltravel/internal/handlers/booking"
	inventoryHandler "pxltravel/internal/handlers/inventory"
	userHandler "pxltravel/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	provideKafka,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	wire.Bind(new(middleware.SessionResolver), new(authService.Auth)),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var inventoryDomain = wire.NewSet(
	inventoryRepository.NewLocalFlight,
	inventoryRepository.NewUrbanRoute,
	inventoryService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	bookingDomain,
	inventoryDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	bookingHandler.New,
	inventoryHandler.New,
	userHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return nil, nil, nil
}

func InitializeNotifier() (*notifier.Notifier, func(), error) {
	wire.Build(
		config.Get,
		otel.New,
		redis.New,
		provideKafka,
		sharedHelpers,
		notifier.New,
	)

	return nil, nil, nil
}

func InitializeUserService() (userService.User, func(), error) {
	wire.Build(
		config.Get,
		otel.New,
		postgres.New,
		redis.New,
		sharedHelpers,
		userDomain,
	)

	return nil, nil, nil
}
