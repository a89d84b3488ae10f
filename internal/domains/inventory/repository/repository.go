package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"pxltravel/infras/otel"
	"pxltravel/infras/postgres"
	"pxltravel/internal/domains/inventory/model"
	gDto "pxltravel/shared/dto"
	gRepo "pxltravel/shared/repository"
)

type LocalFlight interface {
	Insert(ctx context.Context, model model.LocalFlight) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.LocalFlight, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.LocalFlight, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error
}

type UrbanRoute interface {
	Insert(ctx context.Context, model model.UrbanRoute) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.UrbanRoute, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.UrbanRoute, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error
}

type localFlightImpl struct {
	gRepo.Repository[model.LocalFlight]
}

type urbanRouteImpl struct {
	gRepo.Repository[model.UrbanRoute]
}

func NewLocalFlight(db *postgres.Connection, otel otel.Otel) LocalFlight {
	return &localFlightImpl{
		Repository: gRepo.NewRepository[model.LocalFlight](model.EntityLocalFlight, model.TableLocalFlight, model.FieldID, db, otel),
	}
}

func NewUrbanRoute(db *postgres.Connection, otel otel.Otel) UrbanRoute {
	return &urbanRouteImpl{
		Repository: gRepo.NewRepository[model.UrbanRoute](model.EntityUrbanRoute, model.TableUrbanRoute, model.FieldID, db, otel),
	}
}
