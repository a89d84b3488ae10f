package model

import (
	"time"

	"github.com/shopspring/decimal"

	"pxltravel/shared/constant"
	"pxltravel/shared/model"
)

// Variant selects one of the two inventory tables.
type Variant string

const (
	VariantLocalFlight Variant = "local_flight"
	VariantUrbanRoute  Variant = "urban_route"
)

const (
	TableLocalFlight  = "local_flights"
	TableUrbanRoute   = "urban_transportation"
	EntityLocalFlight = "local_flight"
	EntityUrbanRoute  = "urban_route"

	FieldID             = "id"
	FieldOrigin         = "origin"
	FieldDestination    = "destination"
	FieldDepartureTime  = "departure_time"
	FieldArrivalTime    = "arrival_time"
	FieldDuration       = "duration"
	FieldPrice          = "price"
	FieldAvailableSeats = "available_seats"
	FieldDescription    = "description"

	FieldAirline    = "airline"
	FieldFlightDate = "flight_date"

	FieldRouteName     = "route_name"
	FieldTransportType = "transport_type"
	FieldTripDate      = "trip_date"
)

// TransportTypes are the accepted urban transport_type values.
var TransportTypes = []string{"bus", "train", "metro", "tram", "shuttle", "other"}

func (v Variant) Valid() bool {
	return v == VariantLocalFlight || v == VariantUrbanRoute
}

func (v Variant) Table() string {
	if v == VariantUrbanRoute {
		return TableUrbanRoute
	}

	return TableLocalFlight
}

// DateField is the column holding the travel date.
func (v Variant) DateField() string {
	if v == VariantUrbanRoute {
		return FieldTripDate
	}

	return FieldFlightDate
}

// DefaultSortBy orders by travel date then departure time, earliest first.
func (v Variant) DefaultSortBy() string {
	return v.DateField() + " ASC, " + FieldDepartureTime
}

func (v Variant) Sortable() []string {
	return []string{
		constant.FieldCreatedAt, v.DateField(), FieldDepartureTime, FieldPrice,
		FieldAvailableSeats, FieldOrigin, FieldDestination,
	}
}

// Schedule holds the columns both variants share. Times are HH:MM.
type Schedule struct {
	Origin         string          `db:"origin"`
	Destination    string          `db:"destination"`
	DepartureTime  string          `db:"departure_time"`
	ArrivalTime    string          `db:"arrival_time"`
	Duration       string          `db:"duration"`
	Price          decimal.Decimal `db:"price"`
	AvailableSeats int             `db:"available_seats"`
	Description    *string         `db:"description"`
}

type LocalFlight struct {
	ID         string    `db:"id"`
	Airline    string    `db:"airline"`
	FlightDate time.Time `db:"flight_date"`
	Schedule
	model.Metadata
}

type UrbanRoute struct {
	ID            string    `db:"id"`
	RouteName     string    `db:"route_name"`
	TransportType string    `db:"transport_type"`
	TripDate      time.Time `db:"trip_date"`
	Schedule
	model.Metadata
}
