package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pxltravel/internal/domains/inventory/model"
	"pxltravel/shared"
	"pxltravel/shared/constant"
	gDto "pxltravel/shared/dto"
	"pxltravel/shared/failure"
	gModel "pxltravel/shared/model"
	"pxltravel/shared/timezone"
	"pxltravel/shared/validator"
)

const (
	dateRule          = "required,datetime=2006-01-02"
	nameRule          = "required,max=100"
	transportTypeRule = "required,oneof=bus train metro tram shuttle other"
	moneyRule         = "required,money"
	countRule         = "required,count"
)

// Numeric accepts a JSON number or a numeric string; forms post both.
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*n = Numeric(strings.TrimSpace(text))

		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("expected a number: %w", err)
	}

	*n = Numeric(number.String())

	return nil
}

// Draft is a new inventory record. Airline applies to local flights; RouteName and
// TransportType to urban routes.
type Draft struct {
	Origin         string  `json:"origin"                validate:"required,max=100"`
	Destination    string  `json:"destination"           validate:"required,max=100"`
	DepartureTime  string  `json:"departure_time"        validate:"required,datetime=15:04"`
	ArrivalTime    string  `json:"arrival_time"          validate:"required,datetime=15:04"`
	Duration       string  `json:"duration"              validate:"required,max=50"`
	Price          Numeric `json:"price"                 validate:"required,money"`
	AvailableSeats Numeric `json:"available_seats"       validate:"required,count"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`

	Airline    string `json:"airline,omitempty"`
	FlightDate string `json:"flight_date,omitempty"`

	RouteName     string `json:"route_name,omitempty"`
	TransportType string `json:"transport_type,omitempty"`
	TripDate      string `json:"trip_date,omitempty"`
}

func (d *Draft) trim() {
	for _, field := range []*string{
		&d.Origin, &d.Destination, &d.DepartureTime, &d.ArrivalTime, &d.Duration,
		&d.Airline, &d.FlightDate, &d.RouteName, &d.TransportType, &d.TripDate,
	} {
		*field = strings.TrimSpace(*field)
	}

	d.TransportType = strings.ToLower(d.TransportType)
}

// Validate trims the draft and reports the first violated constraint for the given variant.
func (d *Draft) Validate(variant model.Variant) error {
	d.trim()

	if err := validator.ValidateStruct(d); err != nil {
		return err //nolint:wrapcheck
	}

	if variant == model.VariantUrbanRoute {
		if err := validator.ValidateNamedVar(model.FieldRouteName, d.RouteName, nameRule); err != nil {
			return err //nolint:wrapcheck
		}

		if err := validator.ValidateNamedVar(model.FieldTransportType, d.TransportType, transportTypeRule); err != nil {
			return err //nolint:wrapcheck
		}

		return validator.ValidateNamedVar(model.FieldTripDate, d.TripDate, dateRule) //nolint:wrapcheck
	}

	if err := validator.ValidateNamedVar(model.FieldAirline, d.Airline, nameRule); err != nil {
		return err //nolint:wrapcheck
	}

	return validator.ValidateNamedVar(model.FieldFlightDate, d.FlightDate, dateRule) //nolint:wrapcheck
}

func (d *Draft) schedule() (model.Schedule, error) {
	price, err := parsePrice(d.Price)
	if err != nil {
		return model.Schedule{}, err
	}

	seats, err := parseSeats(d.AvailableSeats)
	if err != nil {
		return model.Schedule{}, err
	}

	return model.Schedule{
		Origin:         d.Origin,
		Destination:    d.Destination,
		DepartureTime:  d.DepartureTime,
		ArrivalTime:    d.ArrivalTime,
		Duration:       d.Duration,
		Price:          price,
		AvailableSeats: seats,
		Description:    description(d.Description),
	}, nil
}

func (d *Draft) ToLocalFlight(actor string) (model.LocalFlight, error) {
	schedule, err := d.schedule()
	if err != nil {
		return model.LocalFlight{}, err
	}

	flightDate, err := time.Parse(constant.DateOnlyFormat, d.FlightDate)
	if err != nil {
		return model.LocalFlight{}, fmt.Errorf("failed to parse flight_date: %w", err)
	}

	return model.LocalFlight{
		ID:         uuid.NewString(),
		Airline:    d.Airline,
		FlightDate: flightDate,
		Schedule:   schedule,
		Metadata:   gModel.NewMetadata(timezone.Now(), actor),
	}, nil
}

func (d *Draft) ToUrbanRoute(actor string) (model.UrbanRoute, error) {
	schedule, err := d.schedule()
	if err != nil {
		return model.UrbanRoute{}, err
	}

	tripDate, err := time.Parse(constant.DateOnlyFormat, d.TripDate)
	if err != nil {
		return model.UrbanRoute{}, fmt.Errorf("failed to parse trip_date: %w", err)
	}

	return model.UrbanRoute{
		ID:            uuid.NewString(),
		RouteName:     d.RouteName,
		TransportType: d.TransportType,
		TripDate:      tripDate,
		Schedule:      schedule,
		Metadata:      gModel.NewMetadata(timezone.Now(), actor),
	}, nil
}

type textField struct {
	column string
	value  *string
}

// UpdateDraft changes only the fields that are present.
type UpdateDraft struct {
	Origin         *string  `json:"origin"          validate:"omitempty,max=100"`
	Destination    *string  `json:"destination"     validate:"omitempty,max=100"`
	DepartureTime  *string  `json:"departure_time"  validate:"omitempty,datetime=15:04"`
	ArrivalTime    *string  `json:"arrival_time"    validate:"omitempty,datetime=15:04"`
	Duration       *string  `json:"duration"        validate:"omitempty,max=50"`
	Price          *Numeric `json:"price"           validate:"omitempty,money"`
	AvailableSeats *Numeric `json:"available_seats" validate:"omitempty,count"`
	Description    *string  `json:"description"     validate:"omitempty,max=1000"`

	Airline    *string `json:"airline"     validate:"omitempty,max=100"`
	FlightDate *string `json:"flight_date" validate:"omitempty,datetime=2006-01-02"`

	RouteName     *string `json:"route_name"     validate:"omitempty,max=100"`
	TransportType *string `json:"transport_type" validate:"omitempty,oneof=bus train metro tram shuttle other"`
	TripDate      *string `json:"trip_date"      validate:"omitempty,datetime=2006-01-02"`
}

// ToFields returns the column map for the variant. Fields of the other variant are ignored;
// a present but blank required field is rejected.
func (d *UpdateDraft) ToFields(variant model.Variant, actor string) (map[string]any, error) {
	if err := validator.ValidateStruct(d); err != nil {
		return nil, err //nolint:wrapcheck
	}

	text := []textField{
		{model.FieldOrigin, d.Origin},
		{model.FieldDestination, d.Destination},
		{model.FieldDepartureTime, d.DepartureTime},
		{model.FieldArrivalTime, d.ArrivalTime},
		{model.FieldDuration, d.Duration},
	}

	date := d.FlightDate

	if variant == model.VariantUrbanRoute {
		text = append(text, textField{model.FieldRouteName, d.RouteName}, textField{model.FieldTransportType, d.TransportType})
		date = d.TripDate
	} else {
		text = append(text, textField{model.FieldAirline, d.Airline})
	}

	fields := map[string]any{}

	for _, field := range text {
		if field.value == nil {
			continue
		}

		value := strings.TrimSpace(*field.value)
		if value == constant.Empty {
			return nil, failure.BadRequestFromString(field.column + " must not be empty") //nolint:wrapcheck
		}

		fields[field.column] = value
	}

	if date != nil {
		parsed, err := time.Parse(constant.DateOnlyFormat, strings.TrimSpace(*date))
		if err != nil {
			return nil, failure.BadRequestFromString(variant.DateField() + " must match the format 2006-01-02") //nolint:wrapcheck
		}

		fields[variant.DateField()] = parsed
	}

	if d.Price != nil {
		price, err := parsePrice(*d.Price)
		if err != nil {
			return nil, err
		}

		fields[model.FieldPrice] = price
	}

	if d.AvailableSeats != nil {
		seats, err := parseSeats(*d.AvailableSeats)
		if err != nil {
			return nil, err
		}

		fields[model.FieldAvailableSeats] = seats
	}

	if d.Description != nil {
		fields[model.FieldDescription] = description(d.Description)
	}

	if len(fields) == 0 {
		return nil, failure.BadRequestFromString("nothing to update") //nolint:wrapcheck
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = actor

	return fields, nil
}

func parsePrice(value Numeric) (decimal.Decimal, error) {
	raw := strings.TrimSpace(string(value))
	if err := validator.ValidateNamedVar(model.FieldPrice, raw, moneyRule); err != nil {
		return decimal.Decimal{}, err //nolint:wrapcheck
	}

	return decimal.NewFromString(raw) //nolint:wrapcheck
}

func parseSeats(value Numeric) (int, error) {
	raw := strings.TrimSpace(string(value))
	if err := validator.ValidateNamedVar(model.FieldAvailableSeats, raw, countRule); err != nil {
		return 0, err //nolint:wrapcheck
	}

	return strconv.Atoi(raw) //nolint:wrapcheck
}

func description(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == constant.Empty {
		return nil
	}

	return &trimmed
}

// RecordResponse renders either variant; fields of the other variant are omitted.
type RecordResponse struct {
	ID             string  `json:"id"`
	Variant        string  `json:"variant"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	Date           string  `json:"date"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	Duration       string  `json:"duration"`
	Price          string  `json:"price"`
	AvailableSeats int     `json:"available_seats"`
	Description    *string `json:"description,omitempty"`
	Airline        string  `json:"airline,omitempty"`
	RouteName      string  `json:"route_name,omitempty"`
	TransportType  string  `json:"transport_type,omitempty"`
	gDto.Metadata
}

func (r *RecordResponse) fromSchedule(schedule model.Schedule) {
	r.Origin = schedule.Origin
	r.Destination = schedule.Destination
	r.DepartureTime = schedule.DepartureTime
	r.ArrivalTime = schedule.ArrivalTime
	r.Duration = schedule.Duration
	r.Price = schedule.Price.StringFixed(2)
	r.AvailableSeats = schedule.AvailableSeats
	r.Description = schedule.Description
}

func FromLocalFlight(flight model.LocalFlight) (r RecordResponse) {
	r.ID = flight.ID
	r.Variant = string(model.VariantLocalFlight)
	r.Date = flight.FlightDate.Format(constant.DateOnlyFormat)
	r.Airline = flight.Airline
	r.fromSchedule(flight.Schedule)
	r.Metadata = gDto.NewMetadata(flight.Metadata)

	return r
}

func FromUrbanRoute(route model.UrbanRoute) (r RecordResponse) {
	r.ID = route.ID
	r.Variant = string(model.VariantUrbanRoute)
	r.Date = route.TripDate.Format(constant.DateOnlyFormat)
	r.RouteName = route.RouteName
	r.TransportType = route.TransportType
	r.fromSchedule(route.Schedule)
	r.Metadata = gDto.NewMetadata(route.Metadata)

	return r
}

type GetRecordsResponse struct {
	Records   []RecordResponse `json:"records"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

// FromModels converts any page of records with the matching converter.
func FromModels[T any](models []T, convert func(T) RecordResponse, totalData, limit int) GetRecordsResponse {
	res := GetRecordsResponse{
		Records:   make([]RecordResponse, len(models)),
		TotalData: totalData,
		TotalPage: shared.CalculateTotalPage(totalData, limit),
	}

	for i, mod := range models {
		res.Records[i] = convert(mod)
	}

	return res
}
