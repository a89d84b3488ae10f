package model

import (
	"time"

	"pxltravel/shared/constant"
	"pxltravel/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                = "id"
	FieldUserID            = "user_id"
	FieldFlightOrigin      = "flight_origin"
	FieldFlightDestination = "flight_destination"
	FieldFlightDate        = "flight_date"
	FieldPassengerName     = "passenger_name"
	FieldPhoneNumber       = "phone_number"
	FieldPassportImageURL  = "passport_image_url"
	FieldTransactionNumber = "transaction_number"
	FieldStatus            = "status"
	FieldReviewedBy        = "reviewed_by"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

var Sortable = []string{constant.FieldCreatedAt, FieldFlightDate, FieldStatus, FieldPassengerName}

// Booking is a submitted request. The flight fields are a copy taken at submission time,
// not a reference into inventory.
type Booking struct {
	ID                string    `db:"id"`
	UserID            string    `db:"user_id"`
	FlightOrigin      string    `db:"flight_origin"`
	FlightDestination string    `db:"flight_destination"`
	FlightDate        time.Time `db:"flight_date"`
	PassengerName     string    `db:"passenger_name"`
	PhoneNumber       string    `db:"phone_number"`
	PassportImageURL  string    `db:"passport_image_url"`
	TransactionNumber string    `db:"transaction_number"`
	Status            string    `db:"status"`
	ReviewedBy        *string   `db:"reviewed_by"`
	model.Metadata
}

// Reviewable reports whether a reviewer may still decide on the booking.
func (b Booking) Reviewable() bool {
	return b.Status == StatusPending
}
