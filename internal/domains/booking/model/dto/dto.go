package dto

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"pxltravel/internal/domains/booking/model"
	"pxltravel/shared"
	"pxltravel/shared/constant"
	gDto "pxltravel/shared/dto"
	gModel "pxltravel/shared/model"
	"pxltravel/shared/timezone"
)

const (
	// MaxDocumentMB bounds the passport image.
	MaxDocumentMB = 5

	maxExtLength = 5
)

// Document is the passport image attached to a draft. Body is read once, by the upload.
type Document struct {
	FileName    string    `json:"document_name"`
	ContentType string    `json:"document_type" validate:"required,imagetype"`
	Size        int64     `json:"document_size" validate:"gt=0,maxfilesize=5"`
	Body        io.Reader `json:"-"`
}

// Ext is the lower-cased extension of the original file name. Anything other than a short
// alphanumeric extension yields "".
func (d *Document) Ext() string {
	ext := strings.ToLower(filepath.Ext(d.FileName))
	if len(ext) < 2 || len(ext) > maxExtLength+1 {
		return constant.Empty
	}

	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return constant.Empty
		}
	}

	return ext
}

// BookingDraft is what the user filled in. Field order is the order in which constraints are reported.
type BookingDraft struct {
	FlightOrigin      string    `json:"flight_origin"      validate:"required,max=100"`
	FlightDestination string    `json:"flight_destination" validate:"required,max=100"`
	FlightDate        string    `json:"flight_date"        validate:"required,datetime=2006-01-02"`
	PassengerName     string    `json:"passenger_name"     validate:"required,min=2,max=100"`
	PhoneNumber       string    `json:"phone_number"       validate:"required,min=10,max=20"`
	TransactionNumber string    `json:"transaction_number" validate:"required,min=5,max=50"`
	Document          *Document `json:"document"           validate:"required"`
}

// Trim strips surrounding whitespace from every text field.
func (d *BookingDraft) Trim() {
	d.FlightOrigin = strings.TrimSpace(d.FlightOrigin)
	d.FlightDestination = strings.TrimSpace(d.FlightDestination)
	d.FlightDate = strings.TrimSpace(d.FlightDate)
	d.PassengerName = strings.TrimSpace(d.PassengerName)
	d.PhoneNumber = strings.TrimSpace(d.PhoneNumber)
	d.TransactionNumber = strings.TrimSpace(d.TransactionNumber)
}

// Missing names the first mandatory input the user has not supplied yet, or "" when all are present.
// An empty file counts as no document.
func (d *BookingDraft) Missing() string {
	switch {
	case d.PassengerName == constant.Empty:
		return model.FieldPassengerName
	case d.PhoneNumber == constant.Empty:
		return model.FieldPhoneNumber
	case d.TransactionNumber == constant.Empty:
		return model.FieldTransactionNumber
	case d.Document == nil || d.Document.Body == nil || d.Document.Size <= 0:
		return constant.FormDocument
	}

	return constant.Empty
}

// ToModel snapshots the draft into a pending booking owned by userID.
func (d *BookingDraft) ToModel(userID, documentURL string) (model.Booking, error) {
	flightDate, err := time.Parse(constant.DateOnlyFormat, d.FlightDate)
	if err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	return model.Booking{
		ID:                uuid.NewString(),
		UserID:            userID,
		FlightOrigin:      d.FlightOrigin,
		FlightDestination: d.FlightDestination,
		FlightDate:        flightDate,
		PassengerName:     d.PassengerName,
		PhoneNumber:       d.PhoneNumber,
		PassportImageURL:  documentURL,
		TransactionNumber: d.TransactionNumber,
		Status:            model.StatusPending,
		Metadata:          gModel.NewMetadata(timezone.Now(), userID),
	}, nil
}

type BookingResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	FlightOrigin      string  `json:"flight_origin"`
	FlightDestination string  `json:"flight_destination"`
	FlightDate        string  `json:"flight_date"`
	PassengerName     string  `json:"passenger_name"`
	PhoneNumber       string  `json:"phone_number"`
	PassportImageURL  string  `json:"passport_image_url"`
	TransactionNumber string  `json:"transaction_number"`
	Status            string  `json:"status"`
	ReviewedBy        *string `json:"reviewed_by,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.UserID = booking.UserID
	r.FlightOrigin = booking.FlightOrigin
	r.FlightDestination = booking.FlightDestination
	r.FlightDate = booking.FlightDate.Format(constant.DateOnlyFormat)
	r.PassengerName = booking.PassengerName
	r.PhoneNumber = booking.PhoneNumber
	r.PassportImageURL = booking.PassportImageURL
	r.TransactionNumber = booking.TransactionNumber
	r.Status = booking.Status
	r.ReviewedBy = booking.ReviewedBy
	r.Metadata = gDto.NewMetadata(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type ReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed rejected"`
}

type reviewFields struct {
	Status     string `db:"status"`
	ReviewedBy string `db:"reviewed_by"`
}

// ToFields returns the column map recording the decision of reviewer.
func (r *ReviewRequest) ToFields(reviewer string) map[string]any {
	return shared.TransformFields(reviewFields{Status: r.Status, ReviewedBy: reviewer}, reviewer)
}
