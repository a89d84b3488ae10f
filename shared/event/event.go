package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pxltravel/infras/kafka"
	"pxltravel/shared/timezone"
)

type Type string

const (
	BookingSubmitted Type = "booking.submitted"
	BookingReviewed  Type = "booking.reviewed"
	InventoryCreated Type = "inventory.created"
	SessionChanged   Type = "auth.session"
)

const producer = "pxltravel"

// Message is the envelope written to every topic.
type Message struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	Producer   string          `json:"producer"`
	Actor      string          `json:"actor"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type BookingPayload struct {
	BookingID         string `json:"booking_id"`
	UserID            string `json:"user_id"`
	PassengerName     string `json:"passenger_name"`
	FlightOrigin      string `json:"flight_origin"`
	FlightDestination string `json:"flight_destination"`
	FlightDate        string `json:"flight_date"`
	Status            string `json:"status"`
	ReviewedBy        string `json:"reviewed_by,omitempty"`
}

type InventoryPayload struct {
	Variant     string `json:"variant"`
	ID          string `json:"id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

type SessionChange string

const (
	SignedIn  SessionChange = "signed_in"
	SignedOut SessionChange = "signed_out"
)

type SessionPayload struct {
	UserID string        `json:"user_id"`
	Email  string        `json:"email"`
	Change SessionChange `json:"change"`
}

func New(eventType Type, actor string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return Message{
		ID:         uuid.NewString(),
		Type:       eventType,
		Producer:   producer,
		Actor:      actor,
		OccurredAt: timezone.Now(),
		Payload:    raw,
	}, nil
}

// Decode unwraps the payload of msg into T.
func Decode[T any](msg Message) (T, error) {
	var payload T

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal %s payload: %w", msg.Type, err)
	}

	return payload, nil
}

// Publish is best-effort: failures are logged and never reach the caller.
func Publish(ctx context.Context, client kafka.Client, topic, key string, eventType Type, actor string, payload any) {
	msg, err := New(eventType, actor, payload)
	if err != nil {
		log.Error().Err(err).Str("type", string(eventType)).Msg("failed to build event")

		return
	}

	if err := client.SendMessages(ctx, topic, kafka.Message{Key: key, Value: msg}); err != nil {
		log.Warn().Err(err).Str("type", string(eventType)).Str("key", key).Msg("failed to publish event")
	}
}
