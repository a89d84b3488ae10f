// Package notifier turns booking events into notices for passengers and admins.
// Delivery from Kafka is at least once, so each event id is handled once per dedupe window.
package notifier

import (
	"context"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"pxltravel/config"
	"pxltravel/infras/kafka"
	"pxltravel/infras/otel"
	"pxltravel/shared"
	"pxltravel/shared/cache"
	"pxltravel/shared/constant"
	"pxltravel/shared/event"
)

const (
	cacheSeenPrefix = "notifier:seen"
	seenWindow      = 24 * 60 * constant.MinutesToSeconds
)

// Audience is who a notice is addressed to.
type Audience string

const (
	AudienceAdmins    Audience = "admins"
	AudiencePassenger Audience = "passenger"
)

// Notice is one rendered notification.
type Notice struct {
	Audience  Audience
	UserID    string
	BookingID string
	Subject   string
}

type Notifier struct {
	cfg   *config.Config
	kafka kafka.Client
	cache cache.RedisCache
	otel  otel.Otel
	send  func(ctx context.Context, notice Notice)
}

func New(cfg *config.Config, kafka kafka.Client, cache cache.RedisCache, otel otel.Otel) *Notifier {
	return &Notifier{
		cfg:   cfg,
		kafka: kafka,
		cache: cache,
		otel:  otel,
		send:  logNotice,
	}
}

// WithSender replaces the delivery function.
func (n *Notifier) WithSender(send func(ctx context.Context, notice Notice)) *Notifier {
	n.send = send

	return n
}

// Run consumes the booking topic until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	log.Info().Str("topic", n.cfg.Kafka.Topic.Booking).Str("group", n.cfg.Kafka.ConsumerGroup).Msg("notifier started")

	n.kafka.Consume(ctx, n.cfg.Kafka.ConsumerGroup, n.cfg.Kafka.Topic.Booking, func(message kafkaGo.Message) {
		n.Handle(ctx, message)
	})
}

// Handle processes one record. Malformed and repeated events are dropped.
func (n *Notifier) Handle(ctx context.Context, message kafkaGo.Message) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Notify")
	defer scope.End()

	decoded, err := kafka.DecodeKafkaMessage[event.Message](message)
	if err != nil {
		scope.TraceError(err)

		return
	}

	msg, _ := decoded.Value.(event.Message)
	scope.SetAttributes(map[string]any{"event.id": msg.ID, "event.type": string(msg.Type)})

	notice, ok, err := render(msg)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("event_id", msg.ID).Msg("failed to decode booking event")

		return
	}

	if !ok {
		return
	}

	if n.seen(ctx, msg.ID) {
		log.Debug().Str("event_id", msg.ID).Msg("skipping redelivered event")

		return
	}

	n.send(ctx, notice)
}

// seen marks id as handled and reports whether it already was. A cache outage counts as unseen.
func (n *Notifier) seen(ctx context.Context, id string) bool {
	count, err := n.cache.Increment(ctx, shared.BuildCacheKey(cacheSeenPrefix, id), seenWindow)
	if err != nil {
		log.Warn().Err(err).Str("event_id", id).Msg("failed to record event delivery")

		return false
	}

	return count > 1
}

func render(msg event.Message) (Notice, bool, error) {
	switch msg.Type {
	case event.BookingSubmitted:
		payload, err := event.Decode[event.BookingPayload](msg)
		if err != nil {
			return Notice{}, false, err //nolint:wrapcheck
		}

		return Notice{
			Audience:  AudienceAdmins,
			UserID:    payload.UserID,
			BookingID: payload.BookingID,
			Subject: "New booking from " + payload.PassengerName + ": " +
				payload.FlightOrigin + " to " + payload.FlightDestination + " on " + payload.FlightDate,
		}, true, nil
	case event.BookingReviewed:
		payload, err := event.Decode[event.BookingPayload](msg)
		if err != nil {
			return Notice{}, false, err //nolint:wrapcheck
		}

		return Notice{
			Audience:  AudiencePassenger,
			UserID:    payload.UserID,
			BookingID: payload.BookingID,
			Subject: "Your booking " + payload.FlightOrigin + " to " + payload.FlightDestination +
				" on " + payload.FlightDate + " was " + payload.Status,
		}, true, nil
	default:
		return Notice{}, false, nil
	}
}

func logNotice(_ context.Context, notice Notice) {
	log.Info().
		Str("audience", string(notice.Audience)).
		Str("user_id", notice.UserID).
		Str("booking_id", notice.BookingID).
		Msg(notice.Subject)
}
