package notifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pxltravel/config"
	kafkaMocks "pxltravel/infras/kafka/mocks"
	"pxltravel/infras/otel/mocks"
	"pxltravel/internal/notifier"
	cacheMocks "pxltravel/shared/cache/mocks"
	"pxltravel/shared/event"
)

func record(t *testing.T, eventType event.Type, payload any) (kafkaGo.Message, string) {
	t.Helper()

	msg, err := event.New(eventType, "u-1", payload)
	require.NoError(t, err)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	return kafkaGo.Message{Key: []byte("b-1"), Value: raw}, msg.ID
}

func setup(t *testing.T) (*notifier.Notifier, *kafkaMocks.MockClient, *cacheMocks.MockRedisCache, *[]notifier.Notice) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cfg := &config.Config{}
	cfg.Kafka.ConsumerGroup = "pxltravel-notifier"
	cfg.Kafka.Topic.Booking = "bookings"

	client := kafkaMocks.NewMockClient(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	var sent []notifier.Notice

	n := notifier.New(cfg, client, cache, mocks.NewOtel()).WithSender(func(_ context.Context, notice notifier.Notice) {
		sent = append(sent, notice)
	})

	return n, client, cache, &sent
}

var payload = event.BookingPayload{
	BookingID:         "b-1",
	UserID:            "u-1",
	PassengerName:     "Ana",
	FlightOrigin:      "MNL",
	FlightDestination: "CEB",
	FlightDate:        "2026-11-02",
	Status:            "pending",
}

func TestHandle_Submitted(t *testing.T) {
	n, _, cache, sent := setup(t)
	message, id := record(t, event.BookingSubmitted, payload)

	cache.EXPECT().Increment(gomock.Any(), "notifier:seen:"+id, gomock.Any()).Return(int64(1), nil)

	n.Handle(context.Background(), message)

	require.Len(t, *sent, 1)
	assert.Equal(t, notifier.AudienceAdmins, (*sent)[0].Audience)
	assert.Equal(t, "b-1", (*sent)[0].BookingID)
	assert.Equal(t, "New booking from Ana: MNL to CEB on 2026-11-02", (*sent)[0].Subject)
}

func TestHandle_Reviewed(t *testing.T) {
	n, _, cache, sent := setup(t)

	reviewed := payload
	reviewed.Status = "confirmed"
	reviewed.ReviewedBy = "admin-1"
	message, _ := record(t, event.BookingReviewed, reviewed)

	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)

	n.Handle(context.Background(), message)

	require.Len(t, *sent, 1)
	assert.Equal(t, notifier.AudiencePassenger, (*sent)[0].Audience)
	assert.Equal(t, "u-1", (*sent)[0].UserID)
	assert.Equal(t, "Your booking MNL to CEB on 2026-11-02 was confirmed", (*sent)[0].Subject)
}

func TestHandle_Redelivered(t *testing.T) {
	n, _, cache, sent := setup(t)
	message, _ := record(t, event.BookingSubmitted, payload)

	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(2), nil)

	n.Handle(context.Background(), message)

	assert.Empty(t, *sent)
}

func TestHandle_CacheDownStillNotifies(t *testing.T) {
	n, _, cache, sent := setup(t)
	message, _ := record(t, event.BookingSubmitted, payload)

	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection refused"))

	n.Handle(context.Background(), message)

	assert.Len(t, *sent, 1)
}

func TestHandle_Ignored(t *testing.T) {
	n, _, _, sent := setup(t)

	t.Run("other event type", func(t *testing.T) {
		message, _ := record(t, event.InventoryCreated, event.InventoryPayload{ID: "f-1"})

		n.Handle(context.Background(), message)
	})

	t.Run("malformed envelope", func(t *testing.T) {
		n.Handle(context.Background(), kafkaGo.Message{Value: []byte("{not json")})
	})

	t.Run("malformed payload", func(t *testing.T) {
		raw, err := json.Marshal(event.Message{ID: "e-1", Type: event.BookingSubmitted, Payload: json.RawMessage(`"text"`)})
		require.NoError(t, err)

		n.Handle(context.Background(), kafkaGo.Message{Value: raw})
	})

	assert.Empty(t, *sent)
}

func TestRun_ConsumesBookingTopic(t *testing.T) {
	n, client, _, _ := setup(t)

	client.EXPECT().Consume(gomock.Any(), "pxltravel-notifier", "bookings", gomock.Any())

	n.Run(context.Background())
}
