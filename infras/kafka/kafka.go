package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"

	"pxltravel/config"
	"pxltravel/infras/otel"
	"pxltravel/shared/constant"
)

const (
	writeTimeout     = 10 * time.Second
	readBackoff      = 500 * time.Millisecond
	readBackoffMax   = 30 * time.Second
	otelAttrTopic    = "topic"
	otelAttrMessages = "messages"
)

// Message is a keyed JSON payload. Messages sharing a key land on the same partition.
type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode message %q: %w", m.Key, err)
	}

	return kafkaGo.Message{
		Key:     []byte(m.Key),
		Value:   value,
		Headers: []kafkaGo.Header{{Key: constant.RequestHeaderContentType, Value: []byte(constant.ContentTypeJSON)}},
	}, nil
}

// DecodeKafkaMessage reads msg's JSON value into a T.
func DecodeKafkaMessage[T any](msg kafkaGo.Message) (Message, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return Message{}, fmt.Errorf("failed to decode message %q at offset %d: %w", msg.Key, msg.Offset, err)
	}

	return Message{Key: string(msg.Key), Value: value}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler func(message kafkaGo.Message))
	Close() error
}

type kafkaClientImpl struct {
	config *config.Config
	dialer *kafkaGo.Dialer
	writer *kafkaGo.Writer
	otel   otel.Otel
}

// New returns a no-op client when KAFKA_ENABLE is false so callers never branch on it.
func New(config *config.Config, otel otel.Otel) Client {
	if !config.Kafka.Enable {
		log.Info().Msg("Kafka disabled, events will be dropped")

		return &disabledClient{}
	}

	var mechanism sasl.Mechanism
	if config.Kafka.SASL.Username != constant.Empty {
		mechanism = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	dialer := &kafkaGo.Dialer{
		DualStack:     true,
		SASLMechanism: mechanism,
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Transport:              &kafkaGo.Transport{SASL: mechanism},
		Balancer:               &kafkaGo.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config: config,
		dialer: dialer,
		writer: writer,
		otel:   otel,
	}
}

func (k *kafkaClientImpl) reader(consumerGroup, topic string) *kafkaGo.Reader {
	if topic == constant.Empty {
		log.Error().Msg("topic name cannot be empty when creating Kafka reader")

		return nil
	}

	groupID := k.config.Kafka.ConsumerGroup
	if consumerGroup != constant.Empty {
		groupID = consumerGroup
	}

	return kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrTopic:    topic,
		otelAttrMessages: len(messages),
	})

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msg.Topic = topic
		msgs = append(msgs, msg)
	}

	if err = k.writer.WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to send message to Kafka")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("sent messages to Kafka")

	return nil
}

// Consume hands every message of topic to handler and commits its offset once handler returns,
// so a crash redelivers at most the message in flight. Read errors back off up to readBackoffMax.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler func(message kafkaGo.Message)) {
	reader := k.reader(consumerGroup, topic)
	if reader == nil {
		return
	}

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Kafka reader")
		}
	}()

	backoff := readBackoff

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", topic).Msg("consumer context done")

				return
			}

			log.Error().Err(err).Str("topic", topic).Dur("retry_in", backoff).Msg("failed to fetch message from Kafka")

			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}

			backoff = min(2*backoff, readBackoffMax)

			continue
		}

		backoff = readBackoff

		log.Debug().Str("topic", topic).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("received message from Kafka")

		handler(msg)

		if err = reader.CommitMessages(context.WithoutCancel(ctx), msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("failed to commit Kafka offset")
		}
	}
}

func (k *kafkaClientImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}

type disabledClient struct{}

func (d *disabledClient) SendMessages(_ context.Context, topic string, messages ...Message) error {
	log.Debug().Str("topic", topic).Int("count", len(messages)).Msg("Kafka disabled, dropping messages")

	return nil
}

func (d *disabledClient) Consume(ctx context.Context, _, topic string, _ func(message kafkaGo.Message)) {
	log.Warn().Str("topic", topic).Msg("Kafka disabled, consumer idle until shutdown")
	<-ctx.Done()
}

func (d *disabledClient) Close() error {
	return nil
}
