package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/storefront/pkg/logger"
)

// Errors returned when a message cannot be dispatched
var (
	ErrMissingEventType = errors.New("message without event_type header")
	ErrNoHandler        = errors.New("no handler registered for event type")
	ErrUnknownEventType = errors.New("unknown event type")
)

// EventHandler processes one decoded favorites event
type EventHandler func(ctx context.Context, event FavoriteToggledEvent) error

// Consumer reads favorites events from a consumer group and dispatches them
// by their event_type header.
type Consumer struct {
	group   sarama.ConsumerGroup
	groupID string
	topics  []string

	mu       sync.RWMutex
	handlers map[string]EventHandler
}

// NewConsumer joins groupID on the given brokers. Consumption starts with Start.
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_6_0_0
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("join consumer group %s: %w", groupID, err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Favorites event consumer created")

	c := newConsumer(groupID, topics)
	c.group = group
	return c, nil
}

func newConsumer(groupID string, topics []string) *Consumer {
	return &Consumer{
		groupID:  groupID,
		topics:   topics,
		handlers: make(map[string]EventHandler),
	}
}

// RegisterHandler routes events of eventType to handler, replacing any
// previous registration.
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.mu.Lock()
	c.handlers[eventType] = handler
	c.mu.Unlock()

	logger.Logger.Debug().Str("event_type", eventType).Msg("Favorites event handler registered")
}

func (c *Consumer) handlerFor(eventType string) (EventHandler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[eventType]
	return h, ok
}

// Start consumes in the background until ctx is done or the consumer is closed.
func (c *Consumer) Start(ctx context.Context) error {
	go c.consumeLoop(ctx)
	go c.logGroupErrors()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Favorites event consumer started")
	return nil
}

// consumeLoop rejoins the group after every rebalance.
func (c *Consumer) consumeLoop(ctx context.Context) {
	claims := claimHandler{c}
	for {
		err := c.group.Consume(ctx, c.topics, claims)
		switch {
		case errors.Is(err, sarama.ErrClosedConsumerGroup):
			return
		case err != nil:
			logger.Logger.Error().Err(err).Str("group_id", c.groupID).Msg("Consumer group session failed")
		}

		if ctx.Err() != nil {
			logger.Logger.Info().Str("group_id", c.groupID).Msg("Favorites event consumer stopping")
			return
		}
	}
}

func (c *Consumer) logGroupErrors() {
	for err := range c.group.Errors() {
		logger.Logger.Error().Err(err).Str("group_id", c.groupID).Msg("Consumer group error")
	}
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	if c.group == nil {
		return nil
	}
	return c.group.Close()
}

// claimHandler feeds every claimed message to the consumer. A message is
// marked even when it fails: redelivering a payload that cannot be decoded
// or recorded would fail the same way.
type claimHandler struct {
	c *Consumer
}

func (claimHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (claimHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h claimHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		_ = h.c.handleMessage(session.Context(), msg)
		session.MarkMessage(msg, "")
	}
	return nil
}

// envelope is what the publisher puts in the record headers
type envelope struct {
	eventType string
	eventID   string
	trace     propagation.MapCarrier
}

func readEnvelope(msg *sarama.ConsumerMessage) envelope {
	env := envelope{trace: propagation.MapCarrier{}}
	for _, h := range msg.Headers {
		key := string(h.Key)
		switch key {
		case headerEventType:
			env.eventType = string(h.Value)
		case headerEventID:
			env.eventID = string(h.Value)
		case "traceparent", "tracestate":
			env.trace[key] = string(h.Value)
		}
	}
	return env
}

func decodeEvent(eventType string, value []byte) (FavoriteToggledEvent, error) {
	var event FavoriteToggledEvent
	if eventType != EventTypeFavoriteToggled {
		return event, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}
	if err := json.Unmarshal(value, &event); err != nil {
		return event, fmt.Errorf("decode %s: %w", eventType, err)
	}
	return event, nil
}

// handleMessage runs one message through header parsing, lookup, decoding
// and its handler under a consumer span linked to the producer's trace.
func (c *Consumer) handleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	env := readEnvelope(msg)
	ctx = otel.GetTextMapPropagator().Extract(ctx, env.trace)

	ctx, span := otel.Tracer("favorites-consumer").Start(ctx, "kafka.consume "+msg.Topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", msg.Topic),
			attribute.Int("messaging.kafka.partition", int(msg.Partition)),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
			attribute.String("event.type", env.eventType),
			attribute.String("event.id", env.eventID),
		),
	)
	defer span.End()

	log := logger.Logger.With().
		Str("topic", msg.Topic).
		Int32("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Str("event_type", env.eventType).
		Str("event_id", env.eventID).
		Logger()

	if env.eventType == "" {
		return fail(span, &log, ErrMissingEventType)
	}

	handler, ok := c.handlerFor(env.eventType)
	if !ok {
		return fail(span, &log, fmt.Errorf("%w: %s", ErrNoHandler, env.eventType))
	}

	event, err := decodeEvent(env.eventType, msg.Value)
	if err != nil {
		return fail(span, &log, err)
	}
	span.SetAttributes(
		attribute.Int("product.id", event.ProductID),
		attribute.String("favorite.action", event.Action),
	)

	if err := handler(ctx, event); err != nil {
		return fail(span, &log, err)
	}

	span.SetStatus(codes.Ok, "")
	log.Debug().Int("product_id", event.ProductID).Msg("Favorites event handled")
	return nil
}

func fail(span trace.Span, log *zerolog.Logger, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	log.Warn().Err(err).Msg("Favorites event dropped")
	return err
}
