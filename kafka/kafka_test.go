package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func producerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	return config
}

func TestPublisher_PublishFavoriteToggled(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event FavoriteToggledEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeFavoriteToggled {
			return errors.New("unexpected event type " + event.EventType)
		}
		if event.EventID == "" || event.Timestamp.IsZero() {
			return errors.New("event metadata not set")
		}
		if event.ProductID != 1 || event.Action != ActionAdded || event.FavoritesCount != 3 {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := NewPublisherWithProducer(producer, nil)
	err := p.PublishFavoriteToggled(context.Background(), FavoriteToggledEvent{
		ProductID:      1,
		Title:          "Fjallraven Backpack",
		Price:          decimal.RequireFromString("109.95"),
		Action:         ActionAdded,
		FavoritesCount: 3,
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisherWithProducer(producer, nil)
	err := p.PublishFavoriteToggled(context.Background(), FavoriteToggledEvent{ProductID: 2, Action: ActionRemoved})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func message(t *testing.T, eventType string, event any) *sarama.ConsumerMessage {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)

	msg := &sarama.ConsumerMessage{Topic: TopicFavoriteToggled, Value: value}
	if eventType != "" {
		msg.Headers = []*sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("event_id"), Value: []byte("evt-1")},
		}
	}
	return msg
}

func TestConsumer_HandleMessage(t *testing.T) {
	c := newConsumer("audit", []string{TopicFavoriteToggled})

	var got []FavoriteToggledEvent
	c.RegisterHandler(EventTypeFavoriteToggled, func(ctx context.Context, event FavoriteToggledEvent) error {
		got = append(got, event)
		return nil
	})

	err := c.handleMessage(context.Background(), message(t, EventTypeFavoriteToggled, FavoriteToggledEvent{
		EventID:   "evt-1",
		EventType: EventTypeFavoriteToggled,
		ProductID: 7,
		Action:    ActionRemoved,
	}))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].ProductID)
	assert.Equal(t, ActionRemoved, got[0].Action)
}

func TestConsumer_HandleMessageErrors(t *testing.T) {
	ctx := context.Background()
	c := newConsumer("audit", []string{TopicFavoriteToggled})

	err := c.handleMessage(ctx, message(t, "", FavoriteToggledEvent{}))
	assert.ErrorIs(t, err, ErrMissingEventType)

	err = c.handleMessage(ctx, message(t, EventTypeFavoriteToggled, FavoriteToggledEvent{}))
	assert.ErrorIs(t, err, ErrNoHandler)

	c.RegisterHandler("cart.updated", func(context.Context, FavoriteToggledEvent) error { return nil })
	err = c.handleMessage(ctx, message(t, "cart.updated", FavoriteToggledEvent{}))
	assert.ErrorIs(t, err, ErrUnknownEventType)

	boom := errors.New("boom")
	c.RegisterHandler(EventTypeFavoriteToggled, func(context.Context, FavoriteToggledEvent) error { return boom })
	err = c.handleMessage(ctx, message(t, EventTypeFavoriteToggled, FavoriteToggledEvent{ProductID: 1}))
	assert.ErrorIs(t, err, boom)

	bad := &sarama.ConsumerMessage{
		Value:   []byte("not json"),
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(EventTypeFavoriteToggled)}},
	}
	assert.Error(t, c.handleMessage(ctx, bad))
}

func TestReadEnvelope(t *testing.T) {
	msg := &sarama.ConsumerMessage{
		Headers: []*sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(EventTypeFavoriteToggled)},
			{Key: []byte("event_id"), Value: []byte("evt-9")},
			{Key: []byte("traceparent"), Value: []byte("00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")},
			{Key: []byte("x-unrelated"), Value: []byte("ignored")},
		},
	}

	env := readEnvelope(msg)
	assert.Equal(t, EventTypeFavoriteToggled, env.eventType)
	assert.Equal(t, "evt-9", env.eventID)
	assert.Equal(t, []string{"traceparent"}, env.trace.Keys())
}
